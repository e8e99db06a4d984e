package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestRateLimitKeyScopesAreDisjoint(t *testing.T) {
	public := rateLimitKey("public", "203.0.113.7", 12345)
	login := rateLimitKey("login", "203.0.113.7", 12345)

	if public == login {
		t.Fatalf("login counter shares key with public counter: %q", public)
	}
	if public != "rl:public:203.0.113.7:12345" {
		t.Errorf("key = %q", public)
	}
}

func TestRateLimitFailsOpenWhenRedisUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	e := echo.New()
	handler := RateLimitMiddleware(client, "login", 5, 5*time.Minute)(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want request to pass through", rec.Code)
	}
}
