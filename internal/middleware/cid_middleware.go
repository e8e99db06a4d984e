package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const cidContextKey = "cid"

// CIDMiddleware gives every browser a stable client token. The token comes
// from the x-cid header or the cid cookie; when neither is present a new one
// is minted and the cookie is synced so the frontend can mirror it into
// localStorage.
func CIDMiddleware(environment string) echo.MiddlewareFunc {
	isProd := environment == "production"

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			headerCID := strings.TrimSpace(c.Request().Header.Get("x-cid"))

			cookieCID := ""
			if cookie, err := c.Cookie("cid"); err == nil {
				cookieCID = strings.TrimSpace(cookie.Value)
			}

			cid := headerCID
			if cid == "" {
				cid = cookieCID
			}
			if cid == "" {
				cid = "cid_" + uuid.NewString()
			}

			c.Set(cidContextKey, cid)

			if cookieCID != cid {
				sameSite := http.SameSiteLaxMode
				if isProd {
					// cross-site storefront -> API in production
					sameSite = http.SameSiteNoneMode
				}
				c.SetCookie(&http.Cookie{
					Name:     "cid",
					Value:    cid,
					Path:     "/",
					MaxAge:   int((365 * 24 * time.Hour).Seconds()),
					HttpOnly: false,
					SameSite: sameSite,
					Secure:   isProd,
				})
			}

			return next(c)
		}
	}
}

// CIDFromContext returns the client token attached by CIDMiddleware.
func CIDFromContext(c echo.Context) string {
	cid, _ := c.Get(cidContextKey).(string)
	return cid
}
