package cloudinary

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestRepository(serverURL string) *CloudinaryRepository {
	repo := NewCloudinaryRepository(CloudinaryConfig{
		CloudName: "demo",
		APIKey:    "key",
		APISecret: "secret",
	})
	repo.baseURL = serverURL
	return repo
}

func TestListReturnsURLsAndCursor(t *testing.T) {
	var gotPath, gotPrefix, gotCursor string
	var gotAuth bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrefix = r.URL.Query().Get("prefix")
		gotCursor = r.URL.Query().Get("next_cursor")
		user, pass, ok := r.BasicAuth()
		gotAuth = ok && user == "key" && pass == "secret"

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"resources": [
				{"secure_url": "https://res.example.com/a.jpg"},
				{"secure_url": "https://res.example.com/b.jpg"}
			],
			"next_cursor": "abc123"
		}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	urls, next, err := repo.List(context.Background(), "steezemodels/", "prev456")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if gotPath != "/v1_1/demo/resources/image/upload" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPrefix != "steezemodels/" || gotCursor != "prev456" {
		t.Errorf("query prefix=%q cursor=%q", gotPrefix, gotCursor)
	}
	if !gotAuth {
		t.Error("request missing basic auth credentials")
	}
	if len(urls) != 2 || urls[0] != "https://res.example.com/a.jpg" {
		t.Errorf("urls = %v", urls)
	}
	if next != "abc123" {
		t.Errorf("next = %q, want abc123", next)
	}
}

func TestListSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"unknown api key"}}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	if _, _, err := repo.List(context.Background(), "steezemodels/", ""); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}

func TestDestroyTreatsNotFoundAsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": "not found"}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	if err := repo.Destroy("steezestore/products/gone"); err != nil {
		t.Fatalf("not-found destroy should be a no-op success: %v", err)
	}
}

func TestDestroyRejectedResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result": "error"}`))
	}))
	defer server.Close()

	repo := newTestRepository(server.URL)

	if err := repo.Destroy("steezestore/products/p1"); err == nil {
		t.Fatal("expected an error for a rejected destroy")
	}
}
