//go:build !integration

package web_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DucAnhIT03/Nhom4-sub001/internal/infra/web"
)

func authedRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestAuthManager(t *testing.T) {
	t.Run("round trip preserves the subject", func(t *testing.T) {
		am := web.NewAuthManager("test-secret", time.Hour)
		tok, err := am.Mint("user-1")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		claims, err := am.ParseFromRequest(authedRequest(tok))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if claims.Subject != "user-1" {
			t.Errorf("subject %q, want user-1", claims.Subject)
		}
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		am := web.NewAuthManager("test-secret", -time.Minute)
		tok, err := am.Mint("user-1")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		if _, err := am.ParseFromRequest(authedRequest(tok)); err == nil {
			t.Fatal("expected expired token to fail")
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := web.NewAuthManager("other-secret", time.Hour)
		tok, err := other.Mint("user-1")
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		am := web.NewAuthManager("test-secret", time.Hour)
		if _, err := am.ParseFromRequest(authedRequest(tok)); err == nil {
			t.Fatal("expected foreign token to fail")
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		am := web.NewAuthManager("test-secret", time.Hour)
		if _, err := am.ParseFromRequest(authedRequest("")); err == nil {
			t.Fatal("expected missing header to fail")
		}
	})

	t.Run("non-bearer scheme is rejected", func(t *testing.T) {
		am := web.NewAuthManager("test-secret", time.Hour)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		if _, err := am.ParseFromRequest(r); err == nil {
			t.Fatal("expected basic auth to fail")
		}
	})
}
