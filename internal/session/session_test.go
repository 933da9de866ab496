package session

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/services"
)

// makeToken builds an unsigned JWT with the given subject and expiry.
func makeToken(t *testing.T, subject string, expiry time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(Claims{Subject: subject, Expiry: expiry.Unix()})
	if err != nil {
		t.Fatalf("failed to marshal claims: %v", err)
	}
	return fmt.Sprintf("%s.%s.sig", header, base64.RawURLEncoding.EncodeToString(payload))
}

func newTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, *Store) {
	t.Helper()
	store := NewStore(t.TempDir())
	var seo *services.SEOService
	if handler != nil {
		server := httptest.NewServer(handler)
		t.Cleanup(server.Close)
		seo = services.NewSEOService(services.NewAPIService(server.URL, nil, store), services.Timeouts{})
	}
	return NewManager(store, seo, nil), store
}

func TestStore(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		store := NewStore(dir)

		if err := store.Save("tok-123", "demo"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := store.Token(); got != "tok-123" {
			t.Errorf("expected token tok-123, got %q", got)
		}
		if got := store.Username(); got != "demo" {
			t.Errorf("expected username demo, got %q", got)
		}

		info, err := os.Stat(filepath.Join(dir, "token"))
		if err != nil {
			t.Fatalf("expected token file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600 token file, got %o", perm)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		store := NewStore(t.TempDir())
		store.Clear()
		store.Clear()
		if got := store.Token(); got != "" {
			t.Errorf("expected empty token, got %q", got)
		}
	})

	t.Run("Missing Files Read As Empty", func(t *testing.T) {
		store := NewStore(filepath.Join(t.TempDir(), "never-created"))
		if store.Token() != "" || store.Username() != "" {
			t.Error("expected empty reads for missing store")
		}
	})
}

func TestDecodeClaims(t *testing.T) {
	t.Run("Extracts Subject And Expiry", func(t *testing.T) {
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		claims, err := DecodeClaims(makeToken(t, "u1", expiry))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if claims.Subject != "u1" {
			t.Errorf("expected subject u1, got %q", claims.Subject)
		}
		if !claims.ExpiresAt().Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, claims.ExpiresAt())
		}
	})

	t.Run("Rejects Malformed Tokens", func(t *testing.T) {
		for _, token := range []string{"", "one.two", "not-a-jwt", "a.!!.c"} {
			if _, err := DecodeClaims(token); err == nil {
				t.Errorf("expected error for token %q", token)
			}
		}
	})

	t.Run("Expired", func(t *testing.T) {
		now := time.Now()
		past := Claims{Expiry: now.Add(-time.Minute).Unix()}
		future := Claims{Expiry: now.Add(time.Minute).Unix()}
		zero := Claims{}

		if !past.Expired(now) {
			t.Error("expected past expiry to report expired")
		}
		if future.Expired(now) {
			t.Error("expected future expiry to report valid")
		}
		if zero.Expired(now) {
			t.Error("expected zero expiry to never report expired")
		}
	})
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("Init", func(t *testing.T) {
		t.Run("Restores Valid Session Without Network", func(t *testing.T) {
			manager, store := newTestManager(t, nil)
			store.Save(makeToken(t, "u1", time.Now().Add(time.Hour)), "demo")

			if !manager.Loading() {
				t.Error("expected manager to start loading")
			}
			manager.Init()
			if manager.Loading() {
				t.Error("expected loading resolved after Init")
			}

			user := manager.User()
			if user == nil {
				t.Fatal("expected restored user")
			}
			if user.ID != "u1" || user.Username != "demo" {
				t.Errorf("unexpected user: %+v", user)
			}
		})

		t.Run("Expired Token Clears The Store", func(t *testing.T) {
			manager, store := newTestManager(t, nil)
			store.Save(makeToken(t, "u1", time.Now().Add(-time.Hour)), "demo")

			manager.Init()
			if manager.IsAuthenticated() {
				t.Error("expected anonymous session")
			}
			if store.Token() != "" {
				t.Error("expected expired token removed from store")
			}
		})

		t.Run("Undecodable Token Clears The Store", func(t *testing.T) {
			manager, store := newTestManager(t, nil)
			store.Save("garbage-token", "demo")

			manager.Init()
			if manager.IsAuthenticated() {
				t.Error("expected anonymous session")
			}
			if store.Token() != "" {
				t.Error("expected bad token removed from store")
			}
		})

		t.Run("Empty Store Stays Anonymous", func(t *testing.T) {
			manager, _ := newTestManager(t, nil)
			manager.Init()
			if manager.IsAuthenticated() {
				t.Error("expected anonymous session")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("Success Persists Credentials", func(t *testing.T) {
			manager, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{
					"access_token": "tok", "username": "demo", "user_id": "u1",
				})
			})

			if !manager.Login(ctx, "user@example.com", "secret") {
				t.Fatal("expected login success")
			}
			if store.Token() != "tok" {
				t.Errorf("expected persisted token, got %q", store.Token())
			}
			if user := manager.User(); user == nil || user.Username != "demo" {
				t.Errorf("unexpected user: %+v", user)
			}
		})

		t.Run("Rejected Credentials Persist Nothing", func(t *testing.T) {
			manager, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			})
			var logs bytes.Buffer
			manager.SetLogger(log.New(&logs))

			if manager.Login(ctx, "user@example.com", "wrong") {
				t.Fatal("expected login failure")
			}
			if store.Token() != "" {
				t.Error("expected no persisted token after failure")
			}
			if manager.IsAuthenticated() {
				t.Error("expected anonymous session after failure")
			}
			if !strings.Contains(logs.String(), "invalid credentials, check your email and password") {
				t.Errorf("expected invalid-credentials message, got logs:\n%s", logs.String())
			}
		})

		t.Run("Malformed Request Reports Format Message", func(t *testing.T) {
			manager, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnprocessableEntity)
				json.NewEncoder(w).Encode(map[string]any{"detail": []string{"value is not a valid email address"}})
			})
			var logs bytes.Buffer
			manager.SetLogger(log.New(&logs))

			if manager.Login(ctx, "not-an-email", "secret") {
				t.Fatal("expected login failure")
			}
			if !strings.Contains(logs.String(), "invalid login format, check your email and password") {
				t.Errorf("expected invalid-format message, got logs:\n%s", logs.String())
			}
		})

		t.Run("Unreachable Backend Reports Connectivity", func(t *testing.T) {
			store := NewStore(t.TempDir())
			seo := services.NewSEOService(services.NewAPIService("http://127.0.0.1:0", nil, store), services.Timeouts{})
			manager := NewManager(store, seo, nil)
			var logs bytes.Buffer
			manager.SetLogger(log.New(&logs))

			if manager.Login(ctx, "user@example.com", "secret") {
				t.Fatal("expected login failure")
			}
			if !strings.Contains(logs.String(), "no response from server, check your connection") {
				t.Errorf("expected connectivity message, got logs:\n%s", logs.String())
			}
		})

		t.Run("Empty Fields Fail Without Network", func(t *testing.T) {
			manager, _ := newTestManager(t, nil)
			if manager.Login(ctx, "", "secret") {
				t.Error("expected failure for empty email")
			}
			if manager.Login(ctx, "user@example.com", "") {
				t.Error("expected failure for empty password")
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		t.Run("Validates Before Any Network Call", func(t *testing.T) {
			manager, _ := newTestManager(t, nil)
			if manager.Signup(ctx, "", "user@example.com", "secret") {
				t.Error("expected failure for empty username")
			}
			if manager.Signup(ctx, "demo", "user@example.com", "short") {
				t.Error("expected failure for short password")
			}
		})

		t.Run("Success Does Not Authenticate", func(t *testing.T) {
			manager, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			})

			if !manager.Signup(ctx, "demo", "user@example.com", "secret") {
				t.Fatal("expected signup success")
			}
			if manager.IsAuthenticated() {
				t.Error("expected signup to leave session anonymous")
			}
			if store.Token() != "" {
				t.Error("expected no token after signup")
			}
		})
	})

	t.Run("Logout", func(t *testing.T) {
		manager, store := newTestManager(t, nil)
		store.Save(makeToken(t, "u1", time.Now().Add(time.Hour)), "demo")
		manager.Init()

		manager.Logout()
		if manager.IsAuthenticated() {
			t.Error("expected anonymous session after logout")
		}
		if store.Token() != "" {
			t.Error("expected store cleared after logout")
		}
	})
}
