package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestYouTubeService(t *testing.T, handler http.HandlerFunc) *YouTubeService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	api := NewAPIService(server.URL, nil, nil)
	return NewYouTubeService(api, Timeouts{})
}

func TestYouTubeService(t *testing.T) {
	t.Run("AuthURL", func(t *testing.T) {
		t.Run("Returns Hosted URL", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/youtube/auth" {
					t.Errorf("expected /youtube/auth, got %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(map[string]string{"auth_url": "https://accounts.google.com/o/oauth2/auth?state=x"})
			})

			authURL, err := srv.AuthURL(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.HasPrefix(authURL, "https://accounts.google.com/") {
				t.Errorf("unexpected auth url: %s", authURL)
			}
		})

		t.Run("Empty URL Is An Error", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]string{"auth_url": ""})
			})

			if _, err := srv.AuthURL(context.Background()); err == nil {
				t.Error("expected error for empty auth_url")
			}
		})
	})

	t.Run("Callback", func(t *testing.T) {
		t.Run("Forwards Code And State", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("code"); got != "c0de" {
					t.Errorf("expected code c0de, got %q", got)
				}
				if got := r.URL.Query().Get("state"); got != "st4te" {
					t.Errorf("expected state st4te, got %q", got)
				}
				json.NewEncoder(w).Encode(map[string]bool{"success": true})
			})

			connected, err := srv.Callback(context.Background(), "c0de", "st4te")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !connected {
				t.Error("expected connected true")
			}
		})

		t.Run("Backend Failure Surfaces Message", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "state mismatch"})
			})

			_, err := srv.Callback(context.Background(), "c", "s")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "state mismatch") {
				t.Errorf("expected backend message in error, got %v", err)
			}
		})
	})

	t.Run("Status", func(t *testing.T) {
		srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]bool{"connected": true})
		})

		connected, err := srv.Status(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !connected {
			t.Error("expected connected true")
		}
	})

	t.Run("ConnectWithToken", func(t *testing.T) {
		srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user/youtube-connect" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			var payload map[string]string
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if payload["access_token"] != "ya29.token" {
				t.Errorf("unexpected token payload: %v", payload)
			}
			w.WriteHeader(http.StatusOK)
		})

		if err := srv.ConnectWithToken(context.Background(), "ya29.token"); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})

	t.Run("Upload", func(t *testing.T) {
		t.Run("Publishes Metadata", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/youtube/upload/v1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var req PublishRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Fatalf("failed to decode request: %v", err)
				}
				if req.PrivacyStatus != "private" {
					t.Errorf("expected private privacy status, got %q", req.PrivacyStatus)
				}
				json.NewEncoder(w).Encode(map[string]any{
					"success":     true,
					"youtube_url": "https://youtu.be/abc",
				})
			})

			result, err := srv.Upload(context.Background(), "v1", PublishRequest{
				Title:         "demo",
				PrivacyStatus: "private",
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.URL != "https://youtu.be/abc" {
				t.Errorf("unexpected url %q", result.URL)
			}
		})

		t.Run("403 Surfaces Detail", func(t *testing.T) {
			srv := newTestYouTubeService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(map[string]string{"detail": "YouTube account not connected"})
			})

			_, err := srv.Upload(context.Background(), "v1", PublishRequest{Title: "demo"})
			if err == nil {
				t.Fatal("expected error")
			}

			var statusErr *StatusError
			if !errors.As(err, &statusErr) {
				t.Fatalf("expected StatusError, got %T", err)
			}
			if statusErr.Detail != "YouTube account not connected" {
				t.Errorf("unexpected detail %q", statusErr.Detail)
			}
		})
	})
}
