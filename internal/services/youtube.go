// YouTube integration client
//
// The backend owns the OAuth grant and the YouTube Data API calls; this
// client only drives the handoff (auth URL, callback exchange, status)
// and the per-video publish action.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// YouTubeService is the typed client for the backend's /youtube endpoints.
type YouTubeService struct {
	api      *APIService
	timeouts Timeouts
}

// NewYouTubeService creates a YouTube integration client over the given facade.
func NewYouTubeService(api *APIService, timeouts Timeouts) *YouTubeService {
	return &YouTubeService{api: api, timeouts: timeouts.normalized()}
}

// AuthURL requests the hosted OAuth authorization URL via GET /youtube/auth.
func (y *YouTubeService) AuthURL(ctx context.Context) (string, error) {
	resp, err := y.api.Get(ctx, "/youtube/auth", y.timeouts.Default)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", errorFromResponse(resp)
	}

	var result struct {
		AuthURL string `json:"auth_url"`
	}
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	if result.AuthURL == "" {
		return "", fmt.Errorf("backend returned empty auth_url")
	}
	return result.AuthURL, nil
}

// Callback forwards the provider's code and state to the backend for token
// exchange via GET /youtube/callback.
func (y *YouTubeService) Callback(ctx context.Context, code, state string) (bool, error) {
	query := url.Values{}
	query.Set("code", code)
	query.Set("state", state)

	resp, err := y.api.Get(ctx, "/youtube/callback?"+query.Encode(), y.timeouts.Default)
	if err != nil {
		return false, err
	}
	if !resp.OK() {
		return false, errorFromResponse(resp)
	}

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := resp.Decode(&result); err != nil {
		return false, err
	}
	if !result.Success {
		if result.Error != "" {
			return false, fmt.Errorf("youtube connection failed: %s", result.Error)
		}
		return false, fmt.Errorf("youtube connection failed")
	}
	return true, nil
}

// Status probes the connection flag via GET /youtube/status.
func (y *YouTubeService) Status(ctx context.Context) (bool, error) {
	resp, err := y.api.Get(ctx, "/youtube/status", y.timeouts.Default)
	if err != nil {
		return false, err
	}
	if !resp.OK() {
		return false, errorFromResponse(resp)
	}

	var result struct {
		Connected bool `json:"connected"`
	}
	if err := resp.Decode(&result); err != nil {
		return false, err
	}
	return result.Connected, nil
}

// ConnectWithToken registers a directly obtained OAuth access token with
// the backend via POST /user/youtube-connect.
func (y *YouTubeService) ConnectWithToken(ctx context.Context, accessToken string) error {
	payload, err := json.Marshal(map[string]string{"access_token": accessToken})
	if err != nil {
		return fmt.Errorf("failed to marshal connect request: %w", err)
	}

	resp, err := y.api.Post(ctx, "/user/youtube-connect", payload, y.timeouts.Default)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorFromResponse(resp)
	}
	return nil
}

// PublishRequest is the metadata payload for POST /youtube/upload/{videoID}.
type PublishRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	PrivacyStatus string   `json:"privacy_status"`
}

// PublishResult is the consumed portion of a successful publish response,
// kept for user copy-paste display.
type PublishResult struct {
	Success     bool     `json:"success"`
	URL         string   `json:"youtube_url"`
	Title       string   `json:"youtube_title"`
	Description string   `json:"youtube_description"`
	Tags        []string `json:"youtube_tags"`
}

// Upload publishes a video's optimized metadata to YouTube.
func (y *YouTubeService) Upload(ctx context.Context, videoID string, req PublishRequest) (*PublishResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal upload request: %w", err)
	}

	resp, err := y.api.Post(ctx, "/youtube/upload/"+videoID, payload, y.timeouts.Upload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result PublishResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("youtube upload reported failure")
	}
	return &result, nil
}
