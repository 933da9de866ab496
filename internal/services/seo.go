// SEO analysis backend client
//
// Typed wrappers over the backend's auth, upload, processing, history and
// notification endpoints. All methods go through [APIService] so bearer
// credentials and timeouts are applied uniformly.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/manisai28/vseo/internal/models"
)

// Timeouts carries the per-operation deadlines from configuration.
type Timeouts struct {
	Default time.Duration // most calls (30s)
	Upload  time.Duration // video upload (120s)
	Stage   time.Duration // extract/generate/rank calls (60s)
}

func (t Timeouts) normalized() Timeouts {
	if t.Default <= 0 {
		t.Default = 30 * time.Second
	}
	if t.Upload <= 0 {
		t.Upload = 120 * time.Second
	}
	if t.Stage <= 0 {
		t.Stage = 60 * time.Second
	}
	return t
}

// StatusError is a non-2xx backend response with its structured detail
// message, when one was present in the body.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("backend returned status %d", e.Code)
}

func errorFromResponse(resp *APIResponse) error {
	return &StatusError{Code: resp.StatusCode, Detail: resp.Detail()}
}

// SEOService is the typed client for the video SEO analysis backend.
type SEOService struct {
	api      *APIService
	timeouts Timeouts
}

// NewSEOService creates a typed backend client over the given facade.
func NewSEOService(api *APIService, timeouts Timeouts) *SEOService {
	return &SEOService{api: api, timeouts: timeouts.normalized()}
}

// LoginResult is the consumed portion of a successful login response.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	UserID      string `json:"user_id"`
}

// Login exchanges credentials for a bearer token via POST /auth/login.
//
// The endpoint consumes a URL-encoded form with the email in the username
// field, an OAuth2 password-grant convention on the backend side.
func (s *SEOService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	resp, err := s.api.PostForm(ctx, "/auth/login", form, s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result LoginResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup creates an account via POST /auth/signup. It never authenticates
// the caller; a successful signup is followed by an explicit login.
func (s *SEOService) Signup(ctx context.Context, username, email, password string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal signup request: %w", err)
	}

	resp, err := s.api.Post(ctx, "/auth/signup", payload, s.timeouts.Default)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorFromResponse(resp)
	}
	return nil
}

// Verify checks the current token via GET /auth/verify.
func (s *SEOService) Verify(ctx context.Context) error {
	resp, err := s.api.Get(ctx, "/auth/verify", s.timeouts.Default)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errorFromResponse(resp)
	}
	return nil
}

// UpdateProfile sends a partial profile update via PUT /auth/profile and
// returns the server's updated user fields.
func (s *SEOService) UpdateProfile(ctx context.Context, partial map[string]any) (*models.User, error) {
	payload, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile update: %w", err)
	}

	resp, err := s.api.Put(ctx, "/auth/profile", payload, s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &models.User{ID: result.User.ID, Username: result.User.Username, Email: result.User.Email}, nil
}

// UploadVideo uploads a video via multipart POST /upload/video and returns
// the created record.
func (s *SEOService) UploadVideo(ctx context.Context, title, fileName string, file io.Reader) (*models.VideoRecord, error) {
	fields := map[string]string{"title": title}

	resp, err := s.api.PostMultipart(ctx, "/upload/video", fields, "file", fileName, file, s.timeouts.Upload)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Filename string `json:"filename"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &models.VideoRecord{ID: result.ID, Title: result.Title, Filename: result.Filename}, nil
}

// StageResult is the consumed portion of an extract or generate response.
//
// VideoID and KeywordID are required pipeline contract fields; the
// orchestrator treats their absence as stage failure even on HTTP success.
type StageResult struct {
	VideoID   string `json:"video_id"`
	KeywordID string `json:"keyword_id"`
}

// ExtractText triggers text extraction via POST /extract/text/{videoID}.
func (s *SEOService) ExtractText(ctx context.Context, videoID string) (*StageResult, error) {
	resp, err := s.api.Post(ctx, "/extract/text/"+videoID, nil, s.timeouts.Stage)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result StageResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateKeywords triggers keyword generation via POST /generate/keywords/{videoID}.
func (s *SEOService) GenerateKeywords(ctx context.Context, videoID string) (*StageResult, error) {
	resp, err := s.api.Post(ctx, "/generate/keywords/"+videoID, nil, s.timeouts.Stage)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result StageResult
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetKeywords fetches a keyword set via GET /keywords/{keywordID},
// normalized to plain strings.
func (s *SEOService) GetKeywords(ctx context.Context, keywordID string) (*models.KeywordSet, error) {
	resp, err := s.api.Get(ctx, "/keywords/"+keywordID, s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		ID       string          `json:"_id"`
		VideoID  string          `json:"video_id"`
		Keywords json.RawMessage `json:"keywords"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	return &models.KeywordSet{
		ID:       result.ID,
		VideoID:  result.VideoID,
		Keywords: normalizeKeywords(result.Keywords),
	}, nil
}

// RankingResult is the consumed portion of a ranking response.
type RankingResult struct {
	VideoID   string
	KeywordID string
	Keywords  []string
	Rankings  []models.RankingEntry
}

// GetRankings computes/fetches rankings via POST /ranking/{keywordID}.
func (s *SEOService) GetRankings(ctx context.Context, keywordID string) (*RankingResult, error) {
	resp, err := s.api.Post(ctx, "/ranking/"+keywordID, nil, s.timeouts.Stage)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		VideoID   string                `json:"video_id"`
		KeywordID string                `json:"keyword_id"`
		Keywords  json.RawMessage       `json:"keywords"`
		Rankings  []models.RankingEntry `json:"rankings"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	return &RankingResult{
		VideoID:   result.VideoID,
		KeywordID: result.KeywordID,
		Keywords:  normalizeKeywords(result.Keywords),
		Rankings:  result.Rankings,
	}, nil
}

// historyItem decodes one /history entry; keywords arrive in several
// shapes and are normalized before the item becomes a VideoRecord.
type historyItem struct {
	ID                string                `json:"_id"`
	VideoID           string                `json:"video_id"`
	Title             string                `json:"title"`
	Filename          string                `json:"filename"`
	Processed         bool                  `json:"processed"`
	ExtractedText     string                `json:"extracted_text"`
	KeywordsID        string                `json:"keywords_id"`
	YoutubeUploaded   bool                  `json:"youtube_uploaded"`
	YoutubeUploadDate *time.Time            `json:"youtube_upload_date"`
	CreatedAt         string                `json:"created_at"`
	Keywords          json.RawMessage       `json:"keywords"`
	Rankings          []models.RankingEntry `json:"rankings"`
}

func (h historyItem) record() models.VideoRecord {
	id := h.ID
	if id == "" {
		id = h.VideoID
	}
	return models.VideoRecord{
		ID:                id,
		Title:             h.Title,
		Filename:          h.Filename,
		Processed:         h.Processed,
		ExtractedText:     h.ExtractedText,
		KeywordsID:        h.KeywordsID,
		YoutubeUploaded:   h.YoutubeUploaded,
		YoutubeUploadDate: h.YoutubeUploadDate,
		CreatedAt:         h.CreatedAt,
		Keywords:          normalizeKeywords(h.Keywords),
		Rankings:          h.Rankings,
	}
}

// History fetches all of the user's uploaded videos via GET /history.
func (s *SEOService) History(ctx context.Context) ([]models.VideoRecord, error) {
	resp, err := s.api.Get(ctx, "/history", s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		History []historyItem `json:"history"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}

	records := make([]models.VideoRecord, len(result.History))
	for i, item := range result.History {
		records[i] = item.record()
	}
	return records, nil
}

// VideoDetail fetches one video via GET /video/{videoID}.
func (s *SEOService) VideoDetail(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	resp, err := s.api.Get(ctx, "/video/"+videoID, s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var item historyItem
	if err := resp.Decode(&item); err != nil {
		return nil, err
	}
	record := item.record()
	return &record, nil
}

// Notifications fetches user notifications via GET /user/notifications.
func (s *SEOService) Notifications(ctx context.Context, limit, skip int) ([]models.Notification, error) {
	path := fmt.Sprintf("/user/notifications?limit=%d&skip=%d", limit, skip)
	resp, err := s.api.Get(ctx, path, s.timeouts.Default)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, errorFromResponse(resp)
	}

	var result struct {
		Notifications []models.Notification `json:"notifications"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

// normalizeKeywords flattens the backend's keyword shapes into the
// canonical []string form.
//
// Canonical: ["a", "b"]. Legacy shims handled here and nowhere else:
// [{"keyword": "a"}, ...] and the nested [["a", "b"]] form the history
// endpoint emits.
func normalizeKeywords(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain
	}

	var objects []struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		keywords := make([]string, 0, len(objects))
		for _, obj := range objects {
			if obj.Keyword != "" {
				keywords = append(keywords, obj.Keyword)
			}
		}
		return keywords
	}

	var nested [][]string
	if err := json.Unmarshal(raw, &nested); err == nil {
		var keywords []string
		for _, inner := range nested {
			keywords = append(keywords, inner...)
		}
		return keywords
	}

	return nil
}
