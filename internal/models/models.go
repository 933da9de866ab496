// package models defines the data model for the vseo client
package models

import (
	"time"
)

// Model defines the base interface for all entities persisted in the local cache.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for cache data access operations.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// User represents the authenticated identity held by the running client.
//
// Fields come from the login response and locally decoded token claims;
// they are for display only and carry no authorization weight.
type User struct {
	ID       string
	Username string
	Email    string
}

// VideoRecord represents the backend-owned state of an uploaded video.
//
// Identity is the backend-assigned id; the client never mutates a record
// locally except to overlay ephemeral processing state.
type VideoRecord struct {
	ID                string     `json:"_id"`
	Title             string     `json:"title"`
	Filename          string     `json:"filename"`
	Processed         bool       `json:"processed"`
	ExtractedText     string     `json:"extracted_text"`
	KeywordsID        string     `json:"keywords_id"`
	YoutubeUploaded   bool       `json:"youtube_uploaded"`
	YoutubeUploadDate *time.Time `json:"youtube_upload_date,omitempty"`
	CreatedAt         string     `json:"created_at"`
	Keywords          []string   `json:"-"`
	Rankings          []RankingEntry
}

// Processable reports whether the extract→generate→rank pipeline can be
// triggered for this record: it must exist (have been uploaded) and not
// currently be the subject of another action.
func (v VideoRecord) Processable() bool {
	return v.ID != ""
}

// Publishable reports whether the record can be offered for YouTube upload:
// keywords must have been generated and the video must not already be uploaded.
func (v VideoRecord) Publishable() bool {
	return v.KeywordsID != "" && !v.YoutubeUploaded
}

// KeywordSet is the ordered keyword list generated for one video.
//
// The canonical element shape is a plain string; the services layer
// normalizes the backend's legacy object form before a KeywordSet is built.
type KeywordSet struct {
	ID       string
	VideoID  string
	Keywords []string
}

// RankingEntry holds search ranking metrics for a single keyword.
type RankingEntry struct {
	Keyword      string   `json:"keyword"`
	Rank         float64  `json:"rank"`
	SearchVolume *int     `json:"search_volume"`
	Competition  *float64 `json:"competition"`
}

// Notification is a backend-issued message for the current user.
type Notification struct {
	ID        string `json:"_id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}
