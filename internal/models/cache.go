package models

import (
	"fmt"
	"time"
)

// record holds the lifecycle fields shared by all cached entities.
type record struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func newRecord(sequence int) record {
	now := time.Now()
	return record{sequence: sequence, createdAt: now, updatedAt: now}
}

func (r *record) ID() string { return r.id }
func (r *record) SetID(id string) { r.id = id }
func (r *record) Sequence() int { return r.sequence }
func (r *record) CreatedAt() time.Time { return r.createdAt }
func (r *record) UpdatedAt() time.Time { return r.updatedAt }
func (r *record) SetUpdatedAt(t time.Time) { r.updatedAt = t }
func (r *record) DeletedAt() *time.Time { return r.deletedAt }
func (r *record) SetDeletedAt(t *time.Time) { r.deletedAt = t }
func (r *record) SetCreatedAt(t time.Time) { r.createdAt = t }

// CachedVideo mirrors a backend VideoRecord in the local cache.
type CachedVideo struct {
	record
	remoteID          string
	title             string
	extractedText     string
	keywordsID        string
	youtubeUploaded   bool
	youtubeUploadDate *time.Time
}

// NewCachedVideo creates a cached video row for the given backend record.
func NewCachedVideo(sequence int, remoteID, title string) *CachedVideo {
	return &CachedVideo{record: newRecord(sequence), remoteID: remoteID, title: title}
}

func (v *CachedVideo) RemoteID() string { return v.remoteID }
func (v *CachedVideo) Title() string { return v.title }
func (v *CachedVideo) SetTitle(t string) { v.title = t }
func (v *CachedVideo) ExtractedText() string { return v.extractedText }
func (v *CachedVideo) SetExtractedText(t string) { v.extractedText = t }
func (v *CachedVideo) KeywordsID() string { return v.keywordsID }
func (v *CachedVideo) SetKeywordsID(id string) { v.keywordsID = id }
func (v *CachedVideo) YoutubeUploaded() bool { return v.youtubeUploaded }
func (v *CachedVideo) SetYoutubeUploaded(b bool) { v.youtubeUploaded = b }
func (v *CachedVideo) YoutubeUploadDate() *time.Time { return v.youtubeUploadDate }
func (v *CachedVideo) SetYoutubeUploadDate(t *time.Time) {
	v.youtubeUploadDate = t
}

// Validate checks required fields before persistence.
func (v *CachedVideo) Validate() error {
	if v.id == "" {
		return fmt.Errorf("cached video missing id")
	}
	if v.remoteID == "" {
		return fmt.Errorf("cached video missing remote id")
	}
	if v.title == "" {
		return fmt.Errorf("cached video missing title")
	}
	return nil
}

// Record converts the cached row back into the DTO consumed by viewers.
func (v *CachedVideo) Record() VideoRecord {
	return VideoRecord{
		ID:                v.remoteID,
		Title:             v.title,
		Processed:         v.keywordsID != "",
		ExtractedText:     v.extractedText,
		KeywordsID:        v.keywordsID,
		YoutubeUploaded:   v.youtubeUploaded,
		YoutubeUploadDate: v.youtubeUploadDate,
		CreatedAt:         v.createdAt.Format(time.RFC3339),
	}
}

// CachedKeywordSet mirrors a backend keyword set in the local cache.
type CachedKeywordSet struct {
	record
	remoteID      string
	videoRemoteID string
	keywords      []string
}

// NewCachedKeywordSet creates a cached keyword set row.
func NewCachedKeywordSet(sequence int, remoteID, videoRemoteID string, keywords []string) *CachedKeywordSet {
	return &CachedKeywordSet{
		record:        newRecord(sequence),
		remoteID:      remoteID,
		videoRemoteID: videoRemoteID,
		keywords:      keywords,
	}
}

func (k *CachedKeywordSet) RemoteID() string { return k.remoteID }
func (k *CachedKeywordSet) VideoRemoteID() string { return k.videoRemoteID }
func (k *CachedKeywordSet) Keywords() []string { return k.keywords }
func (k *CachedKeywordSet) SetKeywords(kw []string) { k.keywords = kw }

// Validate checks required fields before persistence.
func (k *CachedKeywordSet) Validate() error {
	if k.id == "" {
		return fmt.Errorf("cached keyword set missing id")
	}
	if k.remoteID == "" {
		return fmt.Errorf("cached keyword set missing remote id")
	}
	if k.videoRemoteID == "" {
		return fmt.Errorf("cached keyword set missing video id")
	}
	return nil
}

// CachedRanking mirrors one ranking entry in the local cache.
type CachedRanking struct {
	record
	keywordSetRemoteID string
	keyword            string
	rank               float64
	searchVolume       *int
	competition        *float64
}

// NewCachedRanking creates a cached ranking row from a RankingEntry.
func NewCachedRanking(sequence int, keywordSetRemoteID string, entry RankingEntry) *CachedRanking {
	return &CachedRanking{
		record:             newRecord(sequence),
		keywordSetRemoteID: keywordSetRemoteID,
		keyword:            entry.Keyword,
		rank:               entry.Rank,
		searchVolume:       entry.SearchVolume,
		competition:        entry.Competition,
	}
}

func (r *CachedRanking) KeywordSetRemoteID() string { return r.keywordSetRemoteID }
func (r *CachedRanking) Keyword() string { return r.keyword }
func (r *CachedRanking) Rank() float64 { return r.rank }
func (r *CachedRanking) SearchVolume() *int { return r.searchVolume }
func (r *CachedRanking) Competition() *float64 { return r.competition }

// Validate checks required fields before persistence.
func (r *CachedRanking) Validate() error {
	if r.id == "" {
		return fmt.Errorf("cached ranking missing id")
	}
	if r.keywordSetRemoteID == "" {
		return fmt.Errorf("cached ranking missing keyword set id")
	}
	if r.keyword == "" {
		return fmt.Errorf("cached ranking missing keyword")
	}
	return nil
}

// Entry converts the cached row back into the DTO consumed by viewers.
func (r *CachedRanking) Entry() RankingEntry {
	return RankingEntry{
		Keyword:      r.keyword,
		Rank:         r.rank,
		SearchVolume: r.searchVolume,
		Competition:  r.competition,
	}
}
