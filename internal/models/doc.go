// Package models defines domain entities and persistence interfaces for the vseo client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs decoded from backend responses
//   - [VideoRecord] : an uploaded video and its processing status
//   - [KeywordSet] : generated keywords for one video
//   - [RankingEntry] : search ranking metrics for one keyword
//   - [User] : the authenticated identity
//   - [Notification] : a backend-issued user notification
//
// 2. Persistent Entities: rows in the local sqlite result cache
//   - [CachedVideo] : mirrored video record
//   - [CachedKeywordSet] : mirrored keyword set
//   - [CachedRanking] : mirrored ranking entry
//
// All persistent entities implement the Model interface providing ID generation,
// timestamps, validation, and soft delete support. The Repository[T] interface
// defines standard CRUD operations for cache access.
package models
