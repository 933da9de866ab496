// Package repositories implements SQLite persistence for the local analysis cache.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [VideoRepository] : Cached video records keyed by backend id
//   - [KeywordSetRepository] : Generated keyword sets with per-video lookups
//   - [RankingRepository] : Ranking entries grouped by keyword set
//   - [CacheStore] : Facade over the three repositories used by sync and the results viewer
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments named counters in a shared sequences table.
package repositories
