// Package services contains HTTP clients for the video SEO analysis backend.
//
// Three layers of client live here:
//
//   - [APIService] : raw request facade. Attaches the current bearer token,
//     applies per-call timeouts, and returns undecoded [APIResponse] values.
//     It never retries and never classifies errors; callers own both.
//   - [SEOService] : typed wrappers for the analysis endpoints (upload,
//     extract, generate, rankings, history, video detail, notifications)
//     plus the auth endpoints consumed by the session manager.
//   - [YouTubeService] : typed wrappers for the YouTube integration
//     endpoints (auth URL, callback exchange, status, upload, direct
//     token connect).
//
// Keyword responses are normalized here: the backend historically returns
// either plain strings or {"keyword": ...} objects, and every consumer of
// this package sees only the canonical []string form.
package services
