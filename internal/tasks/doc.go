// Package tasks implements the client-side workflows of the SEO analysis product.
//
// The core abstraction is [ProcessEngine], which owns the upload action and
// the extract→generate→rank pipeline for one video at a time. Stages run
// strictly sequentially; a stage only starts after the previous stage's
// response has been observed and validated, and at most one pipeline is
// active per engine. Operations emit [ProgressUpdate] values via channels
// for non-blocking status reporting to CLI/TUI layers.
//
// [PublishEngine] drives the YouTube side: connection status, the OAuth
// handoff (hosted or direct), and the per-video publish action built from
// generated keywords. [RefreshEngine] mirrors backend history into the
// local cache with rate-limited bulk ranking refreshes.
package tasks
