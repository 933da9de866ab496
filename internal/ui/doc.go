// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow around the analysis pipeline:
//  1. [HistoryListView] : Browse previously uploaded videos
//  2. [DetailView] : Inspect a video's keywords and rankings
//  3. [ConfirmView] : Confirm running the pipeline on an unprocessed video
//  4. [ProcessView] : Monitor real-time stage progress
//  5. [ResultView] : Display generated keywords when the run finishes
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ProcessEngine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
