package tasks

import "fmt"

// Stage is the tagged state of the upload-and-process workflow.
//
// Transitions only move forward along Uploading or
// Extracting→Generating→Ranking and reset to Idle on completion or any
// failure; there are no other edges.
type Stage int

const (
	StageIdle Stage = iota
	StageUploading
	StageExtracting
	StageGenerating
	StageRanking
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageUploading:
		return "uploading"
	case StageExtracting:
		return "extracting"
	case StageGenerating:
		return "generating"
	case StageRanking:
		return "ranking"
	default:
		return ""
	}
}

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or TUI layer for display.
type ProgressUpdate struct {
	Stage   Stage  // Workflow stage this event belongs to
	Step    int    // Current step number within the run
	Total   int    // Total steps in this run
	Message string // Human-readable message for display
	Data    any    // Optional stage-specific data for advanced UIs
	Failed  bool   // Whether this event reports a failure
}

func uploadingUpdate(title string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageUploading,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Uploading %s...", title),
	}
}

func uploadedUpdate(videoID string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageUploading,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Upload complete (ID: %s)", videoID),
	}
}

func extractingUpdate(videoID string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageExtracting,
		Step:    1,
		Total:   3,
		Message: fmt.Sprintf("[1/3] Extracting text from video %s...", videoID),
	}
}

func generatingUpdate(videoID string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageGenerating,
		Step:    2,
		Total:   3,
		Message: fmt.Sprintf("[2/3] Generating keywords for video %s...", videoID),
	}
}

func rankingUpdate(keywordID string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageRanking,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("[3/3] Fetching rankings for keyword set %s...", keywordID),
	}
}

func completedUpdate(result *ProcessResult) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageIdle,
		Step:    3,
		Total:   3,
		Message: fmt.Sprintf("✓ Processed: %d keywords, %d rankings", len(result.Keywords), len(result.Rankings)),
		Data:    result,
	}
}

func failedUpdate(stage Stage, step int, err error) ProgressUpdate {
	return ProgressUpdate{
		Stage:   stage,
		Step:    step,
		Total:   3,
		Message: fmt.Sprintf("✗ %s failed: %v", stage, err),
		Failed:  true,
	}
}

func refreshUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageRanking,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Refreshing rankings: %s", step, total, title),
	}
}

func syncUpdate(step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Stage:   StageIdle,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Caching %s", step, total, title),
	}
}
