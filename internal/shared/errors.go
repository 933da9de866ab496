package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidFormat      = fmt.Errorf("invalid login format")
	ErrNotAuthenticated   = fmt.Errorf("not authenticated")
	ErrTokenExpired       = fmt.Errorf("access token expired")
	ErrAuthFailed         = fmt.Errorf("authentication failed")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrNoResponse         = fmt.Errorf("no response from server")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrVideoNotFound      = fmt.Errorf("video not found")
	ErrKeywordsNotFound   = fmt.Errorf("keywords not found")

	// Pipeline errors
	ErrPipelineBusy     = fmt.Errorf("another video is already being processed")
	ErrStageContract    = fmt.Errorf("stage response missing required field")
	ErrAlreadyPublished = fmt.Errorf("video already uploaded to YouTube")
	ErrNotProcessed     = fmt.Errorf("video has no generated keywords")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
