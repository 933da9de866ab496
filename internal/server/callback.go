package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackResult contains the captured OAuth redirect parameters.
//
// Token is populated only when the handler was configured with an
// Exchange config; otherwise callers relay Code and State to the service
// that minted the authorization URL.
type CallbackResult struct {
	Code  string
	State string
	Token *oauth2.Token
	err   error
}

func (r *CallbackResult) Error() error {
	return r.err
}

// CallbackOptions configures a CallbackHandler.
type CallbackOptions struct {
	State    string         // When set, incoming state must match exactly
	Exchange *oauth2.Config // When set, exchange the code for a token locally
}

// CallbackHandler captures a single OAuth2 redirect on a local server.
// Implements the Handler interface for registration with a Router.
type CallbackHandler struct {
	opts        CallbackOptions
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler. When opts.State is set
// it is validated against the redirect for CSRF protection; when
// opts.Exchange is set the authorization code is exchanged locally.
func NewCallbackHandler(opts CallbackOptions) *CallbackHandler {
	return &CallbackHandler{
		opts:       opts,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// ServeHTTP handles the OAuth redirect request.
//
// Only the first hit is processed; repeated hits get a 400. The captured
// or exchanged result is delivered once through the result channel.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if h.opts.State != "" && state != h.opts.State {
		err := fmt.Errorf("invalid state parameter")
		h.Send(CallbackResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.Send(CallbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	result := CallbackResult{Code: code, State: state}
	if h.opts.Exchange != nil {
		token, err := h.opts.Exchange.Exchange(context.Background(), code)
		if err != nil {
			h.Send(CallbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
			http.Error(w, "Token exchange failed", http.StatusInternalServerError)
			return
		}
		result.Token = token
	}

	h.Send(result)

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>YouTube Connected</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #FF0000; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ YouTube Connected</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// Send delivers the callback result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel for receiving flow completion.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}
