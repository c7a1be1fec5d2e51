package handlers

import (
	"net/http"
	"time"

	"github.com/spainrp/awards/internal/auth"
	"github.com/spainrp/awards/internal/envelope"
	"github.com/spainrp/awards/internal/logger"
	"github.com/spainrp/awards/internal/services"
)

// Version is reported at GET /
var Version = "1.0.0"

// Options holds the dashboard API settings
type Options struct {
	EventName          string
	FrontendURL        string
	ClientKey          string
	EditableCategories []string
	RateLimit          int
	RateWindow         time.Duration
	MaxBodyBytes       int64
}

func (o Options) withDefaults() Options {
	if o.RateLimit <= 0 {
		o.RateLimit = 100
	}
	if o.RateWindow <= 0 {
		o.RateWindow = 10 * time.Minute
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 10 << 10
	}
	return o
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Config   services.ConfigServicer
	Votes    services.VoteServicer
	Results  services.ResultsServicer
	Health   services.HealthServicer
	Auth     *auth.Auth
	OAuth    auth.Authenticator
	Envelope *envelope.Sealer
	Log      logger.Logger
	opts     Options
	editable map[string]bool
}

// New creates a new Handlers instance with all dependencies
func New(
	config services.ConfigServicer,
	votes services.VoteServicer,
	results services.ResultsServicer,
	health services.HealthServicer,
	tokens *auth.Auth,
	oauth auth.Authenticator,
	sealer *envelope.Sealer,
	log logger.Logger,
	opts Options,
) *Handlers {
	opts = opts.withDefaults()
	editable := make(map[string]bool, len(opts.EditableCategories))
	for _, id := range opts.EditableCategories {
		editable[id] = true
	}
	return &Handlers{
		Config:   config,
		Votes:    votes,
		Results:  results,
		Health:   health,
		Auth:     tokens,
		OAuth:    oauth,
		Envelope: sealer,
		Log:      log,
		opts:     opts,
		editable: editable,
	}
}

// fail logs server-side errors before writing the response
func (h *Handlers) fail(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = ToAPIError(err)
	}
	if apiErr.Status >= http.StatusInternalServerError {
		h.Log.Error("Request failed", "error", err)
	}
	respondJSON(w, apiErr.Status, apiErr)
}
