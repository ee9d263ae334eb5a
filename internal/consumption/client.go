// Package consumption records habit occurrences and serves the derived
// aggregates the UI renders. A session is either live (remote endpoint) or
// mock (synthetic data); the choice is made once at construction so the
// mode branching does not leak into callers.
package consumption

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

// ErrLogFailed is returned when a consumption write cannot reach the
// server. Reads never return errors; they fail soft to zero values.
var ErrLogFailed = errors.New("failed to log consumption")

// Client is the consumption log capability. Implementations: live (HTTP)
// and mock (synthetic data, no I/O).
type Client interface {
	// LogConsumption records one occurrence. The only operation whose
	// failure is surfaced to the caller.
	LogConsumption(ctx context.Context, substance string, quantity float64, unit string, cost float64) error
	// TodayCount returns today's occurrence count for the substance.
	// Fail-soft: any remote failure yields 0 and a nil error.
	TodayCount(ctx context.Context, substance string) (int, error)
	// WeeklyStats returns the trailing and preceding 7-day window
	// averages. Fail-soft like TodayCount.
	WeeklyStats(ctx context.Context, substance string) (models.WeeklyStats, error)
}

// New selects the client for the current session: mock when the debug flag
// is set or the stored email is the reserved debug account, live otherwise.
func New(creds *credentials.Store, store storage.Provider, baseURL string, httpClient *http.Client) Client {
	c := creds.Get()
	if c.IsDebugMode || c.UserEmail == constants.DebugEmail {
		return NewMockClient(store)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return NewLiveClient(creds, store, baseURL, httpClient)
}
