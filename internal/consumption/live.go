package consumption

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

// LiveClient talks to the remote consumption endpoints with the stored
// bearer token. Every successful write is mirrored into the local store so
// history survives offline.
type LiveClient struct {
	creds   *credentials.Store
	store   storage.Provider
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewLiveClient(creds *credentials.Store, store storage.Provider, baseURL string, client *http.Client) *LiveClient {
	return &LiveClient{
		creds:   creds,
		store:   store,
		baseURL: baseURL,
		client:  client,
		now:     time.Now,
	}
}

type logRequest struct {
	SubstanceType string  `json:"substance_type"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Cost          float64 `json:"cost"`
	Timestamp     string  `json:"timestamp"`
}

type consumptionEntry struct {
	SubstanceType string `json:"substance_type"`
}

func (c *LiveClient) LogConsumption(ctx context.Context, substance string, quantity float64, unit string, cost float64) error {
	ts := c.now()
	body, err := json.Marshal(logRequest{
		SubstanceType: substance,
		Quantity:      quantity,
		Unit:          unit,
		Cost:          cost,
		Timestamp:     ts.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return ErrLogFailed
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/consumption", bytes.NewReader(body))
	if err != nil {
		return ErrLogFailed
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("Consumption write failed", "error", err)
		return ErrLogFailed
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		logger.Warn("Consumption write rejected", "status", resp.StatusCode)
		return ErrLogFailed
	}

	c.mirror(substance, quantity, unit, cost, ts, false)
	return nil
}

func (c *LiveClient) TodayCount(ctx context.Context, substance string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/consumption/today", nil)
	if err != nil {
		return 0, nil
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("Today count fetch failed", "error", err)
		return 0, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Today count fetch rejected", "status", resp.StatusCode)
		return 0, nil
	}

	var entries []consumptionEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		logger.Warn("Today count response undecodable", "error", err)
		return 0, nil
	}

	count := 0
	for _, e := range entries {
		if e.SubstanceType == substance {
			count++
		}
	}
	return count, nil
}

func (c *LiveClient) WeeklyStats(ctx context.Context, substance string) (models.WeeklyStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/consumption/weekly", nil)
	if err != nil {
		return models.WeeklyStats{}, nil
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warn("Weekly stats fetch failed", "error", err)
		return models.WeeklyStats{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("Weekly stats fetch rejected", "status", resp.StatusCode)
		return models.WeeklyStats{}, nil
	}

	var series []models.DayCount
	if err := json.NewDecoder(resp.Body).Decode(&series); err != nil {
		logger.Warn("Weekly stats response undecodable", "error", err)
		return models.WeeklyStats{}, nil
	}

	return Partition(series), nil
}

func (c *LiveClient) authorize(req *http.Request) {
	if token := c.creds.Get().AuthToken; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *LiveClient) mirror(substance string, quantity float64, unit string, cost float64, ts time.Time, debug bool) {
	err := c.store.AddEvent(models.ConsumptionEvent{
		ID:            uuid.New().String(),
		Timestamp:     ts,
		SubstanceType: substance,
		Quantity:      quantity,
		Unit:          unit,
		Cost:          cost,
		IsDebugData:   debug,
	})
	if err != nil {
		logger.Warn("Failed to mirror event locally", "error", err)
	}
}
