package consumption

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/logger"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

// MockClient serves synthetic data for debug sessions. It performs no
// network I/O, so it can never produce a transport error.
type MockClient struct {
	store storage.Provider
	delay time.Duration
}

func NewMockClient(store storage.Provider) *MockClient {
	return &MockClient{
		store: store,
		delay: constants.DebugLogDelay,
	}
}

func (c *MockClient) LogConsumption(ctx context.Context, substance string, quantity float64, unit string, cost float64) error {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	err := c.store.AddEvent(models.ConsumptionEvent{
		ID:            uuid.New().String(),
		Timestamp:     time.Now(),
		SubstanceType: substance,
		Quantity:      quantity,
		Unit:          unit,
		Cost:          cost,
		IsDebugData:   true,
	})
	if err != nil {
		logger.Warn("Failed to record debug event locally", "error", err)
	}

	logger.Debug("Debug mode: logged consumption", "substance", substance, "quantity", quantity, "unit", unit)
	return nil
}

func (c *MockClient) TodayCount(ctx context.Context, substance string) (int, error) {
	return constants.MockTodayMin + rand.IntN(constants.MockTodayMax-constants.MockTodayMin+1), nil
}

func (c *MockClient) WeeklyStats(ctx context.Context, substance string) (models.WeeklyStats, error) {
	return models.WeeklyStats{
		Current:  mockAverage(),
		Previous: mockAverage(),
	}, nil
}

// SetDelay overrides the simulated write latency. Tests set this to zero.
func (c *MockClient) SetDelay(d time.Duration) {
	c.delay = d
}

func mockAverage() float64 {
	return constants.MockWeeklyAvgMin + rand.Float64()*(constants.MockWeeklyAvgMax-constants.MockWeeklyAvgMin)
}
