package consumption_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pichane/iquit-cli/internal/constants"
	"github.com/pichane/iquit-cli/internal/consumption"
	"github.com/pichane/iquit-cli/internal/credentials"
	"github.com/pichane/iquit-cli/internal/models"
	"github.com/pichane/iquit-cli/internal/storage"
)

func newCreds(t *testing.T, c models.Credentials) (*credentials.Store, storage.Provider) {
	t.Helper()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	creds := credentials.NewPlainStore(store)
	require.NoError(t, creds.Set(c))
	return creds, store
}

func TestNew_ModeSelection(t *testing.T) {
	t.Run("debug flag picks the mock client", func(t *testing.T) {
		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, IsDebugMode: true, UserEmail: "whoever@example.com"})
		_, ok := consumption.New(creds, store, "http://localhost:5002", nil).(*consumption.MockClient)
		assert.True(t, ok)
	})

	t.Run("debug email picks the mock client even without the flag", func(t *testing.T) {
		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: constants.DebugEmail})
		_, ok := consumption.New(creds, store, "http://localhost:5002", nil).(*consumption.MockClient)
		assert.True(t, ok)
	})

	t.Run("live session picks the live client", func(t *testing.T) {
		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "alice@example.com", AuthToken: "jwt"})
		_, ok := consumption.New(creds, store, "http://localhost:5002", nil).(*consumption.LiveClient)
		assert.True(t, ok)
	})
}

func TestMockClient_Ranges(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	client := consumption.NewMockClient(store)
	client.SetDelay(0)

	for i := 0; i < 50; i++ {
		count, err := client.TodayCount(ctx, "coffee")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, count, constants.MockTodayMin)
		assert.LessOrEqual(t, count, constants.MockTodayMax)

		stats, err := client.WeeklyStats(ctx, "coffee")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.Current, constants.MockWeeklyAvgMin)
		assert.LessOrEqual(t, stats.Current, constants.MockWeeklyAvgMax)
		assert.GreaterOrEqual(t, stats.Previous, constants.MockWeeklyAvgMin)
		assert.LessOrEqual(t, stats.Previous, constants.MockWeeklyAvgMax)
	}
}

func TestMockClient_LogRecordsDebugEvent(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Init())
	client := consumption.NewMockClient(store)
	client.SetDelay(0)

	require.NoError(t, client.LogConsumption(context.Background(), "coffee", 1, "cup", 3.50))

	events, err := store.GetAllEvents()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].IsDebugData)
	assert.Equal(t, "coffee", events[0].SubstanceType)
}

func TestLiveClient_LogConsumption(t *testing.T) {
	ctx := context.Background()

	t.Run("201 succeeds and mirrors locally", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/consumption", r.URL.Path)
			assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "cigarettes", body["substance_type"])
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co", AuthToken: "jwt"})
		client := consumption.NewLiveClient(creds, store, srv.URL, srv.Client())

		require.NoError(t, client.LogConsumption(ctx, "cigarettes", 1, "piece", 0.5))

		events, err := store.GetAllEvents()
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.False(t, events[0].IsDebugData)
	})

	t.Run("non-201 surfaces the write failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co"})
		client := consumption.NewLiveClient(creds, store, srv.URL, srv.Client())

		err := client.LogConsumption(ctx, "coffee", 1, "cup", 3.50)
		assert.ErrorIs(t, err, consumption.ErrLogFailed)

		events, _ := store.GetAllEvents()
		assert.Empty(t, events, "failed writes must not be mirrored")
	})
}

func TestLiveClient_ReadsFailSoft(t *testing.T) {
	ctx := context.Background()

	t.Run("server error yields zero values with nil error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co"})
		client := consumption.NewLiveClient(creds, store, srv.URL, srv.Client())

		count, err := client.TodayCount(ctx, "coffee")
		assert.NoError(t, err)
		assert.Zero(t, count)

		stats, err := client.WeeklyStats(ctx, "coffee")
		assert.NoError(t, err)
		assert.Zero(t, stats)
	})

	t.Run("unreachable server yields zero values with nil error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co"})
		client := consumption.NewLiveClient(creds, store, srv.URL, &http.Client{})

		count, err := client.TodayCount(ctx, "coffee")
		assert.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("today count filters by substance", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]map[string]any{
				{"substance_type": "coffee"},
				{"substance_type": "alcohol"},
				{"substance_type": "coffee"},
			})
		}))
		defer srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co"})
		client := consumption.NewLiveClient(creds, store, srv.URL, srv.Client())

		count, err := client.TodayCount(ctx, "coffee")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("weekly series is partitioned into two windows", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var series []models.DayCount
			for i := 0; i < 7; i++ {
				series = append(series, models.DayCount{Date: "2026-08-01", Count: 4})
			}
			for i := 0; i < 7; i++ {
				series = append(series, models.DayCount{Date: "2026-08-08", Count: 2})
			}
			json.NewEncoder(w).Encode(series)
		}))
		defer srv.Close()

		creds, store := newCreds(t, models.Credentials{IsLoggedIn: true, UserEmail: "a@b.co"})
		client := consumption.NewLiveClient(creds, store, srv.URL, srv.Client())

		stats, err := client.WeeklyStats(ctx, "coffee")
		require.NoError(t, err)
		assert.Equal(t, 2.0, stats.Current)
		assert.Equal(t, 4.0, stats.Previous)
	})
}
