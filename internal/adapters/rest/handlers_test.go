package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/adapters/rest"
	"github.com/cosminpetcu/carstat/internal/core/domain"
)

type fakeRunUseCase struct {
	runID uuid.UUID
	err   error
}

func (f *fakeRunUseCase) Execute(ctx context.Context) (uuid.UUID, error) {
	return f.runID, f.err
}

type fakeStatsUseCase struct {
	stats *domain.StoreStats
	err   error
}

func (f *fakeStatsUseCase) Execute(ctx context.Context) (*domain.StoreStats, error) {
	return f.stats, f.err
}

func TestHandleRunCrawl_Accepted(t *testing.T) {
	t.Parallel()

	runID := uuid.New()
	handlers := rest.NewMarketHandlers(&fakeRunUseCase{runID: runID}, &fakeRunUseCase{}, &fakeStatsUseCase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl/run", nil)
	handlers.HandleRunCrawl(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, runID.String(), body["run_id"])
}

func TestHandleRunCrawl_ConflictWhenAlreadyRunning(t *testing.T) {
	t.Parallel()

	uc := &fakeRunUseCase{err: errors.New("crawl run already in progress")}
	handlers := rest.NewMarketHandlers(uc, &fakeRunUseCase{}, &fakeStatsUseCase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl/run", nil)
	handlers.HandleRunCrawl(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "already in progress")
}

func TestHandleRunAnalytics_Accepted(t *testing.T) {
	t.Parallel()

	runID := uuid.New()
	handlers := rest.NewMarketHandlers(&fakeRunUseCase{}, &fakeRunUseCase{runID: runID}, &fakeStatsUseCase{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analytics/run", nil)
	handlers.HandleRunAnalytics(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHandleGetStats(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()

		stats := &domain.StoreStats{Total: 10, Active: 7, Sold: 3}
		handlers := rest.NewMarketHandlers(&fakeRunUseCase{}, &fakeRunUseCase{}, &fakeStatsUseCase{stats: stats})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		handlers.HandleGetStats(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var got domain.StoreStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, *stats, got)
	})

	t.Run("storage failure", func(t *testing.T) {
		t.Parallel()

		handlers := rest.NewMarketHandlers(&fakeRunUseCase{}, &fakeRunUseCase{}, &fakeStatsUseCase{err: errors.New("db down")})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		handlers.HandleGetStats(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
