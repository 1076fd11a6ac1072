package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

func TestRunAnalytics_FullCycle(t *testing.T) {
	t.Parallel()

	// Заглушечная цена с прежней оценкой: проход 0 должен пометить ее,
	// а проход 2, уже видя пометку, обнулить оценку.
	stale := 7000.0
	staleRating := domain.RatingB
	placeholder := corollaListing(50, 123)
	placeholder.EstimatedPrice = &stale
	placeholder.DealRating = &staleRating

	var listings []domain.CarListing
	for i, price := range []float64{9000, 9500, 10000, 10200, 10500, 11000} {
		listings = append(listings, corollaListing(i, price))
	}
	target := corollaListing(100, 6000)
	listings = append(listings, target, placeholder)

	storage := newFakeStorage(listings...)
	reports := newFakeReportQueue()

	uc := NewRunAnalyticsUseCase(storage, reports)
	runID := uuid.New()
	uc.runInBackground(context.Background(), runID)

	// Заглушка: подозрительна, без оценки, без балла качества.
	got := storage.byURL(placeholder.SourceURL)
	require.NotNil(t, got)
	assert.True(t, got.SuspiciousPrice)
	assert.Nil(t, got.EstimatedPrice)
	assert.Nil(t, got.DealRating)
	assert.Nil(t, got.QualityScore)

	// Выгодное объявление: оценка по медиане когорты и рейтинг S.
	got = storage.byURL(target.SourceURL)
	require.NotNil(t, got)
	assert.False(t, got.SuspiciousPrice)
	require.NotNil(t, got.EstimatedPrice)
	assert.Equal(t, 10100.0, *got.EstimatedPrice)
	require.NotNil(t, got.DealRating)
	assert.Equal(t, domain.RatingS, *got.DealRating)
	require.NotNil(t, got.QualityScore)

	// Ни одно объявление не может быть одновременно подозрительным
	// и нести рейтинг или балл качества.
	for _, l := range listings {
		final := storage.byURL(l.SourceURL)
		require.NotNil(t, final)
		if final.SuspiciousPrice {
			assert.Nil(t, final.DealRating, "%s", final.SourceURL)
			assert.Nil(t, final.QualityScore, "%s", final.SourceURL)
		} else {
			assert.NotNil(t, final.QualityScore, "%s", final.SourceURL)
		}
	}

	require.Len(t, reports.analyticsReports, 1)
	report := reports.analyticsReports[0]
	assert.Equal(t, runID.String(), report.RunID)
	assert.Equal(t, len(listings), report.ListingsTotal)
	assert.Len(t, report.MutationsByPass, 6)
	assert.Empty(t, report.ErrorsByPass)
	assert.Equal(t, 1, report.MutationsByPass["placeholder"])
	assert.Zero(t, report.MutationsByPass["generations"])
}

func TestRunAnalytics_SnapshotFailureAbortsRun(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage(corollaListing(1, 9000))
	storage.snapshotErr = errors.New("db gone")
	reports := newFakeReportQueue()

	uc := NewRunAnalyticsUseCase(storage, reports)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.analyticsReports, 1)
	report := reports.analyticsReports[0]
	assert.Equal(t, 1, report.ErrorsByPass["generations"])
	assert.Empty(t, report.MutationsByPass)
}

func TestRunAnalytics_CommitFailureDoesNotStopLaterPasses(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage(corollaListing(1, 123))
	storage.applyAnalyticsErr = errors.New("commit refused")
	reports := newFakeReportQueue()

	uc := NewRunAnalyticsUseCase(storage, reports)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.analyticsReports, 1)
	report := reports.analyticsReports[0]
	// Проход 0 нашел заглушку, но не смог записать; остальные проходы
	// все равно отработали по свежим снимкам.
	assert.Equal(t, 1, report.MutationsByPass["placeholder"])
	assert.NotZero(t, report.ErrorsByPass["placeholder"])
	assert.Contains(t, report.MutationsByPass, "quality")
}

func TestRunAnalytics_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	uc := NewRunAnalyticsUseCase(newFakeStorage(), newFakeReportQueue())
	uc.mu.Lock()
	uc.running = true
	uc.mu.Unlock()

	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestRunAnalytics_ExecuteReturnsImmediately(t *testing.T) {
	t.Parallel()

	storage := newFakeStorage(corollaListing(1, 9000))
	reports := newFakeReportQueue()
	uc := NewRunAnalyticsUseCase(storage, reports)

	runID, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, runID)

	select {
	case <-reports.done:
	case <-time.After(5 * time.Second):
		t.Fatal("background analytics run did not publish a report in time")
	}

	require.Len(t, reports.analyticsReports, 1)
	assert.Equal(t, runID.String(), reports.analyticsReports[0].RunID)
}
