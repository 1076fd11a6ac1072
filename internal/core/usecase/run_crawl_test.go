package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosminpetcu/carstat/internal/core/domain"
)

func crawlListing(i int) domain.CarListing {
	return domain.CarListing{
		SourceURL: fmt.Sprintf("https://www.olx.ro/d/oferta/auto-ID%03d.html", i),
		Title:     "Auto",
		Brand:     "Dacia",
		Model:     "Logan",
		Price:     10000,
	}
}

func crawlFixture(n int) ([]domain.CarListing, *fakeListingStorage) {
	listings := make([]domain.CarListing, 0, n)
	for i := 1; i <= n; i++ {
		listings = append(listings, crawlListing(i))
	}
	return listings, newFakeStorage(listings...)
}

func newCrawlUC(storage *fakeListingStorage, checkpoints *fakeCheckpointStore,
	session *fakeSession, reports *fakeReportQueue, workers int) *RunCrawlUseCase {
	return NewRunCrawlUseCase(storage, checkpoints, &fakeSessionFactory{session: session},
		NewReconcileListingUseCase(storage), reports, workers)
}

func TestRunCrawl_CompletedRunClearsCheckpoints(t *testing.T) {
	t.Parallel()

	_, storage := crawlFixture(10)
	checkpoints := newFakeCheckpointStore()
	session := &fakeSession{results: map[string]domain.SourceResult{}}
	reports := newFakeReportQueue()

	uc := newCrawlUC(storage, checkpoints, session, reports, 3)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.crawlReports, 1)
	report := reports.crawlReports[0]
	assert.Equal(t, 3, report.Shards)
	assert.Equal(t, 10, report.Processed)
	assert.True(t, report.FullyCompleted)
	assert.Empty(t, report.GlobalFrontier)
	assert.Zero(t, report.BlockedShards)

	// Спокойное завершение - отметки сброшены.
	assert.True(t, checkpoints.shardsCleared)
	assert.True(t, checkpoints.frontierCleared)
	assert.Len(t, session.fetchedURLs(), 10)
}

func TestRunCrawl_BlockedShardHaltsAndResumes(t *testing.T) {
	t.Parallel()

	listings, storage := crawlFixture(20)
	checkpoints := newFakeCheckpointStore()
	blockedURL := listings[11].SourceURL // 12-е объявление
	session := &fakeSession{results: map[string]domain.SourceResult{
		blockedURL: {Status: domain.StatusBlocked},
	}}
	reports := newFakeReportQueue()

	// Один воркер: весь снимок - один шард.
	uc := newCrawlUC(storage, checkpoints, session, reports, 1)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.crawlReports, 1)
	report := reports.crawlReports[0]
	assert.Equal(t, 11, report.Processed)
	assert.Equal(t, 1, report.BlockedShards)
	assert.False(t, report.FullyCompleted)
	assert.Empty(t, report.ResumedFrontier)
	// Глобальный фронтир - последнее успешно обработанное объявление.
	assert.Equal(t, listings[10].SourceURL, report.GlobalFrontier)

	cp, err := checkpoints.LoadShard(0)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Equal(t, listings[10].SourceURL, cp.Done)
	assert.False(t, checkpoints.shardsCleared)

	// Источник разблокировался: повторный прогон продолжает строго
	// после отметки, не трогая уже пройденные URL.
	delete(session.results, blockedURL)
	session.fetched = nil
	uc.runInBackground(context.Background(), uuid.New())

	fetched := session.fetchedURLs()
	require.Len(t, fetched, 9)
	assert.Equal(t, blockedURL, fetched[0])

	require.Len(t, reports.crawlReports, 2)
	second := reports.crawlReports[1]
	assert.Equal(t, 9, second.Processed)
	assert.True(t, second.FullyCompleted)
	// Повторный прогон видит фронтир, оставшийся от прерванного.
	assert.Equal(t, listings[10].SourceURL, second.ResumedFrontier)
	assert.True(t, checkpoints.shardsCleared)
}

func TestRunCrawl_BoundsMismatchDiscardsCheckpoint(t *testing.T) {
	t.Parallel()

	listings, storage := crawlFixture(6)
	checkpoints := newFakeCheckpointStore()
	// Отметка от прогона с другой нарезкой: границы не совпадают.
	require.NoError(t, checkpoints.SaveShard(0, domain.ShardCheckpoint{
		FirstURL: "https://www.olx.ro/d/oferta/auto-ID900.html",
		LastURL:  "https://www.olx.ro/d/oferta/auto-ID999.html",
		Done:     listings[3].SourceURL,
	}))
	session := &fakeSession{results: map[string]domain.SourceResult{}}
	reports := newFakeReportQueue()

	uc := newCrawlUC(storage, checkpoints, session, reports, 1)
	uc.runInBackground(context.Background(), uuid.New())

	// Чужая отметка отброшена - шард обработан целиком.
	assert.Len(t, session.fetchedURLs(), 6)
	require.Len(t, reports.crawlReports, 1)
	assert.Equal(t, 6, reports.crawlReports[0].Processed)
}

func TestRunCrawl_TransientErrorAdvancesCheckpoint(t *testing.T) {
	t.Parallel()

	listings, storage := crawlFixture(5)
	checkpoints := newFakeCheckpointStore()
	session := &fakeSession{results: map[string]domain.SourceResult{
		listings[2].SourceURL: {Status: domain.StatusTransientError},
	}}
	reports := newFakeReportQueue()

	uc := newCrawlUC(storage, checkpoints, session, reports, 1)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.crawlReports, 1)
	report := reports.crawlReports[0]
	// Временная ошибка не останавливает шард и не повторяется
	// внутри прогона.
	assert.Equal(t, 5, report.Processed)
	assert.Equal(t, 1, report.TransientErrs)
	assert.True(t, report.FullyCompleted)
}

func TestRunCrawl_SoldAndPriceChangesCounted(t *testing.T) {
	t.Parallel()

	listings, storage := crawlFixture(4)
	newPrice := 9000.0
	session := &fakeSession{results: map[string]domain.SourceResult{
		listings[0].SourceURL: {Status: domain.StatusGone},
		listings[1].SourceURL: {
			Status: domain.StatusOK,
			Fields: &domain.FieldSet{Price: &newPrice},
		},
	}}
	reports := newFakeReportQueue()

	uc := newCrawlUC(storage, newFakeCheckpointStore(), session, reports, 1)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.crawlReports, 1)
	report := reports.crawlReports[0]
	assert.Equal(t, 1, report.SoldDetected)
	assert.Equal(t, 1, report.PriceChanges)

	sold := storage.byURL(listings[0].SourceURL)
	require.NotNil(t, sold)
	assert.True(t, sold.Sold)

	repriced := storage.byURL(listings[1].SourceURL)
	require.NotNil(t, repriced)
	assert.Equal(t, 9000.0, repriced.Price)
	require.Len(t, repriced.PriceHistory, 1)
	assert.Equal(t, 10000.0, repriced.PriceHistory[0].Price)
}

func TestRunCrawl_CommitErrorsCountedAndRunContinues(t *testing.T) {
	t.Parallel()

	listings, storage := crawlFixture(3)
	newPrice := 8000.0
	storage.applyReconcileErr = fmt.Errorf("connection reset")
	session := &fakeSession{results: map[string]domain.SourceResult{
		listings[1].SourceURL: {
			Status: domain.StatusOK,
			Fields: &domain.FieldSet{Price: &newPrice},
		},
	}}
	reports := newFakeReportQueue()

	uc := newCrawlUC(storage, newFakeCheckpointStore(), session, reports, 1)
	uc.runInBackground(context.Background(), uuid.New())

	require.Len(t, reports.crawlReports, 1)
	report := reports.crawlReports[0]
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 1, report.CommitErrs)
	assert.True(t, report.FullyCompleted)
}

func TestRunCrawl_RejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	uc := newCrawlUC(newFakeStorage(), newFakeCheckpointStore(),
		&fakeSession{}, newFakeReportQueue(), 1)
	uc.mu.Lock()
	uc.running = true
	uc.mu.Unlock()

	_, err := uc.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestRunCrawl_EmptySnapshotPublishesNothing(t *testing.T) {
	t.Parallel()

	reports := newFakeReportQueue()
	uc := newCrawlUC(newFakeStorage(), newFakeCheckpointStore(),
		&fakeSession{}, reports, 2)
	uc.runInBackground(context.Background(), uuid.New())

	assert.Empty(t, reports.crawlReports)
}
