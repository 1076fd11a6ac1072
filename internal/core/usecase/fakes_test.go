package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// fakeListingStorage - хранилище в памяти для тестов оркестраторов.
// Мутации применяются к собственному состоянию, так что следующий
// снимок видит результат предыдущего прохода, как и настоящая БД.
type fakeListingStorage struct {
	mu       sync.Mutex
	listings []domain.CarListing

	snapshotErr       error
	applyAnalyticsErr error
	applyReconcileErr error

	reconciled []domain.ReconcileChange
	analytics  [][]domain.AnalyticsMutation
}

func newFakeStorage(listings ...domain.CarListing) *fakeListingStorage {
	return &fakeListingStorage{listings: listings}
}

func (s *fakeListingStorage) GetActiveListings(ctx context.Context) ([]domain.CarListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	var out []domain.CarListing
	for _, l := range s.listings {
		if !l.Sold {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SourceURL < out[j].SourceURL })
	return out, nil
}

func (s *fakeListingStorage) GetAllListings(ctx context.Context) ([]domain.CarListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	out := make([]domain.CarListing, len(s.listings))
	copy(out, s.listings)
	return out, nil
}

func (s *fakeListingStorage) ApplyReconcile(ctx context.Context, change domain.ReconcileChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyReconcileErr != nil {
		return s.applyReconcileErr
	}
	s.reconciled = append(s.reconciled, change)
	for i := range s.listings {
		if s.listings[i].SourceURL == change.Listing.SourceURL {
			s.listings[i] = change.Listing
			return nil
		}
	}
	return domain.ErrListingNotFound
}

func (s *fakeListingStorage) ApplyAnalytics(ctx context.Context, mutations []domain.AnalyticsMutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyAnalyticsErr != nil {
		return s.applyAnalyticsErr
	}
	s.analytics = append(s.analytics, mutations)
	for _, m := range mutations {
		for i := range s.listings {
			if s.listings[i].SourceURL != m.SourceURL {
				continue
			}
			if m.SetSuspicious {
				s.listings[i].SuspiciousPrice = true
			}
			if m.SetGeneration {
				s.listings[i].Generation = m.Generation
			}
			if m.SetEstimate {
				s.listings[i].EstimatedPrice = m.EstimatedPrice
				s.listings[i].DealRating = m.DealRating
			}
			if m.SetQuality {
				s.listings[i].QualityScore = m.QualityScore
			}
		}
	}
	return nil
}

func (s *fakeListingStorage) CreateIfAbsent(ctx context.Context, listing domain.CarListing) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.listings {
		if l.SourceURL == listing.SourceURL {
			return false, nil
		}
	}
	s.listings = append(s.listings, listing)
	return true, nil
}

func (s *fakeListingStorage) GetStats(ctx context.Context) (domain.StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := domain.StoreStats{Total: int64(len(s.listings))}
	for _, l := range s.listings {
		if l.Sold {
			stats.Sold++
		} else {
			stats.Active++
		}
	}
	return stats, nil
}

func (s *fakeListingStorage) byURL(url string) *domain.CarListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.listings {
		if s.listings[i].SourceURL == url {
			l := s.listings[i]
			return &l
		}
	}
	return nil
}

// fakeReportQueue копит опубликованные сводки и сигналит о каждой
// в done, чтобы тест мог дождаться конца фонового прогона.
type fakeReportQueue struct {
	mu               sync.Mutex
	crawlReports     []domain.CrawlRunReport
	analyticsReports []domain.AnalyticsRunReport
	done             chan struct{}
}

func newFakeReportQueue() *fakeReportQueue {
	return &fakeReportQueue{done: make(chan struct{}, 8)}
}

func (q *fakeReportQueue) PublishCrawlReport(ctx context.Context, report domain.CrawlRunReport) error {
	q.mu.Lock()
	q.crawlReports = append(q.crawlReports, report)
	q.mu.Unlock()
	q.done <- struct{}{}
	return nil
}

func (q *fakeReportQueue) PublishAnalyticsReport(ctx context.Context, report domain.AnalyticsRunReport) error {
	q.mu.Lock()
	q.analyticsReports = append(q.analyticsReports, report)
	q.mu.Unlock()
	q.done <- struct{}{}
	return nil
}

// fakeCheckpointStore - отметки в памяти.
type fakeCheckpointStore struct {
	mu       sync.Mutex
	shards   map[int]domain.ShardCheckpoint
	frontier string

	shardsCleared   bool
	frontierCleared bool
}

func newFakeCheckpointStore() *fakeCheckpointStore {
	return &fakeCheckpointStore{shards: make(map[int]domain.ShardCheckpoint)}
}

func (s *fakeCheckpointStore) LoadShard(shard int) (*domain.ShardCheckpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, ok := s.shards[shard]
	if !ok {
		return nil, nil
	}
	return &cp, nil
}

func (s *fakeCheckpointStore) SaveShard(shard int, cp domain.ShardCheckpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards[shard] = cp
	return nil
}

func (s *fakeCheckpointStore) ClearShards() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shards = make(map[int]domain.ShardCheckpoint)
	s.shardsCleared = true
	return nil
}

func (s *fakeCheckpointStore) LoadFrontier() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frontier, nil
}

func (s *fakeCheckpointStore) SaveFrontier(done string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frontier = done
	return nil
}

func (s *fakeCheckpointStore) ClearFrontier() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frontier = ""
	s.frontierCleared = true
	return nil
}

// fakeSession отвечает по скрипту url -> SourceResult; незнакомые URL
// получают OK без изменений.
type fakeSession struct {
	mu      sync.Mutex
	results map[string]domain.SourceResult
	fetched []string
}

func (f *fakeSession) Fetch(ctx context.Context, adURL string) (domain.SourceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, adURL)
	if res, ok := f.results[adURL]; ok {
		return res, nil
	}
	price := 10000.0
	return domain.SourceResult{
		Status: domain.StatusOK,
		Fields: &domain.FieldSet{Price: &price},
	}, nil
}

func (f *fakeSession) fetchedURLs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.fetched))
	copy(out, f.fetched)
	return out
}

type fakeSessionFactory struct {
	session *fakeSession
}

func (f *fakeSessionFactory) NewSession() (port.SourceFetcherPort, error) {
	return f.session, nil
}
