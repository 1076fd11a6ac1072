package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// RunCrawlUseCase - планировщик обхода. Снимок активных объявлений
// режется на непрерывные шарды, каждый шард обрабатывается своим
// воркером со своей сессией источников. Прогресс каждого шарда
// фиксируется после каждого объявления.
type RunCrawlUseCase struct {
	storage     port.ListingStoragePort
	checkpoints port.CheckpointStorePort
	sessions    port.FetcherSessionFactoryPort
	reconciler  *ReconcileListingUseCase
	reports     port.RunReportQueuePort
	workers     int

	mu      sync.Mutex
	running bool
}

func NewRunCrawlUseCase(storage port.ListingStoragePort,
	checkpoints port.CheckpointStorePort,
	sessions port.FetcherSessionFactoryPort,
	reconciler *ReconcileListingUseCase,
	reports port.RunReportQueuePort,
	workers int) *RunCrawlUseCase {
	if workers < 1 {
		workers = 1
	}
	return &RunCrawlUseCase{
		storage:     storage,
		checkpoints: checkpoints,
		sessions:    sessions,
		reconciler:  reconciler,
		reports:     reports,
		workers:     workers,
	}
}

// shardStats - состояние одного шарда за прогон. Живет только внутри
// своего воркера, никаких общих счетчиков между шардами.
type shardStats struct {
	processed     int
	priceChanges  int
	soldDetected  int
	transientErrs int
	commitErrs    int
	malformedErrs int
	blocked       bool
	completed     bool
	done          string
}

// Execute запускает обход в фоне и сразу возвращает идентификатор
// прогона. Параллельные запуски не допускаются: два обхода дрались бы
// за одни и те же чекпоинты.
func (uc *RunCrawlUseCase) Execute(ctx context.Context) (uuid.UUID, error) {
	uc.mu.Lock()
	if uc.running {
		uc.mu.Unlock()
		return uuid.Nil, errors.New("crawl run already in progress")
	}
	uc.running = true
	uc.mu.Unlock()

	runID := uuid.New()

	logger := contextkeys.LoggerFromContext(ctx)
	traceID := contextkeys.TraceIDFromContext(ctx)
	backgroundCtx := context.Background()
	backgroundCtx = contextkeys.ContextWithLogger(backgroundCtx, logger)
	backgroundCtx = contextkeys.ContextWithTraceID(backgroundCtx, traceID)

	logger.Info("Crawl run accepted, starting background processing", port.Fields{"run_id": runID.String()})

	go func() {
		defer func() {
			uc.mu.Lock()
			uc.running = false
			uc.mu.Unlock()
		}()
		uc.runInBackground(backgroundCtx, runID)
	}()

	return runID, nil
}

func (uc *RunCrawlUseCase) runInBackground(ctx context.Context, runID uuid.UUID) {
	logger := contextkeys.LoggerFromContext(ctx)
	runLogger := logger.WithFields(port.Fields{
		"use_case": "RunCrawl.background",
		"run_id":   runID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)

	// Снимок берется один раз: шарды нарезаются по нему и не замечают
	// объявлений, добавленных после старта прогона.
	listings, err := uc.storage.GetActiveListings(ctx)
	if err != nil {
		runLogger.Error("Failed to snapshot active listings", err, nil)
		return
	}
	if len(listings) == 0 {
		runLogger.Info("No active listings to crawl", nil)
		return
	}

	// Остаточный фронтир говорит, что прошлый прогон не дошел до конца
	// и шарды будут возобновляться со своих отметок.
	resumedFrontier, err := uc.checkpoints.LoadFrontier()
	if err != nil {
		runLogger.Warn("Failed to load global frontier from previous run", port.Fields{"error": err.Error()})
		resumedFrontier = ""
	} else if resumedFrontier != "" {
		runLogger.Info("Previous run stopped early, resuming past its frontier", port.Fields{"frontier": resumedFrontier})
	}

	shards := splitShards(listings, uc.workers)
	runLogger.Info("Active listings snapshot taken", port.Fields{
		"listings": len(listings),
		"shards":   len(shards),
	})

	stats := make([]*shardStats, len(shards))
	var g errgroup.Group
	for i := range shards {
		i := i
		g.Go(func() error {
			// Каждый воркер пишет только в свою ячейку stats.
			stats[i] = uc.processShard(ctx, i, shards[i])
			return nil
		})
	}
	g.Wait()

	report := domain.CrawlRunReport{
		RunID:           runID.String(),
		Shards:          len(shards),
		ResumedFrontier: resumedFrontier,
	}
	allCompleted := true
	frontier := ""
	for _, s := range stats {
		report.Processed += s.processed
		report.PriceChanges += s.priceChanges
		report.SoldDetected += s.soldDetected
		report.TransientErrs += s.transientErrs
		report.CommitErrs += s.commitErrs
		report.MalformedErrs += s.malformedErrs
		if s.blocked {
			report.BlockedShards++
		}
		if !s.completed {
			allCompleted = false
		}
		if s.done > frontier {
			frontier = s.done
		}
	}

	if allCompleted {
		// Полностью спокойное завершение - единственный момент, когда
		// отметки можно сбрасывать: следующий прогон начнет с чистого
		// листа по свежему снимку.
		if err := uc.checkpoints.ClearShards(); err != nil {
			runLogger.Error("Failed to clear shard checkpoints after completed run", err, nil)
		}
		if err := uc.checkpoints.ClearFrontier(); err != nil {
			runLogger.Error("Failed to clear global frontier after completed run", err, nil)
		}
		report.FullyCompleted = true
	} else {
		if err := uc.checkpoints.SaveFrontier(frontier); err != nil {
			runLogger.Error("Failed to persist global frontier", err, nil)
		}
		report.GlobalFrontier = frontier
	}

	runLogger.Info("Crawl run finished", port.Fields{
		"processed":      report.Processed,
		"price_changes":  report.PriceChanges,
		"sold_detected":  report.SoldDetected,
		"blocked_shards": report.BlockedShards,
		"completed":      report.FullyCompleted,
	})

	if err := uc.reports.PublishCrawlReport(ctx, report); err != nil {
		runLogger.Error("Failed to publish crawl run report", err, nil)
	}
}

// processShard обрабатывает один шард строго по возрастанию SourceURL.
// Первый Blocked немедленно останавливает шард; отметка при этом
// остается на последнем успешно обработанном объявлении.
func (uc *RunCrawlUseCase) processShard(ctx context.Context, idx int, listings []domain.CarListing) *shardStats {
	logger := contextkeys.LoggerFromContext(ctx)
	shardLogger := logger.WithFields(port.Fields{"shard": idx})
	ctx = contextkeys.ContextWithLogger(ctx, shardLogger)

	stats := &shardStats{}
	first := listings[0].SourceURL
	last := listings[len(listings)-1].SourceURL

	cp, err := uc.checkpoints.LoadShard(idx)
	if err != nil {
		shardLogger.Warn("Failed to load shard checkpoint, restarting shard from scratch", port.Fields{"error": err.Error()})
		cp = nil
	}

	// Сохраненная отметка учитывается только при совпадении границ
	// шарда. Иначе нарезка изменилась между прогонами, и отметка может
	// указывать в чужой шард - безопаснее обработать шард заново
	// (сверка идемпотентна, лишней записи не будет).
	cur := domain.ShardCheckpoint{FirstURL: first, LastURL: last}
	if cp.BoundsMatch(first, last) {
		cur.Done = cp.Done
		shardLogger.Debug("Resuming shard from checkpoint", port.Fields{"done": cur.Done})
	} else if cp != nil {
		shardLogger.Info("Shard bounds changed since last run, checkpoint discarded", port.Fields{
			"saved_first": cp.FirstURL,
			"saved_last":  cp.LastURL,
		})
	}
	stats.done = cur.Done

	session, err := uc.sessions.NewSession()
	if err != nil {
		shardLogger.Error("Failed to create fetcher session for shard", err, nil)
		return stats
	}

	for i := range listings {
		listing := listings[i]
		// Возобновляемся строго после отметки.
		if cur.Done != "" && listing.SourceURL <= cur.Done {
			continue
		}

		res, fetchErr := session.Fetch(ctx, listing.SourceURL)
		if fetchErr != nil {
			res = domain.SourceResult{Status: domain.StatusTransientError}
		}

		change, outcome, recErr := uc.reconciler.Execute(ctx, listing, res)
		if outcome == domain.OutcomeBlocked {
			stats.blocked = true
			shardLogger.Warn("Shard blocked by source, halting shard for this run", port.Fields{
				"source_url": listing.SourceURL,
				"last_done":  cur.Done,
			})
			return stats
		}

		stats.processed++
		switch {
		case recErr != nil && errors.Is(recErr, domain.ErrStorageCommit):
			stats.commitErrs++
		case recErr != nil && errors.Is(recErr, domain.ErrMalformedSourceResult):
			stats.malformedErrs++
		case outcome == domain.OutcomeTransient:
			stats.transientErrs++
		case change != nil && change.SoldTransition:
			stats.soldDetected++
		case change != nil && change.PriceChanged:
			stats.priceChanges++
		}

		// Отметка двигается после каждого объявления, включая
		// временные ошибки и сбои записи: повторов внутри прогона нет.
		cur.Done = listing.SourceURL
		stats.done = cur.Done
		if err := uc.checkpoints.SaveShard(idx, cur); err != nil {
			shardLogger.Error("Failed to persist shard checkpoint", err, port.Fields{"done": cur.Done})
		}
	}

	stats.completed = true
	return stats
}

// splitShards режет отсортированный список на n непрерывных кусков
// почти одинакового размера. Пустых шардов не бывает.
func splitShards(listings []domain.CarListing, n int) [][]domain.CarListing {
	if n > len(listings) {
		n = len(listings)
	}
	shards := make([][]domain.CarListing, 0, n)
	base := len(listings) / n
	rem := len(listings) % n
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		shards = append(shards, listings[start:start+size])
		start += size
	}
	return shards
}
