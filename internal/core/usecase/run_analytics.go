package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/domain"
	"github.com/cosminpetcu/carstat/internal/core/port"
)

// RunAnalyticsUseCase - подготовительное дозаполнение поколений и
// пять строго упорядоченных полнотабличных проходов. Перед каждым
// проходом берется свежий снимок хранилища, поэтому проход N видит
// все, что зафиксировал проход N-1.
type RunAnalyticsUseCase struct {
	storage port.ListingStoragePort
	reports port.RunReportQueuePort
	now     func() time.Time

	mu      sync.Mutex
	running bool
}

func NewRunAnalyticsUseCase(storage port.ListingStoragePort, reports port.RunReportQueuePort) *RunAnalyticsUseCase {
	return &RunAnalyticsUseCase{
		storage: storage,
		reports: reports,
		now:     time.Now,
	}
}

// Execute запускает аналитический цикл в фоне и сразу возвращает
// идентификатор прогона.
func (uc *RunAnalyticsUseCase) Execute(ctx context.Context) (uuid.UUID, error) {
	uc.mu.Lock()
	if uc.running {
		uc.mu.Unlock()
		return uuid.Nil, errors.New("analytics run already in progress")
	}
	uc.running = true
	uc.mu.Unlock()

	runID := uuid.New()

	logger := contextkeys.LoggerFromContext(ctx)
	traceID := contextkeys.TraceIDFromContext(ctx)
	backgroundCtx := context.Background()
	backgroundCtx = contextkeys.ContextWithLogger(backgroundCtx, logger)
	backgroundCtx = contextkeys.ContextWithTraceID(backgroundCtx, traceID)

	logger.Info("Analytics run accepted, starting background processing", port.Fields{"run_id": runID.String()})

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

func (uc *RunAnalyticsUseCase) runInBackground(ctx context.Context, runID uuid.UUID) {
	logger := contextkeys.LoggerFromContext(ctx)
	runLogger := logger.WithFields(port.Fields{
		"use_case": "RunAnalytics.background",
		"run_id":   runID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, runLogger)

	now := uc.now()
	passes := []struct {
		name string
		fn   func([]domain.CarListing) []domain.AnalyticsMutation
	}{
		{"generations", passGenerations},
		{"placeholder", passPlaceholder},
		{"outliers", passOutliers},
		{"estimates", passEstimates},
		{"sweep", passSuspiciousSweep},
		{"quality", func(s []domain.CarListing) []domain.AnalyticsMutation { return passQuality(s, now) }},
	}

	report := domain.AnalyticsRunReport{
		RunID:           runID.String(),
		MutationsByPass: make(map[string]int),
		ErrorsByPass:    make(map[string]int),
	}

	for _, pass := range passes {
		// Снимок берется заново перед каждым проходом: проход обязан
		// видеть зафиксированные результаты всех предыдущих.
		snapshot, err := uc.storage.GetAllListings(ctx)
		if err != nil {
			runLogger.Error("Failed to snapshot listings, aborting analytics run", err, port.Fields{"pass": pass.name})
			report.ErrorsByPass[pass.name]++
			break
		}
		report.ListingsTotal = len(snapshot)

		mutations := pass.fn(snapshot)
		report.MutationsByPass[pass.name] = len(mutations)
		if len(mutations) == 0 {
			runLogger.Debug("Pass produced no mutations", port.Fields{"pass": pass.name})
			continue
		}

		if err := uc.storage.ApplyAnalytics(ctx, mutations); err != nil {
			// Следующие проходы все равно запускаются: они возьмут
			// свежий снимок и посчитают по тому, что реально записано.
			runLogger.Error("Failed to commit pass mutations", err, port.Fields{"pass": pass.name})
			report.ErrorsByPass[pass.name]++
			continue
		}

		runLogger.Info("Pass committed", port.Fields{
			"pass":      pass.name,
			"mutations": len(mutations),
		})
	}

	runLogger.Info("Analytics run finished", port.Fields{
		"listings_total": report.ListingsTotal,
		"mutations":      report.MutationsByPass,
		"errors":         report.ErrorsByPass,
	})

	if err := uc.reports.PublishAnalyticsReport(ctx, report); err != nil {
		runLogger.Error("Failed to publish analytics run report", err, nil)
	}
}
