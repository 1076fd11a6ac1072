package rest

import (
	"net/http"

	"github.com/cosminpetcu/carstat/internal/contextkeys"
	"github.com/cosminpetcu/carstat/internal/core/port"
	"github.com/cosminpetcu/carstat/internal/core/port/usecases_port"
)

type MarketHandlers struct {
	runCrawlUC     usecases_port.RunCrawlUseCase
	runAnalyticsUC usecases_port.RunAnalyticsUseCase
	getStatsUC     usecases_port.GetStoreStatsUseCase
}

// NewMarketHandlers - конструктор для наших обработчиков.
func NewMarketHandlers(runCrawlUC usecases_port.RunCrawlUseCase,
	runAnalyticsUC usecases_port.RunAnalyticsUseCase,
	getStatsUC usecases_port.GetStoreStatsUseCase) *MarketHandlers {
	return &MarketHandlers{
		runCrawlUC:     runCrawlUC,
		runAnalyticsUC: runAnalyticsUC,
		getStatsUC:     getStatsUC,
	}
}

// HandleRunCrawl - обработчик для POST /api/v1/crawl/run
func (h *MarketHandlers) HandleRunCrawl(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleRunCrawl"})

	runID, err := h.runCrawlUC.Execute(r.Context())
	if err != nil {
		logger.Error("Failed to start crawl run", err, nil)
		WriteJSONError(w, http.StatusConflict, err.Error())
		return
	}

	logger.Info("Crawl run started", port.Fields{"run_id": runID.String()})
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"run_id": runID.String()})
}

// HandleRunAnalytics - обработчик для POST /api/v1/analytics/run
func (h *MarketHandlers) HandleRunAnalytics(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleRunAnalytics"})

	runID, err := h.runAnalyticsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Failed to start analytics run", err, nil)
		WriteJSONError(w, http.StatusConflict, err.Error())
		return
	}

	logger.Info("Analytics run started", port.Fields{"run_id": runID.String()})
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"run_id": runID.String()})
}

// HandleGetStats - обработчик для GET /api/v1/stats
func (h *MarketHandlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleGetStats"})

	stats, err := h.getStatsUC.Execute(r.Context())
	if err != nil {
		logger.Error("Failed to get store stats", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Failed to get store stats")
		return
	}

	RespondWithJSON(w, http.StatusOK, stats)
}
