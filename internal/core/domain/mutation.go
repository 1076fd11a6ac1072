package domain

// AnalyticsMutation - одна самодостаточная мутация, произведенная
// аналитическим проходом. Флаги Set* говорят хранилищу, какие группы
// полей трогать; nil внутри группы означает явное обнуление.
type AnalyticsMutation struct {
	SourceURL string

	// suspicious_price монотонен: проход может только выставить true.
	SetSuspicious bool

	// Поколение только дозаполняется, проход никогда его не обнуляет.
	SetGeneration bool
	Generation    *string

	// Оценка и рейтинг пишутся вместе (в т.ч. обнуляются вместе).
	SetEstimate    bool
	EstimatedPrice *float64
	DealRating     *DealRating

	SetQuality   bool
	QualityScore *int
}

// CrawlRunReport - сводка по завершенному обходу, публикуется во
// внешнюю шину для операционной панели.
type CrawlRunReport struct {
	RunID          string `json:"run_id"`
	Shards         int    `json:"shards"`
	Processed      int    `json:"processed"`
	PriceChanges   int    `json:"price_changes"`
	SoldDetected   int    `json:"sold_detected"`
	TransientErrs  int    `json:"transient_errors"`
	CommitErrs     int    `json:"commit_errors"`
	MalformedErrs  int    `json:"malformed_results"`
	BlockedShards  int    `json:"blocked_shards"`
	FullyCompleted bool   `json:"fully_completed"`
	GlobalFrontier string `json:"global_frontier"`

	// Фронтир, оставшийся от прошлого незавершенного прогона.
	ResumedFrontier string `json:"resumed_frontier,omitempty"`
}

// AnalyticsRunReport - сводка по батч-прогону аналитики.
type AnalyticsRunReport struct {
	RunID           string         `json:"run_id"`
	ListingsTotal   int            `json:"listings_total"`
	MutationsByPass map[string]int `json:"mutations_by_pass"`
	ErrorsByPass    map[string]int `json:"errors_by_pass"`
}
