package domain

// ShardCheckpoint - долговременная отметка прогресса одного шарда.
// Границы шарда сохраняются вместе с отметкой: при рестарте отметка
// учитывается только если шард нарезан по тем же границам, иначе шард
// безопасно (благодаря идемпотентности сверки) обрабатывается заново.
type ShardCheckpoint struct {
	FirstURL string `json:"first_url"`
	LastURL  string `json:"last_url"`
	// Done - наибольший полностью обработанный идентификатор.
	// Монотонно не убывает; сбрасывается только явной очисткой
	// после полностью спокойного завершения обхода.
	Done string `json:"done"`
}

// BoundsMatch сообщает, совпадают ли границы сохраненной отметки
// с границами текущей нарезки.
func (c *ShardCheckpoint) BoundsMatch(firstURL, lastURL string) bool {
	return c != nil && c.FirstURL == firstURL && c.LastURL == lastURL
}
