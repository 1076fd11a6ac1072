// Package schemas встраивает JSON-схемы событий, которыми сервисы
// обмениваются через RabbitMQ.
package schemas

import "embed"

//go:embed events
var SchemasFS embed.FS
