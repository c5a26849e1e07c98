package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/polyarb/internal/domain"
)

// Storage persiste el histórico de oportunidades por ciclo de escaneo.
// El scan en sí es stateless; esto es solo reporting hacia atrás.
type Storage interface {
	// SaveScan persiste las oportunidades de un ciclo bajo su scan ID.
	SaveScan(ctx context.Context, scanID string, opportunities []domain.Opportunity) error

	// GetHistory devuelve las oportunidades registradas en el rango dado,
	// ordenadas por profit descendente.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
