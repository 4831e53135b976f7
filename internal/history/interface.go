package history

import (
	"context"

	"github.com/dealpulse/pkg/models"
)

// Store persists health snapshots across analyses. The scoring engine never
// writes history itself; the service layer saves a snapshot after each
// analysis and the engine reads previous scores back through this interface.
type Store interface {
	SaveSnapshot(ctx context.Context, snapshot models.HealthSnapshot) error
	LatestSnapshot(ctx context.Context, dealID string) (*models.HealthSnapshot, error)
	ListSnapshots(ctx context.Context, dealID string, limit int) ([]models.HealthSnapshot, error)
	PortfolioSummary(ctx context.Context) (*models.PortfolioSummary, error)
	Close(ctx context.Context) error
}
