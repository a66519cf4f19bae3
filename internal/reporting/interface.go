package reporting

import (
	"context"
	"time"

	"github.com/mauv0809/matchpoint/internal/notifier"
	"github.com/mauv0809/matchpoint/internal/playtomic"
)

// Notifier defines the notification operations required by the service.
type Notifier interface {
	notifier.Notifier
}

// Importer pulls a match from an external booking system.
type Importer interface {
	Import(ctx context.Context, localID, externalID string) (playtomic.Imported, error)
	Recent(ctx context.Context, tenantID string, since time.Time) ([]playtomic.Imported, error)
}
