package contracts

import (
	"context"
	"ips-timeline-service/internal/app/models"
)

// SessionStore keeps sessions keyed by id. Get returns nil, nil when the
// session is absent or expired.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}
