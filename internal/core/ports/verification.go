package ports

import (
	"TurnstileCore/internal/core/domain"
	"context"

	"github.com/google/uuid"
)

// VerificationRepository defines persistence for widget lifecycle records.
type VerificationRepository interface {
	// Save stores a new record.
	Save(ctx context.Context, rec *domain.VerificationRecord) error

	// ListByWidget returns every record of one widget, oldest first.
	ListByWidget(ctx context.Context, widgetID uuid.UUID) ([]*domain.VerificationRecord, error)
}
