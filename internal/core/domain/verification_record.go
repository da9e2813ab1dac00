package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerificationRecord is one persisted widget lifecycle event.
type VerificationRecord struct {
	ID          uuid.UUID
	WidgetID    uuid.UUID
	Event       string
	SealedToken *string // Nullable, only for verified
	ErrorCode   *string // Nullable, only for error
	OccurredAt  time.Time
}
