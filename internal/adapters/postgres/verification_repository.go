package postgres

import (
	"TurnstileCore/internal/core/domain"
	"TurnstileCore/internal/core/ports"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type verificationRepository struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.VerificationRepository = (*verificationRepository)(nil) // Ensure compliance

// NewVerificationRepository creates a repository for widget lifecycle records.
// Tokens arrive already sealed; this layer never sees plaintext.
func NewVerificationRepository(db *DB, baseLogger *zerolog.Logger) ports.VerificationRepository {
	return &verificationRepository{
		db:  db,
		log: baseLogger.With().Str("component", "verification_repo").Logger(),
	}
}

// Save inserts one record.
func (r *verificationRepository) Save(ctx context.Context, rec *domain.VerificationRecord) error {
	query := `
		INSERT INTO widget_events (id, widget_id, event, sealed_token, error_code, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.pool.Exec(ctx, query,
		rec.ID,
		rec.WidgetID,
		rec.Event,
		rec.SealedToken,
		rec.ErrorCode,
		rec.OccurredAt,
	)
	if err != nil {
		r.log.Error().Err(err).
			Str("widget_id", rec.WidgetID.String()).
			Str("event", rec.Event).
			Msg("Failed to insert widget event")
		return fmt.Errorf("insert widget event: %w", err)
	}
	return nil
}

// ListByWidget returns the records of one widget, oldest first.
func (r *verificationRepository) ListByWidget(ctx context.Context, widgetID uuid.UUID) ([]*domain.VerificationRecord, error) {
	query := `
		SELECT id, widget_id, event, sealed_token, error_code, occurred_at
		FROM widget_events
		WHERE widget_id = $1
		ORDER BY occurred_at ASC
	`
	rows, err := r.db.pool.Query(ctx, query, widgetID)
	if err != nil {
		r.log.Error().Err(err).Str("widget_id", widgetID.String()).Msg("Failed to query widget events")
		return nil, fmt.Errorf("query widget events: %w", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.VerificationRecord, error) {
		rec := &domain.VerificationRecord{}
		err := row.Scan(
			&rec.ID,
			&rec.WidgetID,
			&rec.Event,
			&rec.SealedToken,
			&rec.ErrorCode,
			&rec.OccurredAt,
		)
		return rec, err
	})
	if err != nil {
		r.log.Error().Err(err).Str("widget_id", widgetID.String()).Msg("Failed to scan widget events")
		return nil, fmt.Errorf("scan widget events: %w", err)
	}

	return records, nil
}
