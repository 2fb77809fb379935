package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/dmelnik/taxidriver/internal/game/player"
)

// SaveRepository persists the player ledger as a JSONB payload keyed by save
// slot. Missing or corrupt saves resolve to the default initial state: a
// broken save must never block startup.
type SaveRepository struct {
	db       *pgxpool.Pool
	fallback player.State
	logger   *zap.Logger
}

// NewSaveRepository creates a SaveRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; fallback must be a
// valid initial state; logger must be non-nil.
func NewSaveRepository(db *pgxpool.Pool, fallback player.State, logger *zap.Logger) *SaveRepository {
	return &SaveRepository{db: db, fallback: fallback, logger: logger}
}

// Load returns the player state stored in the given slot. A missing row or
// an unreadable payload yields the fallback initial state, never an error a
// caller must handle beyond connectivity failures.
//
// Precondition: slot must be non-empty.
// Postcondition: Returns a normalized player state or a non-nil error for
// database connectivity problems only.
func (r *SaveRepository) Load(ctx context.Context, slot string) (player.State, error) {
	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM saves WHERE slot = $1`,
		slot,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.fallback.Clone(), nil
	}
	if err != nil {
		return player.State{}, fmt.Errorf("loading save %q: %w", slot, err)
	}

	var st player.State
	if err := json.Unmarshal(payload, &st); err != nil {
		r.logger.Warn("corrupt save payload, starting fresh",
			zap.String("slot", slot),
			zap.Error(err),
		)
		return r.fallback.Clone(), nil
	}
	st.Normalize()
	return st, nil
}

// Save upserts the player state into the given slot.
//
// Precondition: slot must be non-empty.
// Postcondition: The most recent state is durably written or a non-nil error
// is returned.
func (r *SaveRepository) Save(ctx context.Context, slot string, st player.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encoding save %q: %w", slot, err)
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO saves (slot, payload)
		VALUES ($1, $2)
		ON CONFLICT (slot) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()`,
		slot, payload,
	)
	if err != nil {
		return fmt.Errorf("writing save %q: %w", slot, err)
	}
	return nil
}
