package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ferreinti-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsRepository persists singleton configuration records in the
// settings table, one JSONB payload per setting_id.
type settingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetShippingConfig(ctx context.Context) (*domain.ShippingConfigUpdate, error) {
	var payload []byte
	err := queries(ctx, r.db).QueryRow(ctx,
		`SELECT payload FROM settings WHERE setting_id = $1`,
		domain.ShippingSettingID,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// No record stored yet: the caller falls back to defaults.
			return nil, nil
		}
		return nil, fmt.Errorf("load shipping settings: %w", err)
	}

	var stored domain.ShippingConfigUpdate
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("decode shipping settings: %w", err)
	}
	return &stored, nil
}

func (r *settingsRepository) UpsertShippingConfig(ctx context.Context, update domain.ShippingConfigUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encode shipping settings: %w", err)
	}

	// jsonb || merges the provided fields over the stored record, so a
	// partial update never clobbers fields it does not mention.
	_, err = queries(ctx, r.db).Exec(ctx, `
		INSERT INTO settings (setting_id, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (setting_id)
		DO UPDATE SET payload = settings.payload || EXCLUDED.payload, updated_at = now()`,
		domain.ShippingSettingID, payload,
	)
	if err != nil {
		return fmt.Errorf("upsert shipping settings: %w", err)
	}
	return nil
}
