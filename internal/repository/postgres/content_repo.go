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

type contentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) domain.ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetByKey(ctx context.Context, key string) (*domain.ContentBlock, error) {
	var block domain.ContentBlock
	var content []byte
	err := queries(ctx, r.db).QueryRow(ctx, `
		SELECT id, section_key, content, is_active, updated_at
		FROM content_blocks WHERE section_key = $1`, key,
	).Scan(&block.ID, &block.SectionKey, &content, &block.IsActive, &block.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("content %s not found", key)
		}
		return nil, err
	}
	block.Content = domain.RawJSON(content)
	return &block, nil
}

func (r *contentRepository) Upsert(ctx context.Context, key string, content interface{}) (*domain.ContentBlock, error) {
	bytes, err := json.Marshal(content)
	if err != nil {
		return nil, err
	}

	var block domain.ContentBlock
	var stored []byte
	err = queries(ctx, r.db).QueryRow(ctx, `
		INSERT INTO content_blocks (id, section_key, content, is_active, updated_at)
		VALUES (gen_random_uuid(), $1, $2, true, now())
		ON CONFLICT (section_key)
		DO UPDATE SET content = EXCLUDED.content, updated_at = now()
		RETURNING id, section_key, content, is_active, updated_at`,
		key, bytes,
	).Scan(&block.ID, &block.SectionKey, &stored, &block.IsActive, &block.UpdatedAt)
	if err != nil {
		return nil, err
	}
	block.Content = domain.RawJSON(stored)
	return &block, nil
}
