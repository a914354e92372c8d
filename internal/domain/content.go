package domain

import (
	"context"
	"time"
)

// ContentBlock holds a dynamic storefront fragment (hero banners,
// promotional strips) keyed by section.
type ContentBlock struct {
	ID         string    `json:"id"`
	SectionKey string    `json:"sectionKey"`
	Content    RawJSON   `json:"content"`
	IsActive   bool      `json:"isActive"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type ContentRepository interface {
	GetByKey(ctx context.Context, key string) (*ContentBlock, error)
	Upsert(ctx context.Context, key string, content interface{}) (*ContentBlock, error)
}
