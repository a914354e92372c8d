package usecase

import (
	"context"
	"fmt"

	"ferreinti-backend/internal/domain"
)

type ContentUsecase struct {
	contentRepo domain.ContentRepository
}

func NewContentUsecase(contentRepo domain.ContentRepository) *ContentUsecase {
	return &ContentUsecase{contentRepo: contentRepo}
}

func (u *ContentUsecase) GetSection(ctx context.Context, key string) (*domain.ContentBlock, error) {
	if key == "" {
		return nil, fmt.Errorf("section key is required")
	}
	return u.contentRepo.GetByKey(ctx, key)
}

func (u *ContentUsecase) UpdateSection(ctx context.Context, key string, content interface{}) (*domain.ContentBlock, error) {
	if key == "" {
		return nil, fmt.Errorf("section key is required")
	}
	if content == nil {
		return nil, fmt.Errorf("content is required")
	}
	return u.contentRepo.Upsert(ctx, key, content)
}
