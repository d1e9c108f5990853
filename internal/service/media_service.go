package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
)

type MediaService interface {
	GetMedia(ctx context.Context, userID, mediaID int64) (*models.Media, error)
	ListMedia(ctx context.Context, userID int64) ([]*models.Media, error)
}

type mediaService struct {
	mr repository.MediaRepository
}

func NewMediaService(mr repository.MediaRepository) MediaService {
	return &mediaService{mr: mr}
}

func (s *mediaService) GetMedia(ctx context.Context, userID, mediaID int64) (*models.Media, error) {
	media, err := s.mr.GetByID(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if media == nil || media.UserID != userID {
		return nil, pipeline.Validationf("media not found")
	}
	return media, nil
}

func (s *mediaService) ListMedia(ctx context.Context, userID int64) ([]*models.Media, error) {
	mediaList, err := s.mr.GetByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error listing media")
	}
	return mediaList, nil
}
