package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

type PreferenceService interface {
	GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error)
	UpdatePreferences(ctx context.Context, userID int64, req *transfer.PreferenceUpdate) (*models.UserPreference, error)
}

type preferenceService struct {
	pr repository.PreferenceRepository
}

func NewPreferenceService(pr repository.PreferenceRepository) PreferenceService {
	return &preferenceService{pr: pr}
}

func (s *preferenceService) GetPreferences(ctx context.Context, userID int64) (*models.UserPreference, error) {
	pref, found, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error loading preferences")
	}
	if !found {
		return defaultPreferences(userID), nil
	}
	return pref, nil
}

func (s *preferenceService) UpdatePreferences(ctx context.Context, userID int64, req *transfer.PreferenceUpdate) (*models.UserPreference, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, pipeline.Validationf("invalid timezone: %s", timezone)
	}

	existing, found, err := s.pr.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	pref := defaultPreferences(userID)
	if found {
		pref = existing
	}
	pref.Timezone = timezone
	pref.ContentStyle = req.ContentStyle
	pref.AutoSchedule = req.AutoSchedule

	if err := s.pr.Upsert(ctx, pref); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error saving preferences")
	}

	return pref, nil
}

func defaultPreferences(userID int64) *models.UserPreference {
	return &models.UserPreference{
		UserID:       userID,
		Timezone:     "UTC",
		AutoSchedule: true,
	}
}
