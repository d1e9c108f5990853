package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

type DashboardService interface {
	PipelineStats(ctx context.Context, userID int64) (*transfer.PipelineStats, error)
	AnalyticsSummary(ctx context.Context, userID int64) (*transfer.AnalyticsSummary, error)
}

type dashboardService struct {
	ir repository.IdeaRepository
	ar repository.AnalyticsRepository
}

func NewDashboardService(ir repository.IdeaRepository, ar repository.AnalyticsRepository) DashboardService {
	return &dashboardService{ir: ir, ar: ar}
}

func (s *dashboardService) PipelineStats(ctx context.Context, userID int64) (*transfer.PipelineStats, error) {
	counts, err := s.ir.CountByStatus(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error loading pipeline stats")
	}

	stats := &transfer.PipelineStats{
		Queued:     counts[models.IdeaStatusQueued],
		Processing: counts[models.IdeaStatusProcessing] + counts[models.IdeaStatusScriptGenerated],
		MediaReady: counts[models.IdeaStatusMediaReady],
		Scheduled:  counts[models.IdeaStatusScheduled],
		Published:  counts[models.IdeaStatusPublished],
		Failed:     counts[models.IdeaStatusFailed],
	}
	for _, n := range counts {
		stats.TotalIdeas += n
	}

	return stats, nil
}

func (s *dashboardService) AnalyticsSummary(ctx context.Context, userID int64) (*transfer.AnalyticsSummary, error) {
	views, likes, shares, comments, err := s.ar.SummaryByUserID(ctx, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("error loading analytics summary")
	}

	return &transfer.AnalyticsSummary{
		Views:    views,
		Likes:    likes,
		Shares:   shares,
		Comments: comments,
	}, nil
}
