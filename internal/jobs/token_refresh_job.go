package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/service"
)

type TokenRefreshJob struct {
	sr repository.SocialAccountRepository
	tt service.TiktokService
}

func NewTokenRefreshJob(sr repository.SocialAccountRepository, tt service.TiktokService) *TokenRefreshJob {
	return &TokenRefreshJob{
		sr: sr,
		tt: tt,
	}
}

func (c *TokenRefreshJob) RefreshTokens() {
	ctx := context.Background()

	deadline := time.Now().Add(30 * time.Minute)

	accounts, err := c.sr.ListExpiringBefore(ctx, deadline)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var wg sync.WaitGroup

	concurrencyLimit := 10
	semaphore := make(chan struct{}, concurrencyLimit)

	for _, acc := range accounts {
		if acc.Platform != models.PlatformTiktok {
			continue
		}

		wg.Add(1)
		semaphore <- struct{}{}

		go func(acc *models.SocialAccount) {
			defer wg.Done()
			defer func() { <-semaphore }()

			err := c.tt.RefreshTiktokToken(ctx, acc.UserID, acc.RefreshToken)
			if err != nil {
				slog.Info("unable to refresh TikTok token", slog.Int64("user_id", acc.UserID))
			}
		}(acc)
	}

	wg.Wait()
}
