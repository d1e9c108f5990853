package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	config "github.com/maheshrc27/clipcast/configs"
	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/pkg/utils"
)

const tiktokAuthURL = "https://www.tiktok.com/v2/auth/authorize"

type PlatformService interface {
	GetAuthURL(ctx context.Context, platform, tokenString string) string
	List(ctx context.Context, userID int64) ([]*models.SocialAccount, error)
	Delete(ctx context.Context, userID, accountID int64) error
}

type platformService struct {
	cfg config.Config
	sa  repository.SocialAccountRepository
}

func NewPlatformService(cfg config.Config, sa repository.SocialAccountRepository) PlatformService {
	return &platformService{
		cfg: cfg,
		sa:  sa,
	}
}

func (s *platformService) GetAuthURL(ctx context.Context, platform, tokenString string) string {
	switch platform {
	case models.PlatformTiktok:
		params := url.Values{}
		params.Add("client_key", s.cfg.TiktokClientKey)
		params.Add("scope", "user.info.basic,user.info.profile,video.publish,video.upload")
		params.Add("response_type", "code")
		params.Add("redirect_uri", s.cfg.TiktokRedirectURI)
		params.Add("state", tokenString)

		return fmt.Sprintf("%s?%s", tiktokAuthURL, params.Encode())

	default:
		return ""
	}
}

func (s *platformService) List(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var err error

	if userID == 0 {
		err = errors.New("user ID is not valid")
		slog.Info(err.Error())
		return nil, err
	}

	accounts, err := s.sa.ListInfoByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting social accounts")
	}

	return accounts, nil
}

func (s *platformService) Delete(ctx context.Context, userID, accountID int64) error {
	var err error

	if userID == 0 {
		err = errors.New("user ID is not valid")
		slog.Info(err.Error())
		return err
	}

	if accountID == 0 {
		err = errors.New("account ID is not valid")
		slog.Info(err.Error())
		return err
	}

	accountInfo, err := s.sa.GetByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("unable to get social account info")
	}

	if accountInfo == nil || accountInfo.UserID != userID {
		err = errors.New("social account doesn't exist")
		slog.Info(err.Error())
		return err
	}

	decryptedAccessToken, err := utils.Decrypt(accountInfo.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	if accountInfo.Platform == models.PlatformTiktok {
		err = RevokeTiktokAccess(s.cfg.TiktokClientKey, s.cfg.TiktokClientSecret, decryptedAccessToken)
		if err != nil {
			slog.Info(err.Error())
			return fmt.Errorf("unable to revoke access")
		}
	}

	return s.sa.Remove(ctx, accountID)
}
