package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/maheshrc27/clipcast/configs"
	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
	"github.com/maheshrc27/clipcast/pkg/utils"
)

const (
	tiktokTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	tiktokUserInfoURL = "https://open.tiktokapis.com/v2/user/info/?fields=open_id,avatar_url,display_name,username"
	tiktokUploadURL   = "https://open.tiktokapis.com/v2/post/publish/video/init/"
	tiktokQueryURL    = "https://open.tiktokapis.com/v2/video/query/?fields=view_count,like_count,share_count,comment_count"
	tiktokRevokeURL   = "https://open.tiktokapis.com/v2/oauth/revoke/"
)

type TiktokService interface {
	TiktokCallback(ctx context.Context, code string, userID int64) error
	RefreshTiktokToken(ctx context.Context, userID int64, refreshToken string) error
	UploadVideo(ctx context.Context, acc *models.SocialAccount, videoURL, caption string) (videoID, shareURL string, err error)
	FetchVideoMetrics(ctx context.Context, acc *models.SocialAccount, videoID string) (*transfer.TiktokVideoMetrics, error)
}

type tiktokService struct {
	cfg        config.Config
	sa         repository.SocialAccountRepository
	httpClient *http.Client
}

func NewTiktokService(cfg config.Config, sa repository.SocialAccountRepository) TiktokService {
	return &tiktokService{
		cfg:        cfg,
		sa:         sa,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (s *tiktokService) TiktokCallback(ctx context.Context, code string, userID int64) error {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return err
	}

	tokenResponse, err := s.exchangeCodeForToken(ctx, code)
	if err != nil {
		return err
	}

	userInfo, err := s.tiktokUserInfo(ctx, tokenResponse.AccessToken)
	if err != nil {
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	accountInfo := &models.SocialAccount{
		UserID:          userID,
		Platform:        models.PlatformTiktok,
		AccountID:       userInfo.Data.User.OpenID,
		AccountName:     userInfo.Data.User.DisplayName,
		AccountUsername: userInfo.Data.User.Username,
		ProfilePicture:  userInfo.Data.User.AvatarURL,
		AccessToken:     encryptedAccessToken,
		RefreshToken:    encryptedRefreshToken,
		TokenExpiresAt:  GetExpiresAt(tokenResponse.ExpiresIn),
	}

	_, err = s.sa.Create(ctx, nil, accountInfo)
	if err != nil {
		return err
	}

	return nil
}

func (s *tiktokService) exchangeCodeForToken(ctx context.Context, code string) (*transfer.TiktokTokenResponse, error) {
	data := url.Values{}
	data.Add("client_key", s.cfg.TiktokClientKey)
	data.Add("client_secret", s.cfg.TiktokClientSecret)
	data.Add("code", code)
	data.Add("grant_type", "authorization_code")
	data.Add("redirect_uri", s.cfg.TiktokRedirectURI)

	req, err := http.NewRequestWithContext(ctx, "POST", tiktokTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Info("TikTok token endpoint returned non-200 status")
		return nil, errors.New("TikTok token endpoint returned non-200 status")
	}

	var tokenResponse transfer.TiktokTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}

	return &tokenResponse, nil
}

func (s *tiktokService) tiktokUserInfo(ctx context.Context, accessToken string) (*transfer.TikTokResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", tiktokUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer resp.Body.Close()

	var result transfer.TikTokResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &result, nil
}

func (s *tiktokService) RefreshTiktokToken(ctx context.Context, userID int64, refreshToken string) error {
	decryptedRefreshToken, err := utils.Decrypt(refreshToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	data := url.Values{}
	data.Set("client_key", s.cfg.TiktokClientKey)
	data.Set("client_secret", s.cfg.TiktokClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", decryptedRefreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", tiktokTokenURL, bytes.NewBufferString(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token refresh returned status %d", resp.StatusCode)
	}

	var tokenResponse transfer.TiktokTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		slog.Info(err.Error())
		return err
	}

	encryptedAccessToken, err := utils.Encrypt([]byte(tokenResponse.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	encryptedRefreshToken, err := utils.Encrypt([]byte(tokenResponse.RefreshToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	socialAccount := models.SocialAccount{
		AccessToken:    encryptedAccessToken,
		RefreshToken:   encryptedRefreshToken,
		TokenExpiresAt: GetExpiresAt(tokenResponse.ExpiresIn),
	}

	return s.sa.SetToken(ctx, userID, &socialAccount)
}

// UploadVideo performs one direct-post upload against the TikTok
// publish API. The video is pulled by TikTok from its public URL.
func (s *tiktokService) UploadVideo(ctx context.Context, acc *models.SocialAccount, videoURL, caption string) (string, string, error) {
	decryptedAccessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return "", "", err
	}

	uploadRequest := transfer.VideoUploadRequest{
		PostInfo: transfer.VideoPostInfo{
			Title:                 caption,
			PrivacyLevel:          "PUBLIC_TO_EVERYONE",
			DisableDuet:           false,
			DisableComment:        false,
			DisableStitch:         false,
			VideoCoverTimestampMs: 1000,
			IsAIGC:                true,
		},
		SourceInfo: transfer.VideoSourceInfo{
			Source:   "PULL_FROM_URL",
			VideoURL: videoURL,
		},
	}

	jsonData, err := json.Marshal(uploadRequest)
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", tiktokUploadURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+decryptedAccessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", "", pipeline.Upstreamf("video upload request failed: %v", err)
	}
	defer resp.Body.Close()

	var result transfer.TikTokUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return "", "", pipeline.Upstreamf("failed to decode upload response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", "", pipeline.Upstreamf("video upload returned %d: %s", resp.StatusCode, result.Error.Message)
	}

	videoID := result.Data.PublishID
	shareURL := result.Data.ShareURL
	if shareURL == "" {
		shareURL = fmt.Sprintf("https://tiktok.com/@%s/video/%s", acc.AccountUsername, videoID)
	}

	return videoID, shareURL, nil
}

func RevokeTiktokAccess(clientKey, clientSecret, accessToken string) error {
	data := url.Values{}
	data.Add("client_key", clientKey)
	data.Add("client_secret", clientSecret)
	data.Add("token", accessToken)

	req, err := http.NewRequest("POST", tiktokRevokeURL, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token revocation returned status %d", resp.StatusCode)
	}

	return nil
}

func (s *tiktokService) FetchVideoMetrics(ctx context.Context, acc *models.SocialAccount, videoID string) (*transfer.TiktokVideoMetrics, error) {
	decryptedAccessToken, err := utils.Decrypt(acc.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"filters": map[string]any{
			"video_ids": []string{videoID},
		},
	}
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", tiktokQueryURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+decryptedAccessToken)
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, pipeline.Upstreamf("metrics request returned %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Videos []transfer.TiktokVideoMetrics `json:"videos"`
		} `json:"data"`
		Error transfer.TiktokError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("failed to decode metrics response: %v", err)
	}

	if len(result.Data.Videos) == 0 {
		return nil, pipeline.Upstreamf("no metrics returned for video %s", videoID)
	}

	metrics := result.Data.Videos[0]
	interactions := metrics.Likes + metrics.Shares + metrics.Comments
	if metrics.Views > 0 {
		metrics.EngagementRate = float64(interactions) / float64(metrics.Views) * 100
	}

	return &metrics, nil
}
