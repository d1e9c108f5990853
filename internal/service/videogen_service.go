package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/clipcast/configs"
	"github.com/maheshrc27/clipcast/internal/pipeline"
)

type VideoRenderer interface {
	Render(ctx context.Context, scriptContent, audioURL string) ([]byte, error)
	ModelTag() string
}

type videoGenService struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewVideoGenService(cfg config.Config) VideoRenderer {
	return &videoGenService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Minute},
	}
}

func (s *videoGenService) ModelTag() string {
	return "huggingface-video-gen"
}

type videoGenRequest struct {
	Text        string `json:"text"`
	AudioURL    string `json:"audio_url"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspect_ratio"`
}

func (s *videoGenService) Render(ctx context.Context, scriptContent, audioURL string) ([]byte, error) {
	if s.cfg.VideoGenApiURL == "" {
		return nil, pipeline.Configurationf("VIDEOGEN_API_URL is not set")
	}

	jsonData, err := json.Marshal(videoGenRequest{
		Text:        scriptContent,
		AudioURL:    audioURL,
		Resolution:  "720p",
		AspectRatio: "9:16",
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.VideoGenApiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.VideoGenApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("video render request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, pipeline.Upstreamf("video render returned %d: %s", resp.StatusCode, string(body))
	}

	video, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("failed to read video body: %v", err)
	}
	if len(video) == 0 {
		return nil, pipeline.Upstreamf("video render returned empty body")
	}

	return video, nil
}
