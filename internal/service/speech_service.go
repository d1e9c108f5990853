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

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, scriptContent string) ([]byte, error)
	ModelTag() string
}

type speechService struct {
	cfg        config.Config
	httpClient *http.Client
}

func NewSpeechService(cfg config.Config) SpeechSynthesizer {
	return &speechService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (s *speechService) ModelTag() string {
	return "coqui-tts"
}

type ttsRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
}

func (s *speechService) Synthesize(ctx context.Context, scriptContent string) ([]byte, error) {
	if s.cfg.TTSApiURL == "" {
		return nil, pipeline.Configurationf("TTS_API_URL is not set")
	}

	jsonData, err := json.Marshal(ttsRequest{Text: scriptContent, Format: "wav"})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.cfg.TTSApiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.TTSApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("audio synthesis request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, pipeline.Upstreamf("audio synthesis returned %d: %s", resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return nil, pipeline.Upstreamf("failed to read audio body: %v", err)
	}
	if len(audio) == 0 {
		return nil, pipeline.Upstreamf("audio synthesis returned empty body")
	}

	return audio, nil
}
