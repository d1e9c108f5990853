package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/h2non/filetype"
	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// GenerationService drives one idea through the full generation
// pipeline: script, audio, then video, finishing at media_ready.
// There is no retry inside a run; a failed idea stays failed until it
// is resubmitted.
type GenerationService interface {
	ProcessIdea(ctx context.Context, ideaID int64) error
}

type generationService struct {
	ir      repository.IdeaRepository
	sr      repository.ScriptRepository
	mr      repository.MediaRepository
	scripts ScriptGenerator
	speech  SpeechSynthesizer
	video   VideoRenderer
	store   ObjectStore
}

func NewGenerationService(
	ir repository.IdeaRepository,
	sr repository.ScriptRepository,
	mr repository.MediaRepository,
	scripts ScriptGenerator,
	speech SpeechSynthesizer,
	video VideoRenderer,
	store ObjectStore) GenerationService {
	return &generationService{
		ir:      ir,
		sr:      sr,
		mr:      mr,
		scripts: scripts,
		speech:  speech,
		video:   video,
		store:   store,
	}
}

func (s *generationService) ProcessIdea(ctx context.Context, ideaID int64) error {
	idea, err := s.ir.GetByID(ctx, ideaID)
	if err != nil {
		return err
	}
	if idea == nil {
		return pipeline.ErrNotFound
	}

	// Claim the idea. Losing the flip means another worker got here
	// first.
	if err := s.ir.MarkProcessing(ctx, ideaID, time.Now()); err != nil {
		if pipeline.IsConflict(err) {
			slog.Info("idea already claimed", "idea_id", ideaID)
			return nil
		}
		return err
	}

	script, err := s.generateScript(ctx, idea)
	if err != nil {
		return s.fail(ctx, ideaID, err)
	}

	audio, err := s.generateAudio(ctx, script)
	if err != nil {
		return s.fail(ctx, ideaID, err)
	}

	if err := s.generateVideo(ctx, script, audio); err != nil {
		return s.fail(ctx, ideaID, err)
	}

	if err := s.ir.UpdateStatusFrom(ctx, models.IdeaStatusScriptGenerated, models.IdeaStatusMediaReady, ideaID); err != nil {
		if pipeline.IsConflict(err) {
			return nil
		}
		return err
	}

	slog.Info("idea generation complete", "idea_id", ideaID)
	return nil
}

// fail converts a record-scoped generation error into the idea's
// terminal failed state with retry bookkeeping.
func (s *generationService) fail(ctx context.Context, ideaID int64, cause error) error {
	slog.Error("idea generation failed", "idea_id", ideaID, "error", cause.Error())
	if err := s.ir.MarkFailed(ctx, ideaID, cause.Error()); err != nil {
		return err
	}
	return cause
}

func (s *generationService) generateScript(ctx context.Context, idea *models.Idea) (*models.Script, error) {
	payload, err := s.scripts.GenerateScript(ctx, idea.Text, idea.TargetAudience)
	if err != nil {
		return nil, err
	}

	script := &models.Script{
		IdeaID:            idea.ID,
		UserID:            idea.UserID,
		Content:           payload.Content,
		Hook:              payload.Hook,
		CallToAction:      payload.CTA,
		EstimatedDuration: payload.Duration,
		AiModel:           s.scripts.ModelTag(),
	}

	scriptID, err := s.sr.Create(ctx, nil, script)
	if err != nil {
		return nil, fmt.Errorf("error saving script: %w", err)
	}
	script.ID = scriptID

	if err := s.ir.UpdateStatusFrom(ctx, models.IdeaStatusProcessing, models.IdeaStatusScriptGenerated, idea.ID); err != nil {
		return nil, err
	}

	return script, nil
}

func (s *generationService) generateAudio(ctx context.Context, script *models.Script) (*models.Media, error) {
	media := &models.Media{
		ScriptID: script.ID,
		IdeaID:   script.IdeaID,
		UserID:   script.UserID,
		Kind:     models.MediaKindAudio,
		Status:   models.MediaStatusGenerating,
		AiModel:  s.speech.ModelTag(),
	}

	mediaID, err := s.mr.Create(ctx, nil, media)
	if err != nil {
		return nil, fmt.Errorf("error creating audio media: %w", err)
	}
	media.ID = mediaID

	audioBytes, err := s.speech.Synthesize(ctx, script.Content)
	if err != nil {
		return nil, s.failMedia(ctx, mediaID, err)
	}

	format, contentType, err := sniffMediaFormat(audioBytes, filetype.IsAudio)
	if err != nil {
		return nil, s.failMedia(ctx, mediaID, err)
	}

	key, err := s.storeFile(ctx, audioBytes, contentType)
	if err != nil {
		return nil, s.failMedia(ctx, mediaID, err)
	}

	fileURL := s.store.PublicURL(key)
	if err := s.mr.MarkReady(ctx, mediaID, key, fileURL, int64(len(audioBytes)), script.EstimatedDuration, format); err != nil {
		return nil, err
	}

	media.FileKey = key
	media.FileURL = fileURL
	media.Status = models.MediaStatusReady
	return media, nil
}

func (s *generationService) generateVideo(ctx context.Context, script *models.Script, audio *models.Media) error {
	media := &models.Media{
		ScriptID: script.ID,
		IdeaID:   script.IdeaID,
		UserID:   script.UserID,
		Kind:     models.MediaKindVideo,
		Status:   models.MediaStatusGenerating,
		AiModel:  s.video.ModelTag(),
	}

	mediaID, err := s.mr.Create(ctx, nil, media)
	if err != nil {
		return fmt.Errorf("error creating video media: %w", err)
	}

	videoBytes, err := s.video.Render(ctx, script.Content, audio.FileURL)
	if err != nil {
		return s.failMedia(ctx, mediaID, err)
	}

	_, contentType, err := sniffMediaFormat(videoBytes, filetype.IsVideo)
	if err != nil {
		return s.failMedia(ctx, mediaID, err)
	}

	key, err := s.storeFile(ctx, videoBytes, contentType)
	if err != nil {
		return s.failMedia(ctx, mediaID, err)
	}

	fileURL := s.store.PublicURL(key)
	return s.mr.MarkReady(ctx, mediaID, key, fileURL, int64(len(videoBytes)), script.EstimatedDuration, "mp4")
}

// failMedia lands an in-flight media row in failed so a stage error
// never leaves it stuck in generating. Returns the stage error for the
// caller to propagate.
func (s *generationService) failMedia(ctx context.Context, mediaID int64, cause error) error {
	err := s.mr.UpdateStatusFrom(ctx, models.MediaStatusGenerating, models.MediaStatusFailed, mediaID)
	if err != nil && !pipeline.IsConflict(err) {
		slog.Error("failed to mark media failed", "media_id", mediaID, "error", err.Error())
	}
	return cause
}

func (s *generationService) storeFile(ctx context.Context, file []byte, contentType string) (string, error) {
	key, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	if err := s.store.Upload(ctx, key, file, contentType); err != nil {
		return "", fmt.Errorf("error uploading file: %w", err)
	}

	return key, nil
}

// sniffMediaFormat validates generated bytes really are the media kind
// the upstream service claims before anything is persisted.
func sniffMediaFormat(file []byte, want func([]byte) bool) (format, contentType string, err error) {
	kind, err := filetype.Match(file)
	if err != nil || kind == filetype.Unknown {
		return "", "", pipeline.Upstreamf("unrecognized media payload")
	}
	if !want(file) {
		return "", "", pipeline.Upstreamf("unexpected media type %s", kind.MIME.Value)
	}
	return kind.Extension, kind.MIME.Value, nil
}
