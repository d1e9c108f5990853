package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

// In-memory repositories with the same conditional-update semantics as
// the SQL implementations: a status flip from the wrong state returns
// pipeline.ErrConflict.

type fakeIdeaRepo struct {
	nextID int64
	ideas  map[int64]*models.Idea
}

func newFakeIdeaRepo() *fakeIdeaRepo {
	return &fakeIdeaRepo{ideas: make(map[int64]*models.Idea)}
}

func (r *fakeIdeaRepo) Create(ctx context.Context, tx *sql.Tx, idea *models.Idea) (int64, error) {
	r.nextID++
	cp := *idea
	cp.ID = r.nextID
	r.ideas[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeIdeaRepo) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	idea, ok := r.ideas[id]
	if !ok {
		return nil, nil
	}
	cp := *idea
	return &cp, nil
}

func (r *fakeIdeaRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Idea, error) {
	var out []*models.Idea
	for _, idea := range r.ideas {
		if idea.UserID == userID {
			cp := *idea
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeIdeaRepo) CheckByUserID(ctx context.Context, ideaID, userID int64) (bool, error) {
	idea, ok := r.ideas[ideaID]
	return ok && idea.UserID == userID, nil
}

func (r *fakeIdeaRepo) UpdateStatus(ctx context.Context, status string, ideaID int64) error {
	idea, ok := r.ideas[ideaID]
	if !ok {
		return errors.New("idea not found")
	}
	idea.Status = status
	return nil
}

func (r *fakeIdeaRepo) UpdateStatusFrom(ctx context.Context, from, to string, ideaID int64) error {
	idea, ok := r.ideas[ideaID]
	if !ok || idea.Status != from {
		return pipeline.ErrConflict
	}
	idea.Status = to
	return nil
}

func (r *fakeIdeaRepo) MarkProcessing(ctx context.Context, ideaID int64, processedAt time.Time) error {
	idea, ok := r.ideas[ideaID]
	if !ok || idea.Status != models.IdeaStatusQueued {
		return pipeline.ErrConflict
	}
	idea.Status = models.IdeaStatusProcessing
	idea.ProcessedAt = &processedAt
	return nil
}

func (r *fakeIdeaRepo) MarkFailed(ctx context.Context, ideaID int64, errorMessage string) error {
	idea, ok := r.ideas[ideaID]
	if !ok {
		return errors.New("idea not found")
	}
	idea.Status = models.IdeaStatusFailed
	idea.ErrorMessage = errorMessage
	idea.RetryCount++
	return nil
}

func (r *fakeIdeaRepo) ListPublishedBefore(ctx context.Context, cutoff time.Time, derivedPrefix string) ([]*models.Idea, error) {
	var out []*models.Idea
	for _, idea := range r.ideas {
		if idea.Status == models.IdeaStatusPublished && idea.UpdatedAt.Before(cutoff) {
			cp := *idea
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeIdeaRepo) CountByStatus(ctx context.Context, userID int64) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, idea := range r.ideas {
		if idea.UserID == userID {
			counts[idea.Status]++
		}
	}
	return counts, nil
}

type fakeScriptRepo struct {
	nextID  int64
	scripts map[int64]*models.Script
}

func newFakeScriptRepo() *fakeScriptRepo {
	return &fakeScriptRepo{scripts: make(map[int64]*models.Script)}
}

func (r *fakeScriptRepo) Create(ctx context.Context, tx *sql.Tx, script *models.Script) (int64, error) {
	r.nextID++
	cp := *script
	cp.ID = r.nextID
	r.scripts[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeScriptRepo) GetByID(ctx context.Context, id int64) (*models.Script, error) {
	script, ok := r.scripts[id]
	if !ok {
		return nil, nil
	}
	cp := *script
	return &cp, nil
}

func (r *fakeScriptRepo) GetByIdeaID(ctx context.Context, ideaID int64) (*models.Script, error) {
	for _, script := range r.scripts {
		if script.IdeaID == ideaID {
			cp := *script
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeMediaRepo struct {
	nextID int64
	media  map[int64]*models.Media
	active map[int64]bool
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{
		media:  make(map[int64]*models.Media),
		active: make(map[int64]bool),
	}
}

func (r *fakeMediaRepo) Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error) {
	r.nextID++
	cp := *media
	cp.ID = r.nextID
	r.media[cp.ID] = &cp
	return cp.ID, nil
}

func (r *fakeMediaRepo) GetByID(ctx context.Context, id int64) (*models.Media, error) {
	media, ok := r.media[id]
	if !ok {
		return nil, nil
	}
	cp := *media
	return &cp, nil
}

func (r *fakeMediaRepo) GetByUserID(ctx context.Context, userID int64) ([]*models.Media, error) {
	var out []*models.Media
	for _, media := range r.media {
		if media.UserID == userID {
			cp := *media
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) MarkReady(ctx context.Context, mediaID int64, fileKey, fileURL string, fileSize int64, duration int, format string) error {
	media, ok := r.media[mediaID]
	if !ok || media.Status != models.MediaStatusGenerating {
		return pipeline.ErrConflict
	}
	media.Status = models.MediaStatusReady
	media.FileKey = fileKey
	media.FileURL = fileURL
	media.FileSize = fileSize
	media.Duration = duration
	media.Format = format
	return nil
}

func (r *fakeMediaRepo) UpdateStatusFrom(ctx context.Context, from, to string, mediaID int64) error {
	media, ok := r.media[mediaID]
	if !ok || media.Status != from {
		return pipeline.ErrConflict
	}
	media.Status = to
	return nil
}

func (r *fakeMediaRepo) ListReadyVideosWithoutActiveSchedule(ctx context.Context, limit int) ([]*models.Media, error) {
	var out []*models.Media
	for _, media := range r.media {
		if len(out) == limit {
			break
		}
		if media.Status == models.MediaStatusReady && media.Kind == models.MediaKindVideo && !r.active[media.ID] {
			cp := *media
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeMediaRepo) HasActiveSchedule(ctx context.Context, mediaID int64) (bool, error) {
	return r.active[mediaID], nil
}

type fakeScheduleRepo struct {
	nextID    int64
	schedules map[int64]*models.Schedule
	mr        *fakeMediaRepo
}

func newFakeScheduleRepo(mr *fakeMediaRepo) *fakeScheduleRepo {
	return &fakeScheduleRepo{
		schedules: make(map[int64]*models.Schedule),
		mr:        mr,
	}
}

func (r *fakeScheduleRepo) Create(ctx context.Context, tx *sql.Tx, schedule *models.Schedule) (int64, error) {
	if r.mr != nil && r.mr.active[schedule.MediaID] {
		return 0, pipeline.ErrConflict
	}
	r.nextID++
	cp := *schedule
	cp.ID = r.nextID
	r.schedules[cp.ID] = &cp
	if r.mr != nil && (cp.Status == models.ScheduleStatusPending || cp.Status == models.ScheduleStatusUploading) {
		r.mr.active[cp.MediaID] = true
	}
	return cp.ID, nil
}

func (r *fakeScheduleRepo) GetByID(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, nil
	}
	cp := *schedule
	return &cp, nil
}

func (r *fakeScheduleRepo) ListActiveByUserID(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, schedule := range r.schedules {
		if schedule.UserID == userID &&
			(schedule.Status == models.ScheduleStatusPending || schedule.Status == models.ScheduleStatusUploading) {
			cp := *schedule
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, schedule := range r.schedules {
		if len(out) == limit {
			break
		}
		if schedule.Status == models.ScheduleStatusPending && !schedule.ScheduledTime.After(now) {
			cp := *schedule
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ListPublishedSince(ctx context.Context, since time.Time) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, schedule := range r.schedules {
		if schedule.Status == models.ScheduleStatusPublished && schedule.UpdatedAt.After(since) {
			cp := *schedule
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeScheduleRepo) ClaimForUpload(ctx context.Context, scheduleID int64, attemptAt time.Time) error {
	schedule, ok := r.schedules[scheduleID]
	if !ok || schedule.Status != models.ScheduleStatusPending {
		return pipeline.ErrConflict
	}
	schedule.Status = models.ScheduleStatusUploading
	schedule.UploadAttemptCount++
	schedule.LastAttemptAt = &attemptAt
	return nil
}

func (r *fakeScheduleRepo) MarkPublished(ctx context.Context, scheduleID int64, videoID, shareURL string) error {
	schedule, ok := r.schedules[scheduleID]
	if !ok || schedule.Status != models.ScheduleStatusUploading {
		return pipeline.ErrConflict
	}
	schedule.Status = models.ScheduleStatusPublished
	schedule.TiktokVideoID = videoID
	schedule.TiktokShareURL = shareURL
	if r.mr != nil {
		r.mr.active[schedule.MediaID] = false
	}
	return nil
}

func (r *fakeScheduleRepo) MarkFailed(ctx context.Context, scheduleID int64, errorMessage string) error {
	schedule, ok := r.schedules[scheduleID]
	if !ok {
		return errors.New("schedule not found")
	}
	schedule.Status = models.ScheduleStatusFailed
	schedule.ErrorMessage = errorMessage
	if r.mr != nil {
		r.mr.active[schedule.MediaID] = false
	}
	return nil
}

func (r *fakeScheduleRepo) Cancel(ctx context.Context, scheduleID, userID int64) error {
	schedule, ok := r.schedules[scheduleID]
	if !ok || schedule.UserID != userID || schedule.Status != models.ScheduleStatusPending {
		return pipeline.ErrConflict
	}
	schedule.Status = models.ScheduleStatusCancelled
	if r.mr != nil {
		r.mr.active[schedule.MediaID] = false
	}
	return nil
}

type fakeSocialAccountRepo struct {
	accounts map[int64]*models.SocialAccount
}

func newFakeSocialAccountRepo() *fakeSocialAccountRepo {
	return &fakeSocialAccountRepo{accounts: make(map[int64]*models.SocialAccount)}
}

func (r *fakeSocialAccountRepo) Create(ctx context.Context, tx *sql.Tx, sa *models.SocialAccount) (int64, error) {
	id := int64(len(r.accounts) + 1)
	cp := *sa
	cp.ID = id
	r.accounts[id] = &cp
	return id, nil
}

func (r *fakeSocialAccountRepo) GetByID(ctx context.Context, id int64) (*models.SocialAccount, error) {
	acc, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeSocialAccountRepo) GetByUserPlatform(ctx context.Context, userID int64, platform string) (*models.SocialAccount, error) {
	for _, acc := range r.accounts {
		if acc.UserID == userID && acc.Platform == platform {
			cp := *acc
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSocialAccountRepo) ListInfoByUserID(ctx context.Context, userID int64) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, acc := range r.accounts {
		if acc.UserID == userID {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSocialAccountRepo) ListExpiringBefore(ctx context.Context, deadline time.Time) ([]*models.SocialAccount, error) {
	var out []*models.SocialAccount
	for _, acc := range r.accounts {
		if acc.TokenExpiresAt.Before(deadline) {
			cp := *acc
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSocialAccountRepo) SetToken(ctx context.Context, userID int64, sa *models.SocialAccount) error {
	for _, acc := range r.accounts {
		if acc.UserID == userID {
			acc.AccessToken = sa.AccessToken
			acc.RefreshToken = sa.RefreshToken
			acc.TokenExpiresAt = sa.TokenExpiresAt
			return nil
		}
	}
	return errors.New("account not found")
}

func (r *fakeSocialAccountRepo) Remove(ctx context.Context, id int64) error {
	delete(r.accounts, id)
	return nil
}

type analyticsKey struct {
	scheduleID int64
	fetchDate  time.Time
}

type fakeAnalyticsRepo struct {
	rows map[analyticsKey]*models.Analytics
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{rows: make(map[analyticsKey]*models.Analytics)}
}

func (r *fakeAnalyticsRepo) Upsert(ctx context.Context, a *models.Analytics) error {
	cp := *a
	r.rows[analyticsKey{a.ScheduleID, a.FetchDate}] = &cp
	return nil
}

func (r *fakeAnalyticsRepo) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.Analytics, error) {
	var out []*models.Analytics
	for _, row := range r.rows {
		if row.ScheduleID == scheduleID {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) ListEngagementSince(ctx context.Context, userID int64, since time.Time) ([]*repository.HourlyEngagement, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) ListUserIDsWithDataSince(ctx context.Context, since time.Time) ([]int64, error) {
	return nil, nil
}

func (r *fakeAnalyticsRepo) SummaryByUserID(ctx context.Context, userID int64) (int64, int64, int64, int64, error) {
	var views, likes, shares, comments int64
	for _, row := range r.rows {
		if row.UserID == userID {
			views += row.Views
			likes += row.Likes
			shares += row.Shares
			comments += row.Comments
		}
	}
	return views, likes, shares, comments, nil
}

// Fakes for the external-service boundary.

type fakeScriptGen struct {
	payload *transfer.ScriptPayload
	err     error
}

func (f *fakeScriptGen) GenerateScript(ctx context.Context, ideaText, targetAudience string) (*transfer.ScriptPayload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

func (f *fakeScriptGen) ModelTag() string { return "fake-llm" }

type fakeSpeech struct {
	audio []byte
	err   error
}

func (f *fakeSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

func (f *fakeSpeech) ModelTag() string { return "fake-tts" }

type fakeVideo struct {
	video []byte
	err   error
}

func (f *fakeVideo) Render(ctx context.Context, script, audioURL string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.video, nil
}

func (f *fakeVideo) ModelTag() string { return "fake-videogen" }

type fakeStore struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (f *fakeStore) Upload(ctx context.Context, key string, file []byte, contentType string) error {
	f.objects[key] = file
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeTiktok struct {
	videoID  string
	shareURL string
	uploads  int
	err      error
	metrics  *transfer.TiktokVideoMetrics
}

func (f *fakeTiktok) TiktokCallback(ctx context.Context, code string, userID int64) error { return nil }

func (f *fakeTiktok) RefreshTiktokToken(ctx context.Context, userID int64, refreshToken string) error {
	return nil
}

func (f *fakeTiktok) UploadVideo(ctx context.Context, acc *models.SocialAccount, videoURL, caption string) (string, string, error) {
	f.uploads++
	if f.err != nil {
		return "", "", f.err
	}
	return f.videoID, f.shareURL, nil
}

func (f *fakeTiktok) FetchVideoMetrics(ctx context.Context, acc *models.SocialAccount, videoID string) (*transfer.TiktokVideoMetrics, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

// Minimal valid magic bytes so format sniffing accepts fake payloads.

func fakeMP3() []byte {
	return append([]byte{0x49, 0x44, 0x33, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, make([]byte, 64)...)
}

func fakeMP4() []byte {
	header := []byte{0x00, 0x00, 0x00, 0x18, 0x66, 0x74, 0x79, 0x70, 0x6D, 0x70, 0x34, 0x32}
	return append(header, make([]byte, 64)...)
}
