package job

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/maheshrc27/clipcast/internal/models"
	"github.com/maheshrc27/clipcast/internal/pipeline"
	"github.com/maheshrc27/clipcast/internal/repository"
	"github.com/maheshrc27/clipcast/internal/transfer"
)

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
	return nil, nil
}

func (r *fakeIdeaRepo) CheckByUserID(ctx context.Context, ideaID, userID int64) (bool, error) {
	return false, nil
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
	return r.UpdateStatusFrom(ctx, models.IdeaStatusQueued, models.IdeaStatusProcessing, ideaID)
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
		if idea.Status != models.IdeaStatusPublished || !idea.UpdatedAt.Before(cutoff) {
			continue
		}
		recycled := false
		for _, other := range r.ideas {
			if other.UserID == idea.UserID && other.Text == derivedPrefix+idea.Text {
				recycled = true
				break
			}
		}
		if !recycled {
			cp := *idea
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeIdeaRepo) CountByStatus(ctx context.Context, userID int64) (map[string]int64, error) {
	return nil, nil
}

type fakeMediaRepo struct {
	media  map[int64]*models.Media
	active map[int64]bool
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{
		media:  make(map[int64]*models.Media),
		active: make(map[int64]bool),
	}
}

func (r *fakeMediaRepo) add(media *models.Media) {
	cp := *media
	r.media[cp.ID] = &cp
}

func (r *fakeMediaRepo) Create(ctx context.Context, tx *sql.Tx, media *models.Media) (int64, error) {
	r.add(media)
	return media.ID, nil
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
	return nil, nil
}

func (r *fakeMediaRepo) MarkReady(ctx context.Context, mediaID int64, fileKey, fileURL string, fileSize int64, duration int, format string) error {
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
	return nil, nil
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
	return nil
}

type fakePreferenceRepo struct {
	prefs   map[int64]*models.UserPreference
	updated map[int64][]string
}

func newFakePreferenceRepo() *fakePreferenceRepo {
	return &fakePreferenceRepo{
		prefs:   make(map[int64]*models.UserPreference),
		updated: make(map[int64][]string),
	}
}

func (r *fakePreferenceRepo) GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, bool, error) {
	pref, ok := r.prefs[userID]
	if !ok {
		return nil, false, nil
	}
	cp := *pref
	return &cp, true, nil
}

func (r *fakePreferenceRepo) Upsert(ctx context.Context, p *models.UserPreference) error {
	cp := *p
	r.prefs[p.UserID] = &cp
	return nil
}

// UpdateOptimalTimes mirrors the SQL upsert: a missing row is created
// with default settings rather than the write matching nothing.
func (r *fakePreferenceRepo) UpdateOptimalTimes(ctx context.Context, userID int64, optimalTimes []string) error {
	r.updated[userID] = optimalTimes
	pref, ok := r.prefs[userID]
	if !ok {
		pref = &models.UserPreference{
			UserID:       userID,
			Timezone:     "UTC",
			AutoSchedule: true,
		}
		r.prefs[userID] = pref
	}
	pref.OptimalPostTimes = optimalTimes
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
	return nil, nil
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
	return nil, nil
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
	return nil
}

func (r *fakeSocialAccountRepo) Remove(ctx context.Context, id int64) error {
	delete(r.accounts, id)
	return nil
}

type fakeAnalyticsRepo struct {
	rows    map[int64]map[string]*models.Analytics
	samples map[int64][]*repository.HourlyEngagement
}

func newFakeAnalyticsRepo() *fakeAnalyticsRepo {
	return &fakeAnalyticsRepo{
		rows:    make(map[int64]map[string]*models.Analytics),
		samples: make(map[int64][]*repository.HourlyEngagement),
	}
}

func (r *fakeAnalyticsRepo) Upsert(ctx context.Context, a *models.Analytics) error {
	day := a.FetchDate.Format("2006-01-02")
	if r.rows[a.ScheduleID] == nil {
		r.rows[a.ScheduleID] = make(map[string]*models.Analytics)
	}
	cp := *a
	r.rows[a.ScheduleID][day] = &cp
	return nil
}

func (r *fakeAnalyticsRepo) GetByScheduleID(ctx context.Context, scheduleID int64) ([]*models.Analytics, error) {
	var out []*models.Analytics
	for _, row := range r.rows[scheduleID] {
		cp := *row
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) ListEngagementSince(ctx context.Context, userID int64, since time.Time) ([]*repository.HourlyEngagement, error) {
	return r.samples[userID], nil
}

func (r *fakeAnalyticsRepo) ListUserIDsWithDataSince(ctx context.Context, since time.Time) ([]int64, error) {
	var out []int64
	for userID := range r.samples {
		out = append(out, userID)
	}
	return out, nil
}

func (r *fakeAnalyticsRepo) SummaryByUserID(ctx context.Context, userID int64) (int64, int64, int64, int64, error) {
	return 0, 0, 0, 0, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []int64
}

func (f *fakePublisher) PublishSchedule(ctx context.Context, scheduleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, scheduleID)
	return nil
}

type fakeTiktok struct {
	metrics *transfer.TiktokVideoMetrics
	err     error
	fetches int
}

func (f *fakeTiktok) TiktokCallback(ctx context.Context, code string, userID int64) error { return nil }

func (f *fakeTiktok) RefreshTiktokToken(ctx context.Context, userID int64, refreshToken string) error {
	return nil
}

func (f *fakeTiktok) UploadVideo(ctx context.Context, acc *models.SocialAccount, videoURL, caption string) (string, string, error) {
	return "", "", nil
}

func (f *fakeTiktok) FetchVideoMetrics(ctx context.Context, acc *models.SocialAccount, videoID string) (*transfer.TiktokVideoMetrics, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

type fakeEnqueuer struct {
	enqueued []int64
}

func (f *fakeEnqueuer) EnqueueGeneration(ctx context.Context, ideaID int64) error {
	f.enqueued = append(f.enqueued, ideaID)
	return nil
}
