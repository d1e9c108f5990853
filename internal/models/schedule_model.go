package models

import "time"

type Schedule struct {
	ID                 int64      `db:"id" json:"id"`
	MediaID            int64      `db:"media_id" json:"media_id"`
	IdeaID             int64      `db:"idea_id" json:"idea_id"`
	UserID             int64      `db:"user_id" json:"user_id"`
	ScheduledTime      time.Time  `db:"scheduled_time" json:"scheduled_time"`
	Status             string     `db:"status" json:"status"`
	TiktokVideoID      string     `db:"tiktok_video_id" json:"tiktok_video_id"`
	TiktokShareURL     string     `db:"tiktok_share_url" json:"tiktok_share_url"`
	UploadAttemptCount int        `db:"upload_attempt_count" json:"upload_attempt_count"`
	LastAttemptAt      *time.Time `db:"last_attempt_at" json:"last_attempt_at"`
	ErrorMessage       string     `db:"error_message" json:"error_message"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	ScheduleStatusPending   = "pending"
	ScheduleStatusUploading = "uploading"
	ScheduleStatusPublished = "published"
	ScheduleStatusFailed    = "failed"
	ScheduleStatusCancelled = "cancelled"
)
