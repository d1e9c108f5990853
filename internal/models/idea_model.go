package models

import (
	"time"

	"github.com/lib/pq"
)

type Idea struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	Text           string         `db:"text" json:"text"`
	Status         string         `db:"status" json:"status"`
	Priority       int            `db:"priority" json:"priority"`
	TargetAudience string         `db:"target_audience" json:"target_audience"`
	Keywords       pq.StringArray `db:"keywords" json:"keywords"`
	ErrorMessage   string         `db:"error_message" json:"error_message"`
	RetryCount     int            `db:"retry_count" json:"retry_count"`
	ProcessedAt    *time.Time     `db:"processed_at" json:"processed_at"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	IdeaStatusQueued          = "queued"
	IdeaStatusProcessing      = "processing"
	IdeaStatusScriptGenerated = "script_generated"
	IdeaStatusMediaReady      = "media_ready"
	IdeaStatusScheduled       = "scheduled"
	IdeaStatusPublished       = "published"
	IdeaStatusFailed          = "failed"
)

const (
	IdeaPriorityNormal = 1
	IdeaPriorityHigh   = 2
	IdeaPriorityUrgent = 3
)
