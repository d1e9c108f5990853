package models

import "time"

type Media struct {
	ID               int64     `db:"id" json:"id"`
	ScriptID         int64     `db:"script_id" json:"script_id"`
	IdeaID           int64     `db:"idea_id" json:"idea_id"`
	UserID           int64     `db:"user_id" json:"user_id"`
	Kind             string    `db:"kind" json:"kind"`
	Status           string    `db:"status" json:"status"`
	FileKey          string    `db:"file_key" json:"file_key"`
	FileURL          string    `db:"file_url" json:"file_url"`
	FileSize         int64     `db:"file_size" json:"file_size"`
	Duration         int       `db:"duration" json:"duration"`
	Format           string    `db:"format" json:"format"`
	AiModel          string    `db:"ai_model" json:"ai_model"`
	GenerationParams []byte    `db:"generation_params" json:"generation_params"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

const (
	MediaKindAudio = "audio"
	MediaKindVideo = "video"
)

const (
	MediaStatusGenerating = "generating"
	MediaStatusReady      = "ready"
	MediaStatusUploaded   = "uploaded"
	MediaStatusDeleted    = "deleted"
	MediaStatusFailed     = "failed"
)
