package models

import "time"

type Script struct {
	ID                int64     `db:"id" json:"id"`
	IdeaID            int64     `db:"idea_id" json:"idea_id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	Content           string    `db:"content" json:"content"`
	Hook              string    `db:"hook" json:"hook"`
	CallToAction      string    `db:"call_to_action" json:"call_to_action"`
	EstimatedDuration int       `db:"estimated_duration" json:"estimated_duration"`
	AiModel           string    `db:"ai_model" json:"ai_model"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
