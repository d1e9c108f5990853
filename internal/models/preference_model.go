package models

import (
	"time"

	"github.com/lib/pq"
)

type UserPreference struct {
	ID               int64          `db:"id" json:"id"`
	UserID           int64          `db:"user_id" json:"user_id"`
	OptimalPostTimes pq.StringArray `db:"optimal_post_times" json:"optimal_post_times"`
	Timezone         string         `db:"timezone" json:"timezone"`
	ContentStyle     string         `db:"content_style" json:"content_style"`
	AutoSchedule     bool           `db:"auto_schedule" json:"auto_schedule"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}
