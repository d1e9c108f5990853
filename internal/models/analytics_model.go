package models

import "time"

type Analytics struct {
	ID             int64     `db:"id" json:"id"`
	ScheduleID     int64     `db:"schedule_id" json:"schedule_id"`
	UserID         int64     `db:"user_id" json:"user_id"`
	TiktokVideoID  string    `db:"tiktok_video_id" json:"tiktok_video_id"`
	Views          int64     `db:"views" json:"views"`
	Likes          int64     `db:"likes" json:"likes"`
	Shares         int64     `db:"shares" json:"shares"`
	Comments       int64     `db:"comments" json:"comments"`
	EngagementRate float64   `db:"engagement_rate" json:"engagement_rate"`
	Revenue        float64   `db:"revenue" json:"revenue"`
	FetchDate      time.Time `db:"fetch_date" json:"fetch_date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
