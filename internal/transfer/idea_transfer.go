package transfer

type IdeaCreation struct {
	Text           string   `json:"text"`
	Priority       int      `json:"priority"`
	TargetAudience string   `json:"target_audience"`
	Keywords       []string `json:"keywords"`
}

type ScheduleCreation struct {
	MediaID       int64  `json:"media_id"`
	ScheduledTime string `json:"scheduled_time"`
}

type PostNowRequest struct {
	MediaID int64 `json:"media_id"`
}

type PreferenceUpdate struct {
	Timezone     string `json:"timezone"`
	ContentStyle string `json:"content_style"`
	AutoSchedule bool   `json:"auto_schedule"`
}

type PipelineStats struct {
	TotalIdeas int64 `json:"total_ideas"`
	Queued     int64 `json:"queued"`
	Processing int64 `json:"processing"`
	MediaReady int64 `json:"media_ready"`
	Scheduled  int64 `json:"scheduled"`
	Published  int64 `json:"published"`
	Failed     int64 `json:"failed"`
}

type AnalyticsSummary struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
}
