package queue

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/clipcast/internal/pipeline"
)

// HandleGeneratePipelineTask runs the full idea-to-media generation
// pipeline for one idea. Record-scoped failures are already written to
// the idea row by the generation service, so the task itself returns
// nil and is never requeued. Configuration errors are surfaced so they
// show up as task failures instead of quietly burning ideas.
func (q *Queue) HandleGeneratePipelineTask(ctx context.Context, task *asynq.Task) error {
	var payload GeneratePipelinePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if err := q.gen.ProcessIdea(ctx, payload.IdeaID); err != nil {
		slog.Error("generation pipeline failed",
			slog.Int64("idea_id", payload.IdeaID),
			slog.String("err", err.Error()))
		if pipeline.IsConfiguration(err) {
			return err
		}
	}

	return nil
}
