package queue

import (
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/clipcast/internal/service"
)

type Queue struct {
	client *asynq.Client
	gen    service.GenerationService
}

func NewQueue(client *asynq.Client, gen service.GenerationService) *Queue {
	return &Queue{
		client: client,
		gen:    gen,
	}
}

const TaskTypeGeneratePipeline = "generate:pipeline"

type GeneratePipelinePayload struct {
	IdeaID int64 `json:"idea_id"`
}
