package queue

import (
	job "github.com/maheshrc27/postpilot/internal/jobs"
)

type Queue struct {
	sweep *job.PublishSweepJob
}

func NewQueue(sweep *job.PublishSweepJob) *Queue {
	return &Queue{sweep: sweep}
}

const TaskTypePublishPost = "publish:post"

type PublishPostPayload struct {
	PostID string `json:"post_id"`
}
