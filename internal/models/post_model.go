package models

import "time"

type ScheduledPost struct {
	ID          string    `db:"id" json:"id"`
	MediaURL    string    `db:"media_url" json:"mediaUrl"`
	Caption     string    `db:"caption" json:"caption"`
	ScheduleFor time.Time `db:"schedule_for" json:"scheduleFor"`
	Status      string    `db:"status" json:"status"`
	Error       string    `db:"error" json:"error,omitempty"`
	ExternalID  string    `db:"external_id" json:"externalId,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	PostStatusPending    = "PENDING"
	PostStatusPublishing = "PUBLISHING"
	PostStatusPosted     = "POSTED"
	PostStatusFailed     = "FAILED"
)

// Due reports whether the post is eligible for publishing at asOf.
func (p *ScheduledPost) Due(asOf time.Time) bool {
	return p.Status == PostStatusPending && !p.ScheduleFor.After(asOf)
}
