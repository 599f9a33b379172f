package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/service"
)

// PublishSweepJob advances due pending posts to a terminal state. One
// sweep lists due posts, fetches credentials once, then publishes each
// post sequentially; a failed post is recorded as FAILED and does not
// stop the rest of the batch.
type PublishSweepJob struct {
	pr       repository.PostRepository
	cs       service.CredentialStore
	ig       service.Publisher
	claimTTL time.Duration
}

func NewPublishSweepJob(
	pr repository.PostRepository,
	cs service.CredentialStore,
	ig service.Publisher,
	claimTTL time.Duration) *PublishSweepJob {
	return &PublishSweepJob{
		pr:       pr,
		cs:       cs,
		ig:       ig,
		claimTTL: claimTTL,
	}
}

// Sweep runs one pass. When no valid credentials are stored the whole
// sweep aborts with ErrCredentialsUnavailable before any post is
// touched; pending posts stay pending for the next invocation.
func (j *PublishSweepJob) Sweep(ctx context.Context) error {
	now := time.Now()

	due, err := j.pr.ListDuePending(ctx, now)
	if err != nil {
		return fmt.Errorf("error listing due posts: %w", err)
	}
	if len(due) == 0 {
		return nil
	}

	creds, err := j.cs.GetCredentials(ctx)
	if err != nil {
		return err
	}

	for _, post := range due {
		j.publishOne(ctx, post, creds)
	}
	return nil
}

// PublishPost publishes a single post if it is still pending and due.
// Entry point for the delayed queue task; the pending check makes the
// queue and the cron sweep safe to race.
func (j *PublishSweepJob) PublishPost(ctx context.Context, postID string) error {
	post, err := j.pr.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil || !post.Due(time.Now()) {
		return nil
	}

	creds, err := j.cs.GetCredentials(ctx)
	if err != nil {
		return err
	}

	j.publishOne(ctx, post, creds)
	return nil
}

func (j *PublishSweepJob) publishOne(ctx context.Context, post *models.ScheduledPost, creds *models.Credentials) {
	claimed, err := j.pr.ClaimPending(ctx, post.ID)
	if err != nil {
		slog.Error("unable to claim post", "post_id", post.ID, "error", err)
		return
	}
	if !claimed {
		// Already taken by an overlapping sweep or queue worker.
		return
	}

	externalID, err := j.ig.Publish(ctx, creds, post.MediaURL, post.Caption)
	if err != nil {
		slog.Info("publish failed", "post_id", post.ID, "error", err)
		if uerr := j.pr.UpdateStatus(ctx, post.ID, models.PostStatusFailed, err.Error(), ""); uerr != nil {
			slog.Error("unable to mark post failed", "post_id", post.ID, "error", uerr)
		}
		return
	}

	if err := j.pr.UpdateStatus(ctx, post.ID, models.PostStatusPosted, "", externalID); err != nil {
		slog.Error("unable to mark post posted", "post_id", post.ID, "error", err)
	}
}

// Run is the cron entrypoint.
func (j *PublishSweepJob) Run() {
	ctx := context.Background()

	if err := j.Sweep(ctx); err != nil {
		if errors.Is(err, service.ErrCredentialsUnavailable) {
			slog.Info("sweep skipped", "error", err)
			return
		}
		slog.Error("sweep failed", "error", err)
	}
}

// ReleaseStaleClaims is the cron entrypoint for the janitor pass: posts
// stuck in PUBLISHING longer than the claim TTL go back to PENDING.
func (j *PublishSweepJob) ReleaseStaleClaims() {
	ctx := context.Background()

	released, err := j.pr.ReleaseStaleClaims(ctx, time.Now().Add(-j.claimTTL))
	if err != nil {
		slog.Error("unable to release stale claims", "error", err)
		return
	}
	if released > 0 {
		slog.Info("released stale claims", "count", released)
	}
}
