package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

type PostRepository interface {
	Create(ctx context.Context, post *models.ScheduledPost) error
	GetByID(ctx context.Context, id string) (*models.ScheduledPost, error)
	List(ctx context.Context) ([]*models.ScheduledPost, error)
	ListDuePending(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error)
	ClaimPending(ctx context.Context, id string) (bool, error)
	UpdateStatus(ctx context.Context, id, status, errMsg, externalID string) error
	ReleaseStaleClaims(ctx context.Context, before time.Time) (int64, error)
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, media_url, caption, schedule_for, status, error, external_id, created_at, updated_at`

func (r *postRepository) Create(ctx context.Context, post *models.ScheduledPost) error {
	query := `
		INSERT INTO scheduled_posts (id, media_url, caption, schedule_for, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query, post.ID, post.MediaURL, post.Caption, post.ScheduleFor, post.Status, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)

	var post models.ScheduledPost
	err := row.Scan(&post.ID, &post.MediaURL, &post.Caption, &post.ScheduleFor, &post.Status, &post.Error, &post.ExternalID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts ORDER BY schedule_for DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *postRepository) ListDuePending(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error) {
	query := `SELECT ` + postColumns + ` FROM scheduled_posts WHERE status = $1 AND schedule_for <= $2`

	rows, err := r.db.QueryContext(ctx, query, models.PostStatusPending, asOf)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

// ClaimPending flips a post from PENDING to PUBLISHING. Returns false
// when the post is gone or another sweep already claimed it.
func (r *postRepository) ClaimPending(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	res, err := r.db.ExecContext(ctx, query, models.PostStatusPublishing, time.Now(), id, models.PostStatusPending)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *postRepository) UpdateStatus(ctx context.Context, id, status, errMsg, externalID string) error {
	query := `
		UPDATE scheduled_posts
		SET status = $1, error = $2, external_id = $3, updated_at = $4
		WHERE id = $5
	`

	res, err := r.db.ExecContext(ctx, query, status, errMsg, externalID, time.Now(), id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostNotFound
	}
	return nil
}

// ReleaseStaleClaims returns PUBLISHING posts abandoned before the
// cutoff (a crashed sweep) to PENDING so a later sweep retries them.
func (r *postRepository) ReleaseStaleClaims(ctx context.Context, before time.Time) (int64, error) {
	query := `
		UPDATE scheduled_posts
		SET status = $1, updated_at = $2
		WHERE status = $3 AND updated_at < $4
	`

	res, err := r.db.ExecContext(ctx, query, models.PostStatusPending, time.Now(), models.PostStatusPublishing, before)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return res.RowsAffected()
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM scheduled_posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)

	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func scanPosts(rows *sql.Rows) ([]*models.ScheduledPost, error) {
	var posts []*models.ScheduledPost
	for rows.Next() {
		var post models.ScheduledPost
		err := rows.Scan(&post.ID, &post.MediaURL, &post.Caption, &post.ScheduleFor, &post.Status, &post.Error, &post.ExternalID, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}
