package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

// The credential set is a singleton row keyed by a fixed id.
const credentialsID = "instagram"

type CredentialsRepository interface {
	Get(ctx context.Context) (*models.Credentials, error)
	Upsert(ctx context.Context, creds *models.Credentials) error
}

type credentialsRepository struct {
	db *sql.DB
}

func NewCredentialsRepository(db *sql.DB) CredentialsRepository {
	return &credentialsRepository{db: db}
}

func (r *credentialsRepository) Get(ctx context.Context) (*models.Credentials, error) {
	query := `SELECT access_token, user_id, expires_at FROM instagram_credentials WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, credentialsID)

	var creds models.Credentials
	err := row.Scan(&creds.AccessToken, &creds.UserID, &creds.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}

	return &creds, nil
}

func (r *credentialsRepository) Upsert(ctx context.Context, creds *models.Credentials) error {
	query := `
		INSERT INTO instagram_credentials (id, access_token, user_id, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			user_id = EXCLUDED.user_id,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, credentialsID, creds.AccessToken, creds.UserID, creds.ExpiresAt, time.Now())
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
