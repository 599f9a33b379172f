package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/pkg/utils"
)

var ErrCredentialsUnavailable = errors.New("instagram credentials not found or expired")

type CredentialStore interface {
	// GetCredentials returns the stored credential set with the token
	// decrypted, or ErrCredentialsUnavailable when none is stored or it
	// has expired.
	GetCredentials(ctx context.Context) (*models.Credentials, error)
	SetCredentials(ctx context.Context, accessToken, userID string, expiresAt time.Time) error
}

type credentialStore struct {
	cfg config.Config
	cr  repository.CredentialsRepository
}

func NewCredentialStore(cfg config.Config, cr repository.CredentialsRepository) CredentialStore {
	return &credentialStore{cfg: cfg, cr: cr}
}

func (s *credentialStore) GetCredentials(ctx context.Context) (*models.Credentials, error) {
	creds, err := s.cr.Get(ctx)
	if err != nil {
		return nil, err
	}
	if creds == nil || !creds.Valid(time.Now()) {
		return nil, ErrCredentialsUnavailable
	}

	accessToken, err := utils.Decrypt(creds.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		slog.Error("unable to decrypt access token", "error", err)
		return nil, err
	}

	return &models.Credentials{
		AccessToken: accessToken,
		UserID:      creds.UserID,
		ExpiresAt:   creds.ExpiresAt,
	}, nil
}

func (s *credentialStore) SetCredentials(ctx context.Context, accessToken, userID string, expiresAt time.Time) error {
	encrypted, err := utils.Encrypt([]byte(accessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return err
	}

	return s.cr.Upsert(ctx, &models.Credentials{
		AccessToken: encrypted,
		UserID:      userID,
		ExpiresAt:   expiresAt,
	})
}
