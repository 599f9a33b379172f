package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

type PostService interface {
	Schedule(ctx context.Context, req *transfer.ScheduleRequest) (*models.ScheduledPost, error)
	List(ctx context.Context) ([]*models.ScheduledPost, error)
	PostInfo(ctx context.Context, id string) (*models.ScheduledPost, error)
	Remove(ctx context.Context, id string) error
}

type postService struct {
	pr repository.PostRepository
}

func NewPostService(pr repository.PostRepository) PostService {
	return &postService{pr: pr}
}

func (s *postService) Schedule(ctx context.Context, req *transfer.ScheduleRequest) (*models.ScheduledPost, error) {
	scheduleFor, errs := req.Validate()
	if errs != nil {
		slog.Info(errs.Error())
		return nil, errs
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("error generating post id: %w", err)
	}

	now := time.Now()
	post := &models.ScheduledPost{
		ID:          id,
		MediaURL:    req.MediaURL,
		Caption:     req.Caption,
		ScheduleFor: scheduleFor,
		Status:      models.PostStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.pr.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	return post, nil
}

func (s *postService) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	return s.pr.List(ctx)
}

func (s *postService) PostInfo(ctx context.Context, id string) (*models.ScheduledPost, error) {
	return s.pr.GetByID(ctx, id)
}

func (s *postService) Remove(ctx context.Context, id string) error {
	return s.pr.Remove(ctx, id)
}
