package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
	"github.com/maheshrc27/postpilot/internal/repository"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_Schedule(t *testing.T) {
	ctx := context.Background()
	pr := repository.NewMemoryPostRepository()
	s := NewPostService(pr)

	post, err := s.Schedule(ctx, &transfer.ScheduleRequest{
		MediaURL:    "https://example.com/a.jpg",
		Caption:     "hello",
		ScheduleFor: "2024-03-15T09:00:00Z",
	})
	require.NoError(t, err)
	require.NotNil(t, post)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, "https://example.com/a.jpg", post.MediaURL)
	assert.Equal(t, "hello", post.Caption)
	assert.Equal(t, models.PostStatusPending, post.Status)

	want, _ := time.Parse(time.RFC3339, "2024-03-15T09:00:00Z")
	assert.True(t, post.ScheduleFor.Equal(want))

	stored, err := pr.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.PostStatusPending, stored.Status)
}

func TestPostService_ScheduleValidation(t *testing.T) {
	tests := []struct {
		name  string
		req   transfer.ScheduleRequest
		field string
	}{
		{
			name:  "missing media url",
			req:   transfer.ScheduleRequest{ScheduleFor: "2024-03-15T09:00:00Z"},
			field: "mediaUrl",
		},
		{
			name:  "invalid media url",
			req:   transfer.ScheduleRequest{MediaURL: "not a url", ScheduleFor: "2024-03-15T09:00:00Z"},
			field: "mediaUrl",
		},
		{
			name:  "non-http scheme",
			req:   transfer.ScheduleRequest{MediaURL: "ftp://example.com/a.jpg", ScheduleFor: "2024-03-15T09:00:00Z"},
			field: "mediaUrl",
		},
		{
			name:  "missing schedule time",
			req:   transfer.ScheduleRequest{MediaURL: "https://example.com/a.jpg"},
			field: "scheduleFor",
		},
		{
			name:  "malformed schedule time",
			req:   transfer.ScheduleRequest{MediaURL: "https://example.com/a.jpg", ScheduleFor: "tomorrow"},
			field: "scheduleFor",
		},
	}

	s := NewPostService(repository.NewMemoryPostRepository())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Schedule(context.Background(), &tt.req)
			require.Error(t, err)

			var verrs transfer.ValidationErrors
			require.True(t, errors.As(err, &verrs))

			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestPostService_ScheduleAllowsEmptyCaption(t *testing.T) {
	s := NewPostService(repository.NewMemoryPostRepository())

	post, err := s.Schedule(context.Background(), &transfer.ScheduleRequest{
		MediaURL:    "https://example.com/a.jpg",
		ScheduleFor: "2024-03-15T09:00:00Z",
	})
	require.NoError(t, err)
	assert.Empty(t, post.Caption)
}

func TestPostService_ListAndRemove(t *testing.T) {
	ctx := context.Background()
	pr := repository.NewMemoryPostRepository()
	s := NewPostService(pr)

	first, err := s.Schedule(ctx, &transfer.ScheduleRequest{
		MediaURL:    "https://example.com/a.jpg",
		ScheduleFor: "2024-03-15T09:00:00Z",
	})
	require.NoError(t, err)

	second, err := s.Schedule(ctx, &transfer.ScheduleRequest{
		MediaURL:    "https://example.com/b.jpg",
		ScheduleFor: "2024-03-16T09:00:00Z",
	})
	require.NoError(t, err)

	posts, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	require.NoError(t, s.Remove(ctx, first.ID))

	posts, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, second.ID, posts[0].ID)
}
