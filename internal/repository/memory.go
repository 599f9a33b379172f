package repository

import (
	"context"
	"sync"
	"time"

	"github.com/maheshrc27/postpilot/internal/models"
)

// In-memory implementations of the repository interfaces. Used when no
// POSTGRES_URI is configured and as the store in tests; callers see the
// same contract either way.

type memoryPostRepository struct {
	mu    sync.Mutex
	posts map[string]*models.ScheduledPost
}

func NewMemoryPostRepository() PostRepository {
	return &memoryPostRepository{posts: make(map[string]*models.ScheduledPost)}
}

func (r *memoryPostRepository) Create(ctx context.Context, post *models.ScheduledPost) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *memoryPostRepository) GetByID(ctx context.Context, id string) (*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *post
	return &cp, nil
}

func (r *memoryPostRepository) List(ctx context.Context) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts := make([]*models.ScheduledPost, 0, len(r.posts))
	for _, post := range r.posts {
		cp := *post
		posts = append(posts, &cp)
	}
	return posts, nil
}

func (r *memoryPostRepository) ListDuePending(ctx context.Context, asOf time.Time) ([]*models.ScheduledPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*models.ScheduledPost
	for _, post := range r.posts {
		if post.Due(asOf) {
			cp := *post
			due = append(due, &cp)
		}
	}
	return due, nil
}

func (r *memoryPostRepository) ClaimPending(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok || post.Status != models.PostStatusPending {
		return false, nil
	}
	post.Status = models.PostStatusPublishing
	post.UpdatedAt = time.Now()
	return true, nil
}

func (r *memoryPostRepository) UpdateStatus(ctx context.Context, id, status, errMsg, externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return ErrPostNotFound
	}
	post.Status = status
	post.Error = errMsg
	post.ExternalID = externalID
	post.UpdatedAt = time.Now()
	return nil
}

func (r *memoryPostRepository) ReleaseStaleClaims(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var released int64
	for _, post := range r.posts {
		if post.Status == models.PostStatusPublishing && post.UpdatedAt.Before(before) {
			post.Status = models.PostStatusPending
			post.UpdatedAt = time.Now()
			released++
		}
	}
	return released, nil
}

func (r *memoryPostRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.posts, id)
	return nil
}

type memoryCredentialsRepository struct {
	mu    sync.Mutex
	creds *models.Credentials
}

func NewMemoryCredentialsRepository() CredentialsRepository {
	return &memoryCredentialsRepository{}
}

func (r *memoryCredentialsRepository) Get(ctx context.Context) (*models.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.creds == nil {
		return nil, nil
	}
	cp := *r.creds
	return &cp, nil
}

func (r *memoryCredentialsRepository) Upsert(ctx context.Context, creds *models.Credentials) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *creds
	r.creds = &cp
	return nil
}
