package service

import (
	"context"

	"artemis/internal/models"
	"artemis/internal/realtime"
)

// Function-field stubs so each test overrides only what it needs.

type stubPostRepo struct {
	create             func(ctx context.Context, post *models.Post) error
	getByID            func(ctx context.Context, id uint) (*models.Post, error)
	list               func(ctx context.Context) ([]*models.Post, error)
	listByUser         func(ctx context.Context, userID string) ([]*models.Post, error)
	search             func(ctx context.Context, query string) ([]*models.Post, error)
	update             func(ctx context.Context, post *models.Post) error
	deleteWithComments func(ctx context.Context, id uint) error
	incrementUpvotes   func(ctx context.Context, id uint) (*models.Post, error)
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	return s.create(ctx, post)
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByID(ctx, id)
}

func (s *stubPostRepo) List(ctx context.Context) ([]*models.Post, error) {
	return s.list(ctx)
}

func (s *stubPostRepo) ListByUser(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.listByUser(ctx, userID)
}

func (s *stubPostRepo) Search(ctx context.Context, query string) ([]*models.Post, error) {
	return s.search(ctx, query)
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	return s.update(ctx, post)
}

func (s *stubPostRepo) DeleteWithComments(ctx context.Context, id uint) error {
	return s.deleteWithComments(ctx, id)
}

func (s *stubPostRepo) IncrementUpvotes(ctx context.Context, id uint) (*models.Post, error) {
	return s.incrementUpvotes(ctx, id)
}

type stubCommentRepo struct {
	create     func(ctx context.Context, comment *models.Comment) error
	getByID    func(ctx context.Context, id uint) (*models.Comment, error)
	listByPost func(ctx context.Context, postID uint) ([]*models.Comment, error)
	list       func(ctx context.Context) ([]*models.Comment, error)
	remove     func(ctx context.Context, id uint) error
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	return s.create(ctx, comment)
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByID(ctx, id)
}

func (s *stubCommentRepo) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPost(ctx, postID)
}

func (s *stubCommentRepo) List(ctx context.Context) ([]*models.Comment, error) {
	return s.list(ctx)
}

func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	return s.remove(ctx, id)
}

type stubProfileRepo struct {
	getByID    func(ctx context.Context, id string) (*models.UserProfile, error)
	getByEmail func(ctx context.Context, email string) (*models.UserProfile, error)
	create     func(ctx context.Context, profile *models.UserProfile) error
	update     func(ctx context.Context, profile *models.UserProfile) error
}

func (s *stubProfileRepo) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	return s.getByID(ctx, id)
}

func (s *stubProfileRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	return s.getByEmail(ctx, email)
}

func (s *stubProfileRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	return s.create(ctx, profile)
}

func (s *stubProfileRepo) Update(ctx context.Context, profile *models.UserProfile) error {
	return s.update(ctx, profile)
}

// capturePublisher records published events.
type capturePublisher struct {
	events []realtime.Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, e realtime.Event) error {
	p.events = append(p.events, e)
	return p.err
}
