package service

import (
	"context"
	"log/slog"
	"strings"

	"artemis/internal/feed"
	"artemis/internal/models"
	"artemis/internal/realtime"
	"artemis/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	store       *feed.Store
	publisher   EventPublisher
}

type CreateCommentInput struct {
	UserID     string
	AuthorName string
	PostID     uint
	Content    string
}

type DeleteCommentInput struct {
	UserID    string
	CommentID uint
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	store *feed.Store,
	publisher EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		store:       store,
		publisher:   publisher,
	}
}

const maxCommentLen = 10000

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	// The post must still exist; commenting on a deleted post is a 404.
	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:     in.PostID,
		Content:    content,
		UserID:     in.UserID,
		AuthorName: in.AuthorName,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.announce(ctx, realtime.CommentEvent(realtime.ChangeInsert, comment))
	return comment, nil
}

func (s *CommentService) GetComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.UserID != in.UserID {
		return models.NewAccessDeniedError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, in.CommentID); err != nil {
		return err
	}

	s.announce(ctx, realtime.CommentDeleteEvent(in.CommentID))
	return nil
}

func (s *CommentService) announce(ctx context.Context, e realtime.Event) {
	if s.store != nil {
		s.store.Apply(e)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		slog.Error("failed to publish change event", "table", e.Table, "type", e.Type, "id", e.ID, "error", err)
	}
}
