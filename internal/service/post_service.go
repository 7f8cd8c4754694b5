// Package service implements the application's business rules on top of the
// repositories: validation, ownership checks, the optimistic mirror patch and
// the change-event publish that follows every successful write.
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

// EventPublisher pushes a change event to every connected session.
type EventPublisher interface {
	Publish(ctx context.Context, e realtime.Event) error
}

type PostService struct {
	postRepo  repository.PostRepository
	store     *feed.Store
	publisher EventPublisher
}

type CreatePostInput struct {
	UserID     string
	AuthorName string
	Title      string
	Content    string
	ImageURL   string
	Flag       string
	RepostOfID *uint
}

// UpdatePostInput carries the mutable post fields. Nil means "keep the
// current value"; an explicit empty string clears the field. Title cannot be
// cleared, so omitted and empty both keep it.
type UpdatePostInput struct {
	UserID   string
	PostID   uint
	Title    string
	Content  *string
	ImageURL *string
	Flag     *string
}

type DeletePostInput struct {
	UserID string
	PostID uint
}

func NewPostService(postRepo repository.PostRepository, store *feed.Store, publisher EventPublisher) *PostService {
	return &PostService{
		postRepo:  postRepo,
		store:     store,
		publisher: publisher,
	}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	// The flag is optional; an unflagged post stays unflagged so it never
	// matches a category filter.
	flag := models.PostFlag(in.Flag)
	if in.Flag != "" && !flag.Valid() {
		return nil, models.NewValidationError("Invalid flag")
	}

	post := &models.Post{
		Title:      title,
		Content:    in.Content,
		ImageURL:   strings.TrimSpace(in.ImageURL),
		Flag:       flag,
		UserID:     in.UserID,
		AuthorName: in.AuthorName,
	}

	if in.RepostOfID != nil {
		source, err := s.postRepo.GetByID(ctx, *in.RepostOfID)
		if err != nil {
			return nil, err
		}
		// Reposting a repost points at the original, so chains stay one hop.
		if source.RepostOfID != nil {
			post.RepostOfID = source.RepostOfID
		} else {
			post.RepostOfID = &source.ID
		}
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	// Read back so RepostOf is resolved for the event payload.
	created, err := s.postRepo.GetByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, realtime.PostEvent(realtime.ChangeInsert, created))
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) GetUserPosts(ctx context.Context, userID string) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

func (s *PostService) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.Search(ctx, query)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewAccessDeniedError("You can only update your own posts")
	}

	if title := strings.TrimSpace(in.Title); title != "" {
		if len(title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = title
	}
	if in.Content != nil {
		if len(*in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = *in.Content
	}
	if in.ImageURL != nil {
		post.ImageURL = strings.TrimSpace(*in.ImageURL)
	}
	if in.Flag != nil {
		flag := models.PostFlag(*in.Flag)
		if *in.Flag != "" && !flag.Valid() {
			return nil, models.NewValidationError("Invalid flag")
		}
		post.Flag = flag
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.announce(ctx, realtime.PostEvent(realtime.ChangeUpdate, post))
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if post.UserID != in.UserID {
		return models.NewAccessDeniedError("You can only delete your own posts")
	}

	if err := s.postRepo.DeleteWithComments(ctx, in.PostID); err != nil {
		return err
	}

	s.announce(ctx, realtime.PostDeleteEvent(in.PostID))
	return nil
}

// UpvotePost applies upvotes+1 on the backend and patches the local mirror
// with the returned count. Upvotes are monotonic; there is no undo.
func (s *PostService) UpvotePost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.IncrementUpvotes(ctx, id)
	if err != nil {
		return nil, err
	}

	s.announce(ctx, realtime.PostEvent(realtime.ChangeUpdate, post))
	return post, nil
}

// announce patches the local mirror immediately and broadcasts the event.
// Delivery is best-effort: the write already succeeded, so a publish failure
// is logged rather than surfaced, and other sessions catch up on reload.
func (s *PostService) announce(ctx context.Context, e realtime.Event) {
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
