package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artemis/internal/feed"
	"artemis/internal/models"
	"artemis/internal/realtime"
)

func TestCreateCommentRequiresContent(t *testing.T) {
	svc := NewCommentService(&stubCommentRepo{}, &stubPostRepo{}, feed.NewStore(), &capturePublisher{})

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  "u1",
		PostID:  1,
		Content: "   ",
	})

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	posts := &stubPostRepo{
		getByID: func(_ context.Context, id uint) (*models.Post, error) {
			return nil, models.NewNotFoundError("Post", id)
		},
	}
	svc := NewCommentService(&stubCommentRepo{}, posts, feed.NewStore(), &capturePublisher{})

	_, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:  "u1",
		PostID:  42,
		Content: "orphan",
	})

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestCreateCommentPublishesAndPatchesMirror(t *testing.T) {
	comments := &stubCommentRepo{
		create: func(_ context.Context, c *models.Comment) error {
			c.ID = 7
			return nil
		},
	}
	posts := &stubPostRepo{
		getByID: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
	}
	store := feed.NewStore()
	pub := &capturePublisher{}
	svc := NewCommentService(comments, posts, store, pub)

	comment, err := svc.CreateComment(context.Background(), CreateCommentInput{
		UserID:     "u1",
		AuthorName: "GreenGuardian",
		PostID:     1,
		Content:    "  great tip  ",
	})

	require.NoError(t, err)
	assert.Equal(t, "great tip", comment.Content)

	mirrored := store.Comments(1)
	require.Len(t, mirrored, 1)
	assert.Equal(t, uint(7), mirrored[0].ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, realtime.TableComments, pub.events[0].Table)
	assert.Equal(t, realtime.ChangeInsert, pub.events[0].Type)
}

func TestDeleteCommentRejectsOtherUsers(t *testing.T) {
	comments := &stubCommentRepo{
		getByID: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: "owner"}, nil
		},
	}
	pub := &capturePublisher{}
	svc := NewCommentService(comments, &stubPostRepo{}, feed.NewStore(), pub)

	err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: "intruder", CommentID: 1})

	require.Error(t, err)
	assert.True(t, models.IsCode(err, models.CodeAccessDenied))
	assert.Empty(t, pub.events)
}

func TestDeleteCommentPublishesDelete(t *testing.T) {
	comments := &stubCommentRepo{
		getByID: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 3, UserID: "u1"}, nil
		},
		remove: func(_ context.Context, id uint) error { return nil },
	}
	store := feed.NewStore()
	store.Apply(realtime.CommentEvent(realtime.ChangeInsert, &models.Comment{ID: 1, PostID: 3, UserID: "u1"}))
	pub := &capturePublisher{}
	svc := NewCommentService(comments, &stubPostRepo{}, store, pub)

	err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: "u1", CommentID: 1})

	require.NoError(t, err)
	assert.Empty(t, store.Comments(3))
	require.Len(t, pub.events, 1)
	assert.Equal(t, realtime.ChangeDelete, pub.events[0].Type)
}
