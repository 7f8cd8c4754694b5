// Package feed holds the in-memory mirror of the post and comment collections
// and the derived-view logic that turns the mirror into a displayable feed.
package feed

import (
	"context"
	"sync"

	"artemis/internal/middleware"
	"artemis/internal/models"
	"artemis/internal/realtime"
	"artemis/internal/repository"
)

// Store is the authoritative in-memory mirror of posts and comments. It is
// loaded once from the backend and then kept consistent by applying change
// events. Posts are held newest-first, comments oldest-first, matching the
// order the backend returns them in.
//
// Apply is idempotent per (entity id, change type): a redelivered insert for
// an id already present degrades to a replace, an update for an unknown id is
// treated as an insert, and a delete for an unknown id is a no-op. Concurrent
// events for the same id resolve as last-applied-wins.
type Store struct {
	mu       sync.RWMutex
	posts    []*models.Post
	comments []*models.Comment
}

// NewStore creates an empty mirror.
func NewStore() *Store {
	return &Store{}
}

// Load replaces the mirror contents with a fresh fetch from the backend.
// On failure the mirror is left as it was; the caller decides whether that
// (empty or stale) state is acceptable.
func (s *Store) Load(ctx context.Context, posts repository.PostRepository, comments repository.CommentRepository) error {
	loadedPosts, err := posts.List(ctx)
	if err != nil {
		return err
	}
	loadedComments, err := comments.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = loadedPosts
	s.comments = loadedComments
	return nil
}

// Apply folds one change event into the mirror.
func (s *Store) Apply(e realtime.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch e.Table {
	case realtime.TablePosts:
		s.applyPost(e)
	case realtime.TableComments:
		s.applyComment(e)
	default:
		return
	}
	middleware.FeedEventsApplied.WithLabelValues(string(e.Table), string(e.Type)).Inc()
}

func (s *Store) applyPost(e realtime.Event) {
	switch e.Type {
	case realtime.ChangeInsert, realtime.ChangeUpdate:
		if e.Post == nil {
			return
		}
		if i := postIndex(s.posts, e.Post.ID); i >= 0 {
			s.posts[i] = e.Post
			return
		}
		// New posts go to the head: the feed is newest-first.
		s.posts = append([]*models.Post{e.Post}, s.posts...)
	case realtime.ChangeDelete:
		i := postIndex(s.posts, e.ID)
		if i < 0 {
			return
		}
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		// The backend deletes a post's comments in the same transaction, so
		// the mirror drops them on the same event.
		kept := s.comments[:0]
		for _, c := range s.comments {
			if c.PostID != e.ID {
				kept = append(kept, c)
			}
		}
		s.comments = kept
	}
}

func (s *Store) applyComment(e realtime.Event) {
	switch e.Type {
	case realtime.ChangeInsert, realtime.ChangeUpdate:
		if e.Comment == nil {
			return
		}
		if i := commentIndex(s.comments, e.Comment.ID); i >= 0 {
			s.comments[i] = e.Comment
			return
		}
		// Comments read oldest-first, so new ones append.
		s.comments = append(s.comments, e.Comment)
	case realtime.ChangeDelete:
		if i := commentIndex(s.comments, e.ID); i >= 0 {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
		}
	}
}

// Posts returns a copy of the post collection, newest-first.
func (s *Store) Posts() []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Post returns the mirrored post with the given id.
func (s *Store) Post(id uint) (*models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := postIndex(s.posts, id); i >= 0 {
		return s.posts[i], true
	}
	return nil, false
}

// Comments returns a copy of the comments for one post, oldest-first.
func (s *Store) Comments(postID uint) []*models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out
}

// AllComments returns a copy of the whole comment collection, oldest-first.
func (s *Store) AllComments() []*models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Comment, len(s.comments))
	copy(out, s.comments)
	return out
}

func postIndex(posts []*models.Post, id uint) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func commentIndex(comments []*models.Comment, id uint) int {
	for i, c := range comments {
		if c.ID == id {
			return i
		}
	}
	return -1
}
