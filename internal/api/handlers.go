package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/UkralStul/posts-presenter/internal/blog"
	"github.com/UkralStul/posts-presenter/internal/dataloader"
	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/presenter"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type newPostInput struct {
	Title    string `json:"title" validate:"required,max=255"`
	Content  string `json:"content" validate:"required"`
	AuthorID string `json:"authorId" validate:"required,max=255"`
}

type newCommentInput struct {
	AuthorID string `json:"authorId" validate:"required,max=255"`
	Content  string `json:"content"`
}

type toggleInput struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", errBadRequest, err)
	}
	return s.validate.Struct(dst)
}

// post builds the query object for the route's post. Comment traversals go
// through the request's batching loader when one is installed.
func (s *Server) post(r *http.Request) *blog.Post {
	id := chi.URLParam(r, "postID")
	var src blog.Source = s.Storage
	if loaders := dataloader.For(r.Context()); loaders != nil {
		src = loaderSource{PostFinder: s.Storage, Loaders: loaders}
	}
	return blog.NewPost(src, blog.PostConfig{ID: id})
}

// loaderSource resolves posts from the store and comments through the loader.
type loaderSource struct {
	storage.PostFinder
	*dataloader.Loaders
}

func (s *Server) commentQuery(r *http.Request) storage.CommentQuery {
	if loaders := dataloader.For(r.Context()); loaders != nil {
		return loaders
	}
	return s.Storage
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return v, nil
}

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultLimit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		s.writeError(w, err)
		return
	}

	posts, err := s.Storage.GetPosts(r.Context(), limit, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := presenter.Posts(posts)

	if r.URL.Query().Get("embed") == "comments" {
		// Concurrent traversals land in the same loader batch.
		query := s.commentQuery(r)
		g, ctx := errgroup.WithContext(r.Context())
		for i, p := range posts {
			comments := blog.NewComments(query, blog.CommentsConfig{PostID: p.ID})
			g.Go(func() error {
				embedded, err := presenter.Comments(ctx, comments)
				if err != nil {
					return err
				}
				views[i].Comments = embedded
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			s.writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in newPostInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	post, err := s.Storage.CreatePost(r.Context(), &domain.Post{
		Title:           in.Title,
		Content:         in.Content,
		AuthorID:        in.AuthorID,
		CommentsEnabled: true,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, presenter.Post(post))
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	post := s.post(r)
	if r.URL.Query().Get("embed") == "comments" {
		view, err := presenter.PostWithComments(r.Context(), post)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	record, err := post.Record(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Post(record))
}

func (s *Server) toggleComments(w http.ResponseWriter, r *http.Request) {
	var in toggleInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	post, err := s.Storage.ToggleComments(r.Context(), chi.URLParam(r, "postID"), *in.Enabled)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, presenter.Post(post))
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	post := s.post(r)
	if _, err := post.Record(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	views, err := presenter.Comments(r.Context(), post.Comments())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in newCommentInput
	if err := s.decode(r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	comment, err := s.Storage.CreateComment(r.Context(), &domain.Comment{
		PostID:   chi.URLParam(r, "postID"),
		AuthorID: in.AuthorID,
		Content:  in.Content,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.Observer.Publish(comment)
	s.Logger.Debug("comment created", zap.String("post_id", comment.PostID), zap.String("comment_id", comment.ID))
	writeJSON(w, http.StatusCreated, presenter.Comment(blog.NewComment(comment)))
}
