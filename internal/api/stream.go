package api

import (
	"net/http"
	"time"

	"github.com/UkralStul/posts-presenter/internal/blog"
	"github.com/UkralStul/posts-presenter/internal/presenter"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// streamComments upgrades to a websocket and pushes every new comment on the
// post until the client goes away.
func (s *Server) streamComments(w http.ResponseWriter, r *http.Request) {
	post := s.post(r)
	if _, err := post.Record(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		s.Logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	comments, cancel := s.Observer.Subscribe(post.ID())
	defer cancel()

	// The read loop only exists to notice the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case c, ok := <-comments:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(presenter.Comment(blog.NewComment(c))); err != nil {
				s.Logger.Debug("stream write failed", zap.String("post_id", post.ID()), zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
