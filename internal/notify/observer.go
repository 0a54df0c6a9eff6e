// Package notify fans new comments out to live subscribers of a post.
package notify

import (
	"sync"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/google/uuid"
)

// CommentObserver keeps the subscriber channels for every post.
type CommentObserver struct {
	mu sync.RWMutex
	//   map[postID] map[subscriberID] channel
	subs map[string]map[string]chan *domain.Comment
}

func NewCommentObserver() *CommentObserver {
	return &CommentObserver{
		subs: make(map[string]map[string]chan *domain.Comment),
	}
}

// Subscribe registers a listener for postID. The returned cancel func
// unregisters and closes the channel; calling it more than once is safe.
func (o *CommentObserver) Subscribe(postID string) (<-chan *domain.Comment, func()) {
	ch := make(chan *domain.Comment, 1)
	subID := uuid.NewString()

	o.mu.Lock()
	if o.subs[postID] == nil {
		o.subs[postID] = make(map[string]chan *domain.Comment)
	}
	o.subs[postID][subID] = ch
	o.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if postSubs, ok := o.subs[postID]; ok {
				delete(postSubs, subID)
				if len(postSubs) == 0 {
					delete(o.subs, postID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers c to every subscriber of its post. Subscribers that are
// not keeping up miss the comment.
func (o *CommentObserver) Publish(c *domain.Comment) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	for _, ch := range o.subs[c.PostID] {
		select {
		case ch <- c:
		default:
		}
	}
}

// Subscribers reports how many listeners postID has.
func (o *CommentObserver) Subscribers(postID string) int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs[postID])
}
