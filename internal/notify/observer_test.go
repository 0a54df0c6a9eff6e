package notify

import (
	"testing"

	"github.com/UkralStul/posts-presenter/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentObserver_PublishToSubscribers(t *testing.T) {
	o := NewCommentObserver()
	ch, cancel := o.Subscribe("p1")
	defer cancel()
	other, cancelOther := o.Subscribe("p2")
	defer cancelOther()

	o.Publish(&domain.Comment{ID: "c1", PostID: "p1"})

	select {
	case c := <-ch:
		assert.Equal(t, "c1", c.ID)
	default:
		t.Fatal("expected a comment")
	}
	assert.Empty(t, other)
}

func TestCommentObserver_SlowSubscriberDrops(t *testing.T) {
	o := NewCommentObserver()
	ch, cancel := o.Subscribe("p1")
	defer cancel()

	o.Publish(&domain.Comment{ID: "c1", PostID: "p1"})
	o.Publish(&domain.Comment{ID: "c2", PostID: "p1"})

	c := <-ch
	assert.Equal(t, "c1", c.ID)
	assert.Empty(t, ch)
}

func TestCommentObserver_Cancel(t *testing.T) {
	o := NewCommentObserver()
	ch, cancel := o.Subscribe("p1")
	require.Equal(t, 1, o.Subscribers("p1"))

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, o.Subscribers("p1"))

	o.Publish(&domain.Comment{ID: "c1", PostID: "p1"})
}
