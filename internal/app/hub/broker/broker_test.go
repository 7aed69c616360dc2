package broker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markd/internal/domain/bookmark"
	"markd/internal/utils/logger"
)

func TestBroker_DeliversToOwnerOnly(t *testing.T) {
	b := New(logger.New(logger.EnvLocal))

	alice, cancelAlice := b.Subscribe("u-alice")
	defer cancelAlice()
	bob, cancelBob := b.Subscribe("u-bob")
	defer cancelBob()

	b.BookmarkInserted("u-alice", bookmark.Bookmark{ID: "b-1", OwnerID: "u-alice"})

	ev := <-alice
	assert.Equal(t, EventInserted, ev.Kind)
	require.NotNil(t, ev.Bookmark)
	assert.Equal(t, "b-1", ev.Bookmark.ID)

	select {
	case <-bob:
		t.Fatal("event crossed owner boundary")
	default:
	}
}

func TestBroker_FansOutToAllSubscribers(t *testing.T) {
	b := New(logger.New(logger.EnvLocal))

	first, cancelFirst := b.Subscribe("u-1")
	defer cancelFirst()
	second, cancelSecond := b.Subscribe("u-1")
	defer cancelSecond()

	b.BookmarkDeleted("u-1", "b-9")

	assert.Equal(t, "b-9", (<-first).ID)
	assert.Equal(t, "b-9", (<-second).ID)
}

func TestBroker_CancelStopsDelivery(t *testing.T) {
	b := New(logger.New(logger.EnvLocal))

	ch, cancel := b.Subscribe("u-1")
	cancel()
	cancel() // idempotent

	_, open := <-ch
	assert.False(t, open, "cancel must close the channel")

	// Publishing after cancel must not panic.
	b.BookmarkDeleted("u-1", "b-1")
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := New(logger.New(logger.EnvLocal))

	_, cancel := b.Subscribe("u-1")
	defer cancel()

	// Overflow the buffer; publish must never block.
	for i := 0; i < subscriberBuffer+10; i++ {
		b.BookmarkDeleted("u-1", "b-x")
	}
}
