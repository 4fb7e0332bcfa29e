package kafka

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type fakeReader struct {
	msgs chan kafka.Message

	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestConsumer_RetriesFailedMessageBeforeCommitting(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Partition: 0, Offset: 0},
		kafka.Message{Partition: 0, Offset: 1},
		kafka.Message{Partition: 0, Offset: 2},
	)
	c := newConsumer(r, 2, discardLogger())
	c.backoff = time.Millisecond

	var mu sync.Mutex
	calls := map[int64]int{}
	h := func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		calls[m.Offset]++
		if m.Offset == 1 && calls[m.Offset] == 1 {
			return errors.New("store unavailable")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()

	require.Eventually(t, func() bool { return len(r.commits()) == 3 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int64{0, 1, 2}, r.commits())

	mu.Lock()
	assert.Equal(t, 2, calls[1])
	assert.Equal(t, 1, calls[2])
	mu.Unlock()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
	assert.True(t, r.closed)
}

func TestConsumer_ManyFailuresDoNotStallFetching(t *testing.T) {
	var msgs []kafka.Message
	for p := 0; p < 4; p++ {
		for off := int64(0); off < 5; off++ {
			msgs = append(msgs, kafka.Message{Partition: p, Offset: off})
		}
	}
	r := newFakeReader(msgs...)
	c := newConsumer(r, 2, discardLogger())
	c.backoff = time.Millisecond

	var mu sync.Mutex
	type pos struct {
		partition int
		offset    int64
	}
	failed := map[pos]bool{}
	h := func(_ context.Context, m kafka.Message) error {
		mu.Lock()
		defer mu.Unlock()
		k := pos{m.Partition, m.Offset}
		if !failed[k] {
			failed[k] = true
			return errors.New("transient")
		}
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = c.Start(ctx, h) }()

	require.Eventually(t, func() bool { return len(r.commits()) == len(msgs) }, 5*time.Second, 5*time.Millisecond)
}

func TestConsumer_CancelLeavesFailingMessageUncommitted(t *testing.T) {
	r := newFakeReader(kafka.Message{Partition: 0, Offset: 7})
	c := newConsumer(r, 1, discardLogger())
	c.backoff = time.Millisecond

	attempted := make(chan struct{}, 1)
	h := func(context.Context, kafka.Message) error {
		select {
		case attempted <- struct{}{}:
		default:
		}
		return errors.New("down")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Start(ctx, h) }()

	<-attempted
	cancel()
	require.NoError(t, <-done)
	assert.Empty(t, r.commits())
}
