package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBroadcaster_DeliversToEverySubscriber(t *testing.T) {
	b := NewBroadcaster(0)
	a, unsubA := b.Subscribe()
	c, unsubC := b.Subscribe()
	defer unsubA()
	defer unsubC()

	assert.Equal(t, 2, b.Publish())

	for _, ch := range []<-chan struct{}{a, c} {
		select {
		case <-ch:
		default:
			t.Fatal("event not delivered")
		}
	}
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster(DefaultBuffer)
	ch, unsub := b.Subscribe()
	defer unsub()

	for i := 0; i < DefaultBuffer; i++ {
		require.Equal(t, 1, b.Publish())
	}
	assert.Equal(t, 0, b.Publish(), "full buffer must drop")
	assert.Len(t, ch, DefaultBuffer)
}

func TestBroadcaster_NoSubscribers(t *testing.T) {
	assert.Equal(t, 0, NewBroadcaster(1).Publish())
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster(1)
	ch, unsub := b.Subscribe()

	unsub()
	unsub()

	_, open := <-ch
	assert.False(t, open)
	assert.Zero(t, b.Subscribers())
	assert.Equal(t, 0, b.Publish())
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster(1)
	ch, unsub := b.Subscribe()

	b.Close()
	unsub()

	_, open := <-ch
	assert.False(t, open)

	late, _ := b.Subscribe()
	_, open = <-late
	assert.False(t, open)
}

func TestBroadcaster_ConcurrentReceivers(t *testing.T) {
	b := NewBroadcaster(DefaultBuffer)

	var wg sync.WaitGroup
	var ready sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		ready.Add(1)
		go func() {
			defer wg.Done()
			ch, unsub := b.Subscribe()
			defer unsub()
			ready.Done()
			select {
			case <-ch:
			case <-time.After(time.Second):
				t.Error("timeout waiting for refresh")
			}
		}()
	}

	ready.Wait()
	b.Publish()
	wg.Wait()
}

// ── bridge ──

type fakeTransport struct {
	mu        sync.Mutex
	published []string
	msgs      chan *goredis.Message
	closed    bool
	pubErr    error
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{msgs: make(chan *goredis.Message, 4)}
}

func (f *fakeTransport) Publish(_ context.Context, channel, payload string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, channel+"|"+payload)
	return f.pubErr
}

func (f *fakeTransport) Listen(context.Context, string) (<-chan *goredis.Message, func() error, error) {
	return f.msgs, func() error {
		f.mu.Lock()
		f.closed = true
		f.mu.Unlock()
		return nil
	}, nil
}

func TestBridge_NotifyPublishesLocallyAndRemotely(t *testing.T) {
	local := NewBroadcaster(1)
	ch, unsub := local.Subscribe()
	defer unsub()
	tr := newFakeTransport()
	bridge := NewBridge(local, tr, zap.NewNop())

	bridge.Notify(context.Background())

	assert.Len(t, ch, 1)
	assert.Equal(t, []string{Channel + "|" + bridge.origin}, tr.published)
}

func TestBridge_NotifyIgnoresTransportErrors(t *testing.T) {
	local := NewBroadcaster(1)
	ch, unsub := local.Subscribe()
	defer unsub()
	tr := newFakeTransport()
	tr.pubErr = errors.New("redis down")

	NewBridge(local, tr, zap.NewNop()).Notify(context.Background())

	assert.Len(t, ch, 1)
}

func TestBridge_RunRelaysRemoteMessages(t *testing.T) {
	local := NewBroadcaster(4)
	ch, unsub := local.Subscribe()
	defer unsub()
	tr := newFakeTransport()
	bridge := NewBridge(local, tr, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	tr.msgs <- &goredis.Message{Channel: Channel, Payload: bridge.origin}
	tr.msgs <- &goredis.Message{Channel: Channel, Payload: "other-replica"}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("remote refresh not relayed")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Len(t, ch, 0, "own message must not be relayed")

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.True(t, tr.closed)
}

func TestBridge_RunStopsWhenChannelCloses(t *testing.T) {
	tr := newFakeTransport()
	close(tr.msgs)

	err := NewBridge(NewBroadcaster(1), tr, zap.NewNop()).Run(context.Background())
	assert.NoError(t, err)
}
