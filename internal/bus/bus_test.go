package bus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov87/pagevault/internal/common"
)

func TestRequestRoundtrip(t *testing.T) {
	b := New()
	b.Handle(EndpointContent, "echo", func(_ context.Context, payload any) (any, error) {
		return fmt.Sprintf("got:%v", payload), nil
	})

	resp, err := b.Request(context.Background(), EndpointContent, "echo", "ping")
	require.NoError(t, err)
	assert.Equal(t, "got:ping", resp)
}

func TestRequestHandlerError(t *testing.T) {
	b := New()
	wantErr := errors.New("scrape exploded")
	b.Handle(EndpointContent, "boom", func(_ context.Context, _ any) (any, error) {
		return nil, wantErr
	})

	_, err := b.Request(context.Background(), EndpointContent, "boom", nil)
	assert.ErrorIs(t, err, wantErr)
}

func TestRequestAbsentEndpoint(t *testing.T) {
	b := New()

	_, err := b.Request(context.Background(), EndpointPopup, "anything", nil)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestRequestUnknownMessage(t *testing.T) {
	b := New()
	b.Handle(EndpointBackground, "known", func(_ context.Context, _ any) (any, error) {
		return nil, nil
	})

	_, err := b.Request(context.Background(), EndpointBackground, "unknown", nil)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestRequestContextExpiry(t *testing.T) {
	b := New()
	release := make(chan struct{})
	b.Handle(EndpointContent, "slow", func(_ context.Context, _ any) (any, error) {
		<-release
		return "late", nil
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := b.Request(ctx, EndpointContent, "slow", nil)
	assert.ErrorIs(t, err, common.ErrTransport)
}

func TestNotifyOrdering(t *testing.T) {
	b := New()

	var mu sync.Mutex
	var got []any
	received := make(chan struct{}, 16)
	b.Handle(EndpointPopup, "tick", func(_ context.Context, payload any) (any, error) {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
		received <- struct{}{}
		return nil, nil
	})

	for i := 0; i < 5; i++ {
		require.NoError(t, b.Notify(EndpointPopup, "tick", i))
	}

	for i := 0; i < 5; i++ {
		select {
		case <-received:
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []any{0, 1, 2, 3, 4}, got)
}

func TestNotifyStoppedEndpoint(t *testing.T) {
	b := New()
	b.Handle(EndpointPopup, "tick", func(_ context.Context, _ any) (any, error) {
		t.Error("handler ran after StopListening")
		return nil, nil
	})
	b.StopListening(EndpointPopup)

	assert.NoError(t, b.Notify(EndpointPopup, "tick", nil))

	_, err := b.Request(context.Background(), EndpointPopup, "tick", nil)
	assert.ErrorIs(t, err, common.ErrTransport)

	time.Sleep(20 * time.Millisecond)
}

func TestHandleReplacesHandler(t *testing.T) {
	b := New()
	b.Handle(EndpointContent, "v", func(_ context.Context, _ any) (any, error) {
		return "first", nil
	})
	b.Handle(EndpointContent, "v", func(_ context.Context, _ any) (any, error) {
		return "second", nil
	})

	resp, err := b.Request(context.Background(), EndpointContent, "v", nil)
	require.NoError(t, err)
	assert.Equal(t, "second", resp)
}
