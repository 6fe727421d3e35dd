package client

import (
	"context"
	"errors"
	"testing"
	"time"
)

func pollClient(t *testing.T) *Client {
	t.Helper()
	c := New(Config{Name: "testprov", BaseURL: "http://unused", APIKey: "k"})
	t.Cleanup(c.Close)
	return c
}

func TestPollCompletes(t *testing.T) {
	c := pollClient(t)

	attempts := 0
	err := c.Poll(context.Background(), time.Millisecond, 10, func(ctx context.Context) (bool, error) {
		attempts++
		return attempts == 3, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if attempts != 3 {
		t.Fatalf("want 3 attempts, got %d", attempts)
	}
}

func TestPollTimeoutIsTerminal(t *testing.T) {
	c := pollClient(t)

	attempts := 0
	err := c.Poll(context.Background(), time.Millisecond, 4, func(ctx context.Context) (bool, error) {
		attempts++
		return false, nil
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Code != CodePollTimeout {
		t.Fatalf("want poll timeout error, got %v", err)
	}
	if attempts != 4 {
		t.Fatalf("want exactly the attempt budget, got %d", attempts)
	}
}

func TestPollPropagatesErrors(t *testing.T) {
	c := pollClient(t)

	boom := errors.New("boom")
	err := c.Poll(context.Background(), time.Millisecond, 10, func(ctx context.Context) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want underlying error, got %v", err)
	}
}

func TestPollHonorsCancellation(t *testing.T) {
	c := pollClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Poll(ctx, time.Minute, 10, func(ctx context.Context) (bool, error) {
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
