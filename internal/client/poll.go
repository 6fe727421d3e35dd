package client

import (
	"context"
	"time"
)

// PollFunc performs one poll attempt. It returns done=true when the
// underlying operation has completed and polling should stop.
type PollFunc func(ctx context.Context) (done bool, err error)

// Poll invokes fn at the given interval until it reports completion,
// returns an error, or exhausts maxAttempts. Exhaustion is a terminal
// timeout error, never a silent empty result.
func (c *Client) Poll(ctx context.Context, interval time.Duration, maxAttempts int, fn PollFunc) error {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return &APIError{
		Provider: c.name,
		Message:  "polling did not complete within the attempt budget",
		Code:     CodePollTimeout,
	}
}
