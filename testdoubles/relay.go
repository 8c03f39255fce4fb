package testdoubles

import (
	"context"

	"github.com/mbland/subrelay/types"
)

// RelayClient returns each of Results in turn, repeating the last one.
type RelayClient struct {
	Requests []types.SubscriptionRequest
	Results  []*types.SubscriptionResult
	Errors   []error

	// Block, if not nil, holds each call until it's closed or ctx is done.
	Block chan struct{}
}

func NewRelayClient(results ...*types.SubscriptionResult) *RelayClient {
	return &RelayClient{
		Requests: make([]types.SubscriptionRequest, 0, 2),
		Results:  results,
	}
}

func (rc *RelayClient) Subscribe(
	ctx context.Context, req *types.SubscriptionRequest,
) (*types.SubscriptionResult, error) {
	i := len(rc.Requests)
	rc.Requests = append(rc.Requests, *req)

	if rc.Block != nil {
		select {
		case <-rc.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := nth(rc.Errors, i); err != nil {
		return nil, err
	}
	return nth(rc.Results, i), nil
}

func nth[T any](items []T, i int) (item T) {
	if len(items) == 0 {
		return
	} else if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}
