package testdoubles

import (
	"context"

	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/types"
)

type SubscriptionAgent struct {
	Requests    []types.SubscriptionRequest
	ReturnValue ops.OperationResult
	Error       error
}

func NewSubscriptionAgent() *SubscriptionAgent {
	return &SubscriptionAgent{
		Requests:    make([]types.SubscriptionRequest, 0, 2),
		ReturnValue: ops.Subscribed,
	}
}

func (a *SubscriptionAgent) Subscribe(
	_ context.Context, req *types.SubscriptionRequest,
) (ops.OperationResult, error) {
	a.Requests = append(a.Requests, *req)
	return a.ReturnValue, a.Error
}
