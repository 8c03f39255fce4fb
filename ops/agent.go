package ops

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbland/subrelay/provider"
	"github.com/mbland/subrelay/types"
	"github.com/sirupsen/logrus"
)

// SubscriptionAgent forwards a validated SubscriptionRequest to the provider
// that owns the subscriber list.
type SubscriptionAgent interface {
	Subscribe(
		ctx context.Context, req *types.SubscriptionRequest,
	) (OperationResult, error)
}

// ProdAgent is the production SubscriptionAgent.
//
// It holds no state between calls and never retries. Each call issues at most
// one provider request, and none at all if Credentials are incomplete.
type ProdAgent struct {
	Credentials provider.Credentials
	Provider    provider.Provider

	// Timeout bounds the provider request. Zero means no bound beyond ctx.
	Timeout time.Duration
	Log     *logrus.Logger
}

func (a *ProdAgent) Subscribe(
	ctx context.Context, req *types.SubscriptionRequest,
) (OperationResult, error) {
	if missing := a.Credentials.Missing(); len(missing) != 0 {
		a.Log.Errorf("%s: %s", ErrConfiguration, strings.Join(missing, ", "))
		return Misconfigured, ErrConfiguration
	}

	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	res, err := a.Provider.Subscribe(ctx, &a.Credentials, req)
	if err != nil {
		return Failed, fmt.Errorf("%w: %w", ErrExternal, err)
	} else if !res.OK() {
		return Rejected, a.upstreamError(res)
	}
	return Subscribed, nil
}

func (a *ProdAgent) upstreamError(res *provider.Response) error {
	a.Log.Errorf("provider error: %d: %s", res.StatusCode, res.Body)

	msg := res.Message
	if msg == "" {
		msg = types.MsgSubscribeFailed
	}
	return &UpstreamError{StatusCode: res.StatusCode, Message: msg, Body: res.Body}
}

// UpstreamStatus returns the status and message from an *UpstreamError in
// err's tree.
func UpstreamStatus(err error) (status int, msg string, ok bool) {
	var upstreamErr *UpstreamError

	if ok = errors.As(err, &upstreamErr); ok {
		status, msg = upstreamErr.StatusCode, upstreamErr.Message
	}
	return
}
