// Package form implements the landing page's subscription form: its state,
// its submission lifecycle, and its HTML rendering.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mbland/subrelay/types"
)

const ErrSubmitInProgress = types.SentinelError("submission in progress")

const ErrAlreadySubmitted = types.SentinelError("already submitted")

// RelayClient sends a SubscriptionRequest to the subscription relay.
//
// A non-nil error means no response arrived. Otherwise the result's
// StatusCode reports whether the relay accepted the request.
type RelayClient interface {
	Subscribe(
		ctx context.Context, req *types.SubscriptionRequest,
	) (*types.SubscriptionResult, error)
}

// Controller holds one visitor's form state.
//
// The lifecycle of each attempt is Idle -> Submitting -> Submitted, or back
// to Idle with an error message so the visitor can try again. Submitted is
// terminal.
type Controller struct {
	Email string
	Name  string
	Relay RelayClient

	mu     sync.Mutex
	status Status
	errMsg string
}

func NewController(relay RelayClient) *Controller {
	return &Controller{Relay: relay}
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// ErrorMessage returns the message from the last failed attempt, or "" if
// there wasn't one.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Submit sends the current Email and Name to the relay once.
//
// It refuses to send anything while another attempt is outstanding or after
// one has succeeded. A failed attempt records the relay's error message,
// which Submit also returns as an error.
func (c *Controller) Submit(ctx context.Context) error {
	req, err := c.begin()
	if err != nil {
		return err
	}

	result, err := c.Relay.Subscribe(ctx, req)
	return c.finish(result, err)
}

func (c *Controller) begin() (*types.SubscriptionRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case Submitting:
		return nil, ErrSubmitInProgress
	case Submitted:
		return nil, ErrAlreadySubmitted
	}
	c.status = Submitting
	c.errMsg = ""
	return &types.SubscriptionRequest{Email: c.Email, Name: c.Name}, nil
}

func (c *Controller) finish(result *types.SubscriptionResult, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil && succeeded(result) {
		c.status = Submitted
		return nil
	}

	c.status = Idle
	c.errMsg = types.MsgSomethingWentWrong

	if err != nil {
		return fmt.Errorf("%s: %w", c.errMsg, err)
	} else if result != nil && result.Error != "" {
		c.errMsg = result.Error
	}
	return errors.New(c.errMsg)
}

func succeeded(result *types.SubscriptionResult) bool {
	return result != nil && result.StatusCode >= 200 && result.StatusCode < 300
}
