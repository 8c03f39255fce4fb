package testdoubles

import (
	"context"
	"net/http"
	"testing"

	"github.com/mbland/subrelay/provider"
	"github.com/mbland/subrelay/types"
)

type Provider struct {
	Credentials []provider.Credentials
	Requests    []types.SubscriptionRequest
	Response    *provider.Response
	Error       error
}

func NewProvider() *Provider {
	return &Provider{
		Credentials: make([]provider.Credentials, 0, 2),
		Requests:    make([]types.SubscriptionRequest, 0, 2),
		Response:    &provider.Response{StatusCode: http.StatusOK, Body: "{}"},
	}
}

func (p *Provider) Subscribe(
	ctx context.Context,
	creds *provider.Credentials,
	req *types.SubscriptionRequest,
) (*provider.Response, error) {
	p.Credentials = append(p.Credentials, *creds)
	p.Requests = append(p.Requests, *req)

	if err := ctx.Err(); err != nil {
		return nil, err
	} else if p.Error != nil {
		return nil, p.Error
	}
	return p.Response, nil
}

func (p *Provider) NumCalls() int {
	return len(p.Requests)
}

func (p *Provider) AssertNoCalls(t *testing.T) {
	t.Helper()

	if len(p.Requests) != 0 {
		t.Fatalf("expected no provider calls, got: %+v", p.Requests)
	}
}
