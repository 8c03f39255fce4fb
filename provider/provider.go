// Package provider implements clients for the email-marketing services that
// own subscriber lists.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mbland/subrelay/types"
	"github.com/sendgrid/rest"
)

// Credentials are the two secrets every provider needs.
type Credentials struct {
	ApiKey string
	ListId string
}

// Missing returns the names of any undefined credentials.
func (c *Credentials) Missing() (missing []string) {
	if c.ApiKey == "" {
		missing = append(missing, "api key")
	}
	if c.ListId == "" {
		missing = append(missing, "list id")
	}
	return
}

// Provider wraps the Subscribe method.
//
// Subscribe issues exactly one request adding req.Email (and req.Name, if
// present) to the list identified by creds.ListId. A non-nil error means the
// request never produced a response, e.g. a network failure or timeout. Any
// response, including a rejection, comes back as a *Response.
type Provider interface {
	Subscribe(
		ctx context.Context, creds *Credentials, req *types.SubscriptionRequest,
	) (*Response, error)
}

// Response is the part of a provider's HTTP response the relay cares about.
type Response struct {
	StatusCode int
	Body       string

	// Message is the provider's own explanation of a failure, if it sent one.
	Message string
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Kind string

const (
	Kit      = Kind("kit")
	SendGrid = Kind("sendgrid")
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return Kit, nil
	case Kit, SendGrid:
		return k, nil
	}
	return "", fmt.Errorf("unknown provider: %q", s)
}

func (k Kind) DefaultBaseUrl() string {
	if k == SendGrid {
		return SendGridDefaultBaseUrl
	}
	return KitDefaultBaseUrl
}

// NewClient returns a client for provider requests. A zero timeout means the
// request can run until its context is done.
func NewClient(timeout time.Duration) *rest.Client {
	return &rest.Client{HTTPClient: &http.Client{Timeout: timeout}}
}

// New returns the Provider for kind sending requests through client.
//
// An empty baseUrl selects the provider's public API endpoint.
func New(kind Kind, baseUrl string, client *rest.Client) (Provider, error) {
	if baseUrl == "" {
		baseUrl = kind.DefaultBaseUrl()
	}
	baseUrl = strings.TrimSuffix(baseUrl, "/")

	switch kind {
	case Kit:
		return &KitProvider{Client: client, BaseUrl: baseUrl}, nil
	case SendGrid:
		return &SendGridProvider{Client: client, BaseUrl: baseUrl}, nil
	}
	return nil, fmt.Errorf("unknown provider: %q", kind)
}

func send(
	ctx context.Context,
	client *rest.Client,
	req rest.Request,
	parseMessage func(body []byte) string,
) (*Response, error) {
	if client == nil {
		client = NewClient(0)
	}

	res, err := client.SendWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.BaseURL, err)
	}

	response := &Response{StatusCode: res.StatusCode, Body: res.Body}
	if !response.OK() {
		response.Message = parseMessage([]byte(res.Body))
	}
	return response, nil
}

func jsonBody(v any) ([]byte, error) {
	if body, err := json.Marshal(v); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	} else {
		return body, nil
	}
}
