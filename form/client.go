package form

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mbland/subrelay/handler"
	"github.com/mbland/subrelay/types"
	"github.com/sendgrid/rest"
)

type requestIdKey struct{}

// WithRequestId makes HttpRelayClient send id as the relay request's id, so
// the relay's log lines match those of the request that triggered it.
func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIdKey{}, id)
}

// HttpRelayClient posts JSON subscription requests to the relay at Url.
type HttpRelayClient struct {
	Client *rest.Client
	Url    string
}

func (rc *HttpRelayClient) Subscribe(
	ctx context.Context, req *types.SubscriptionRequest,
) (*types.SubscriptionResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subscription request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if id, _ := ctx.Value(requestIdKey{}).(string); id != "" {
		headers[handler.RequestIdHeader] = id
	}

	res, err := rc.Client.SendWithContext(ctx, rest.Request{
		Method:  rest.Post,
		BaseURL: rc.Url,
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}

	result := &types.SubscriptionResult{}

	// A body that isn't a SubscriptionResult still yields the status, and the
	// controller falls back to a generic message.
	_ = json.Unmarshal([]byte(res.Body), result)
	result.StatusCode = res.StatusCode
	return result, nil
}
