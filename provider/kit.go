package provider

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/mbland/subrelay/types"
	"github.com/sendgrid/rest"
)

const KitDefaultBaseUrl = "https://api.convertkit.com"

// KitProvider adds subscribers to a Kit (formerly ConvertKit) form using the
// v3 API.
//
// See: https://developers.kit.com/v3#add-subscriber-to-a-form
type KitProvider struct {
	Client  *rest.Client
	BaseUrl string
}

type kitSubscribeBody struct {
	ApiKey    string `json:"api_key"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

type kitErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (p *KitProvider) Subscribe(
	ctx context.Context, creds *Credentials, req *types.SubscriptionRequest,
) (*Response, error) {
	body, err := jsonBody(&kitSubscribeBody{
		ApiKey: creds.ApiKey, Email: req.Email, FirstName: req.Name,
	})
	if err != nil {
		return nil, err
	}

	return send(ctx, p.Client, rest.Request{
		Method:  rest.Post,
		BaseURL: p.SubscribeUrl(creds.ListId),
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	}, parseKitMessage)
}

func (p *KitProvider) SubscribeUrl(formId string) string {
	return p.BaseUrl + "/v3/forms/" + url.PathEscape(formId) + "/subscribe"
}

func parseKitMessage(body []byte) string {
	var errBody kitErrorBody

	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	}
	return errBody.Message
}
