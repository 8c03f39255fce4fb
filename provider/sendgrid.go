package provider

import (
	"context"
	"encoding/json"

	"github.com/mbland/subrelay/types"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
)

const SendGridDefaultBaseUrl = "https://api.sendgrid.com"

const sendGridContactsEndpoint = "/v3/marketing/contacts"

// SendGridProvider adds or updates a Marketing Campaigns contact and places
// it on a single list.
//
// See: https://www.twilio.com/docs/sendgrid/api-reference/contacts/add-or-update-a-contact
type SendGridProvider struct {
	Client  *rest.Client
	BaseUrl string
}

type sendGridContact struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

type sendGridContactsBody struct {
	ListIds  []string          `json:"list_ids"`
	Contacts []sendGridContact `json:"contacts"`
}

type sendGridErrorBody struct {
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (p *SendGridProvider) Subscribe(
	ctx context.Context, creds *Credentials, req *types.SubscriptionRequest,
) (*Response, error) {
	body, err := jsonBody(&sendGridContactsBody{
		ListIds:  []string{creds.ListId},
		Contacts: []sendGridContact{{Email: req.Email, FirstName: req.Name}},
	})
	if err != nil {
		return nil, err
	}

	request := sendgrid.GetRequest(
		creds.ApiKey, sendGridContactsEndpoint, p.BaseUrl,
	)
	request.Method = rest.Put
	request.Headers["Content-Type"] = "application/json"
	request.Body = body
	return send(ctx, p.Client, request, parseSendGridMessage)
}

func parseSendGridMessage(body []byte) string {
	var errBody sendGridErrorBody

	if err := json.Unmarshal(body, &errBody); err != nil {
		return ""
	} else if len(errBody.Errors) == 0 {
		return ""
	}
	return errBody.Errors[0].Message
}
