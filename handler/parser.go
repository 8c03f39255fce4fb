package handler

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/mbland/subrelay/types"
)

// ErrUserInput indicates a request the client can fix, as opposed to a
// malformed request or a failure on our end.
const ErrUserInput = types.SentinelError("invalid user input")

const errNotAnObject = types.SentinelError("not a JSON object")

const contentTypeForm = "application/x-www-form-urlencoded"

var validate = validator.New()

// parseSubscriptionRequest decodes and validates the request body.
//
// Form encoded bodies come from the plain HTML form. Every other content
// type, including none at all, is decoded as JSON.
func parseSubscriptionRequest(
	contentType, body string,
) (*types.SubscriptionRequest, error) {
	req := &types.SubscriptionRequest{}

	if mediaType, _, _ := mime.ParseMediaType(contentType); mediaType == contentTypeForm {
		if values, err := url.ParseQuery(body); err != nil {
			return nil, fmt.Errorf("failed to parse form body: %w", err)
		} else {
			req.Email = values.Get("email")
			req.Name = values.Get("name")
		}
	} else if err := json.Unmarshal([]byte(body), &req); err != nil {
		return nil, fmt.Errorf("failed to parse JSON body: %w", err)
	} else if req == nil {
		// JSON null leaves req nil instead of failing.
		return nil, fmt.Errorf("failed to parse JSON body: %w", errNotAnObject)
	}

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserInput, err)
	}
	return req, nil
}
