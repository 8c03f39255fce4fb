package types

import "strings"

const (
	MsgEmailRequired       = "Email is required"
	MsgServerConfiguration = "Server configuration error"
	MsgSubscribeFailed     = "Failed to subscribe"
	MsgInternalServerError = "Internal server error"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgSomethingWentWrong  = "Something went wrong"
)

// SubscriptionRequest is the body of a single subscription attempt.
//
// Name is optional. Email must be present before the request goes upstream.
type SubscriptionRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name,omitempty"`
}

func (req *SubscriptionRequest) String() string {
	sb := strings.Builder{}
	sb.WriteString("Email: ")
	sb.WriteString(req.Email)
	if req.Name != "" {
		sb.WriteString(", Name: ")
		sb.WriteString(req.Name)
	}
	return sb.String()
}

// SubscriptionResult is the relay's answer to a SubscriptionRequest.
//
// StatusCode travels as the HTTP status and isn't part of the JSON body.
type SubscriptionResult struct {
	Success    bool   `json:"success,omitempty"`
	Error      string `json:"error,omitempty"`
	StatusCode int    `json:"-"`
}

func SuccessResult(status int) *SubscriptionResult {
	return &SubscriptionResult{Success: true, StatusCode: status}
}

func ErrorResult(status int, msg string) *SubscriptionResult {
	return &SubscriptionResult{Error: msg, StatusCode: status}
}
