package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/types"
	"github.com/sirupsen/logrus"
)

// Handler is the subscription relay endpoint.
//
// HandleEvent serves API Gateway HTTP API requests when running as a Lambda
// function. ServeHTTP serves the same requests as an http.Handler.
type Handler struct {
	api *apiHandler
}

func NewHandler(agent ops.SubscriptionAgent, logger *logrus.Logger) *Handler {
	return &Handler{&apiHandler{Agent: agent, log: logger}}
}

func (h *Handler) HandleEvent(
	ctx context.Context, origReq *events.APIGatewayV2HTTPRequest,
) (*events.APIGatewayV2HTTPResponse, error) {
	req, err := newApiRequest(origReq)
	result := internalError()

	if err == nil {
		result, err = h.api.handleApiRequest(ctx, req)
	} else {
		req = describeApiRequest(origReq)
	}

	res := apiGatewayResponse(result)
	logApiResponse(h.api.log, req, res.StatusCode, err)
	return res, nil
}

func apiGatewayResponse(
	result *types.SubscriptionResult,
) *events.APIGatewayV2HTTPResponse {
	headers := map[string]string{"content-type": "application/json"}

	if result.StatusCode == http.StatusMethodNotAllowed {
		headers["allow"] = http.MethodPost
	}
	return &events.APIGatewayV2HTTPResponse{
		StatusCode: result.StatusCode,
		Headers:    headers,
		Body:       resultBody(result),
	}
}

func resultBody(result *types.SubscriptionResult) string {
	// SubscriptionResult contains only strings and bools, so this can't fail.
	body, _ := json.Marshal(result)
	return string(body)
}

func describeApiRequest(req *events.APIGatewayV2HTTPRequest) *apiRequest {
	desc := req.RequestContext.HTTP

	return &apiRequest{
		Id:       req.RequestContext.RequestID,
		SourceIp: desc.SourceIP,
		Method:   desc.Method,
		Path:     desc.Path,
		Protocol: desc.Protocol,
	}
}

func newApiRequest(req *events.APIGatewayV2HTTPRequest) (*apiRequest, error) {
	contentType, foundContentType := req.Headers["content-type"]
	body := req.Body

	// HTTP/2 headers MUST be lowercase, and the "Payload format version" of
	// "Working with AWS Lambda proxy integrations for HTTP APIs" states that
	// "Header names are lowercased." However, a `sam local` server will pass
	// through "Content-Type" as curl sent it over HTTP/1.1.
	//
	// - https://www.rfc-editor.org/rfc/rfc7540#section-8.1.2
	// - https://docs.aws.amazon.com/apigateway/latest/developerguide/http-api-develop-integrations-lambda.html
	if !foundContentType {
		contentType = req.Headers["Content-Type"]
	}

	// The prod API Gateway will base64 encode POST body payloads. The
	// `sam local` server will not.
	if req.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(body); err != nil {
			return nil, fmt.Errorf("failed to base64 decode body: %s", err)
		} else {
			body = string(decoded)
		}
	}

	apiReq := describeApiRequest(req)
	apiReq.ContentType = contentType
	apiReq.Body = body
	return apiReq, nil
}
