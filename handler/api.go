package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/types"
	"github.com/sirupsen/logrus"
)

// apiRequest is the transport independent view of an incoming request.
type apiRequest struct {
	Id          string
	SourceIp    string
	Method      string
	Path        string
	Protocol    string
	ContentType string
	Body        string
}

type apiHandler struct {
	Agent ops.SubscriptionAgent
	log   *logrus.Logger
}

// handleApiRequest maps req to a result. It never fails; the error it
// returns is for the access log only.
func (h *apiHandler) handleApiRequest(
	ctx context.Context, req *apiRequest,
) (*types.SubscriptionResult, error) {
	if req.Method != http.MethodPost {
		return types.ErrorResult(
			http.StatusMethodNotAllowed, types.MsgMethodNotAllowed,
		), nil
	}

	subReq, err := parseSubscriptionRequest(req.ContentType, req.Body)
	if errors.Is(err, ErrUserInput) {
		return types.ErrorResult(http.StatusBadRequest, types.MsgEmailRequired), err
	} else if err != nil {
		return internalError(), err
	}

	result, err := h.Agent.Subscribe(ctx, subReq)
	logOperationResult(h.log, req.Id, subReq, result, err)
	return subscribeResult(err), err
}

func subscribeResult(err error) *types.SubscriptionResult {
	if err == nil {
		return types.SuccessResult(http.StatusOK)
	} else if errors.Is(err, ops.ErrConfiguration) {
		return types.ErrorResult(
			http.StatusInternalServerError, types.MsgServerConfiguration,
		)
	} else if status, msg, ok := ops.UpstreamStatus(err); ok {
		return types.ErrorResult(status, msg)
	}
	return internalError()
}

func internalError() *types.SubscriptionResult {
	return types.ErrorResult(
		http.StatusInternalServerError, types.MsgInternalServerError,
	)
}

func logApiResponse(
	log *logrus.Logger, req *apiRequest, status int, err error,
) {
	errMsg := ""

	// Client input errors aren't an operator concern.
	if err != nil && !errors.Is(err, ErrUserInput) {
		errMsg = ": " + err.Error()
	}

	log.Printf(`%s: %s "%s %s %s" %d%s`,
		req.Id,
		req.SourceIp, req.Method, req.Path, req.Protocol, status,
		errMsg,
	)
}

func logOperationResult(
	log *logrus.Logger,
	requestId string,
	req *types.SubscriptionRequest,
	result ops.OperationResult,
	err error,
) {
	if err != nil {
		log.Errorf("%s: ERROR: %s: %s: %s", requestId, req.Email, result, err)
	} else {
		log.Infof("%s: result: %s: %s", requestId, req.Email, result)
	}
}
