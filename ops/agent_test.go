//go:build small_tests || all_tests

package ops_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/provider"
	"github.com/mbland/subrelay/testdoubles"
	tu "github.com/mbland/subrelay/testutils"
	"github.com/mbland/subrelay/types"
	"gotest.tools/assert"
)

var testRequest = &types.SubscriptionRequest{Email: "a@b.com", Name: "A"}

type prodAgentFixture struct {
	agent    *ops.ProdAgent
	provider *testdoubles.Provider
	logs     *tu.Logs
}

func newProdAgentFixture() *prodAgentFixture {
	p := testdoubles.NewProvider()
	logs, logger := tu.NewLogs()
	agent := &ops.ProdAgent{
		Credentials: provider.Credentials{ApiKey: "api-key", ListId: "list-id"},
		Provider:    p,
		Timeout:     time.Second,
		Log:         logger,
	}
	return &prodAgentFixture{agent, p, logs}
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Succeeds", func(t *testing.T) {
		f := newProdAgentFixture()

		result, err := f.agent.Subscribe(ctx, testRequest)

		assert.NilError(t, err)
		assert.Equal(t, ops.Subscribed, result)
		assert.DeepEqual(t, []types.SubscriptionRequest{*testRequest}, f.provider.Requests)
		expectedCreds := []provider.Credentials{f.agent.Credentials}
		assert.DeepEqual(t, expectedCreds, f.provider.Credentials)
		f.logs.AssertEmpty(t)
	})

	t.Run("FailsWithoutCallingProviderIfCredentialsMissing", func(t *testing.T) {
		f := newProdAgentFixture()
		f.agent.Credentials.ListId = ""

		result, err := f.agent.Subscribe(ctx, testRequest)

		assert.Equal(t, ops.Misconfigured, result)
		assert.Assert(t, tu.ErrorIs(err, ops.ErrConfiguration))
		f.provider.AssertNoCalls(t)
		f.logs.AssertContains(t, "missing provider credentials: list id")
	})

	t.Run("ReturnsUpstreamErrorWithProviderMessage", func(t *testing.T) {
		f := newProdAgentFixture()
		const body = `{"message":"Already subscribed"}`
		f.provider.Response = &provider.Response{
			StatusCode: http.StatusUnprocessableEntity,
			Body:       body,
			Message:    "Already subscribed",
		}

		result, err := f.agent.Subscribe(ctx, testRequest)

		assert.Equal(t, ops.Rejected, result)
		assert.Assert(t, tu.ErrorIs(err, ops.ErrExternal))
		status, msg, ok := ops.UpstreamStatus(err)
		assert.Assert(t, ok)
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "Already subscribed", msg)
		assert.Equal(t, 1, f.provider.NumCalls())
		f.logs.AssertContains(t, "provider error: 422: "+body)
	})

	t.Run("FallsBackToGenericMessage", func(t *testing.T) {
		f := newProdAgentFixture()
		f.provider.Response = &provider.Response{
			StatusCode: http.StatusInternalServerError, Body: "<html></html>",
		}

		result, err := f.agent.Subscribe(ctx, testRequest)

		assert.Equal(t, ops.Rejected, result)
		status, msg, ok := ops.UpstreamStatus(err)
		assert.Assert(t, ok)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, types.MsgSubscribeFailed, msg)
	})

	t.Run("WrapsTransportErrorsWithErrExternal", func(t *testing.T) {
		f := newProdAgentFixture()
		f.provider.Error = errors.New("connection refused")

		result, err := f.agent.Subscribe(ctx, testRequest)

		assert.Equal(t, ops.Failed, result)
		assert.Assert(t, tu.ErrorIs(err, ops.ErrExternal))
		assert.ErrorContains(t, err, "connection refused")
		_, _, ok := ops.UpstreamStatus(err)
		assert.Assert(t, !ok)
		assert.Equal(t, 1, f.provider.NumCalls())
	})

	t.Run("FailsIfContextAlreadyCanceled", func(t *testing.T) {
		f := newProdAgentFixture()
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := f.agent.Subscribe(canceled, testRequest)

		assert.Equal(t, ops.Failed, result)
		assert.Assert(t, tu.ErrorIs(err, context.Canceled))
	})
}
