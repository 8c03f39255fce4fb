//go:build small_tests || all_tests

package types

import (
	"encoding/json"
	"net/http"
	"testing"

	"gotest.tools/assert"
)

func TestSubscriptionRequestString(t *testing.T) {
	t.Run("EmailOnly", func(t *testing.T) {
		req := &SubscriptionRequest{Email: "a@b.com"}

		assert.Equal(t, "Email: a@b.com", req.String())
	})

	t.Run("WithName", func(t *testing.T) {
		req := &SubscriptionRequest{Email: "a@b.com", Name: "A"}

		assert.Equal(t, "Email: a@b.com, Name: A", req.String())
	})
}

func TestSubscriptionResultJson(t *testing.T) {
	t.Run("SuccessOmitsErrorAndStatus", func(t *testing.T) {
		data, err := json.Marshal(SuccessResult(http.StatusOK))

		assert.NilError(t, err)
		assert.Equal(t, `{"success":true}`, string(data))
	})

	t.Run("ErrorOmitsSuccessAndStatus", func(t *testing.T) {
		result := ErrorResult(http.StatusBadRequest, MsgEmailRequired)

		data, err := json.Marshal(result)

		assert.NilError(t, err)
		assert.Equal(t, `{"error":"Email is required"}`, string(data))
		assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	})
}
