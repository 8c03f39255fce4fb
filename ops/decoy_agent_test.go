//go:build small_tests || all_tests

package ops

import (
	"context"
	"testing"

	"github.com/mbland/subrelay/testutils"
	"github.com/mbland/subrelay/types"
	"gotest.tools/assert"
)

func TestDecoyAgent(t *testing.T) {
	logs, logger := testutils.NewLogs()
	var agent SubscriptionAgent = &DecoyAgent{Log: logger}
	req := &types.SubscriptionRequest{Email: "foo@bar.com", Name: "Foo"}

	result, err := agent.Subscribe(context.Background(), req)

	assert.NilError(t, err)
	assert.Equal(t, Subscribed, result)
	logs.AssertContains(
		t, "decoy: not sending to provider: Email: foo@bar.com, Name: Foo",
	)
}
