package ops

import (
	"context"

	"github.com/mbland/subrelay/types"
	"github.com/sirupsen/logrus"
)

// DecoyAgent reports every request as Subscribed without contacting a
// provider, so the form can be tried out locally without credentials.
type DecoyAgent struct {
	Log *logrus.Logger
}

func (a *DecoyAgent) Subscribe(
	ctx context.Context, req *types.SubscriptionRequest,
) (OperationResult, error) {
	a.Log.Infof("decoy: not sending to provider: %s", req)
	return Subscribed, nil
}
