package ops

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/smithy-go"
)

func LoadDefaultAwsConfig(ctx context.Context) (cfg aws.Config, err error) {
	if cfg, err = config.LoadDefaultConfig(ctx); err != nil {
		err = fmt.Errorf("failed to load AWS config: %w", err)
	}
	return
}

// MustLoadDefaultAwsConfig is for the CLI, which can't do anything useful
// without AWS access.
func MustLoadDefaultAwsConfig() aws.Config {
	cfg, err := LoadDefaultAwsConfig(context.Background())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// Inspired by:
// https://aws.github.io/aws-sdk-go-v2/docs/handling-errors/#api-error-responses
func AwsError(err error) error {
	var apiErr smithy.APIError

	if errors.As(err, &apiErr) && apiErr.ErrorFault() == smithy.FaultServer {
		return fmt.Errorf("%w: %w", ErrExternal, err)
	}
	return err
}
