package testutils

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/smithy-go"
	"gotest.tools/assert"
)

func AwsServerError(msg string) error {
	return &smithy.GenericAPIError{Message: msg, Fault: smithy.FaultServer}
}

func AssertAwsStringEqual(t *testing.T, expected string, actual *string) {
	t.Helper()
	assert.Equal(t, expected, aws.ToString(actual))
}
