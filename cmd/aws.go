package cmd

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/mbland/subrelay/ops"
)

// FunctionArnKey is the stack output holding the relay function's ARN.
const FunctionArnKey = "FunctionArn"

type LambdaClient interface {
	Invoke(
		context.Context,
		*lambda.InvokeInput,
		...func(*lambda.Options),
	) (*lambda.InvokeOutput, error)
}

type LambdaClientFactoryFunc func() LambdaClient

func NewLambdaClient() LambdaClient {
	return lambda.NewFromConfig(ops.MustLoadDefaultAwsConfig())
}

type CloudFormationClient interface {
	DescribeStacks(
		context.Context,
		*cloudformation.DescribeStacksInput,
		...func(*cloudformation.Options),
	) (*cloudformation.DescribeStacksOutput, error)
}

type CloudFormationClientFactoryFunc func() CloudFormationClient

func NewCloudFormationClient() CloudFormationClient {
	return cloudformation.NewFromConfig(ops.MustLoadDefaultAwsConfig())
}

func GetLambdaArn(
	ctx context.Context, cfc CloudFormationClient, stackName string,
) (string, error) {
	input := &cloudformation.DescribeStacksInput{StackName: aws.String(stackName)}
	output, err := cfc.DescribeStacks(ctx, input)

	if err != nil {
		const errFmt = "failed to get Lambda ARN for %s: %w"
		return "", ops.AwsError(fmt.Errorf(errFmt, stackName, err))
	} else if len(output.Stacks) == 0 {
		return "", fmt.Errorf("stack not found: %s", stackName)
	}

	for _, out := range output.Stacks[0].Outputs {
		if aws.ToString(out.OutputKey) == FunctionArnKey {
			return aws.ToString(out.OutputValue), nil
		}
	}
	const errFmt = `stack "%s" doesn't contain output key "%s"`
	return "", fmt.Errorf(errFmt, stackName, FunctionArnKey)
}
