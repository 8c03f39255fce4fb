// Copyright © 2023 Mike Bland <mbland@acm.org>
// See LICENSE.txt for details.

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	ltypes "github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/google/uuid"
	"github.com/mbland/subrelay/types"
	"github.com/spf13/cobra"
)

const subscribePath = "/api/subscribe"

func newSubscribeCmd(
	newCfClient CloudFormationClientFactoryFunc,
	newLambdaClient LambdaClientFactoryFunc,
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscribe <email> [name]",
		Short: "Subscribe an address through the deployed relay",
		Long: `Invokes the relay Lambda function from a subrelay CloudFormation stack
with the same request the coming soon page would send, then reports the
result.

The function's ARN comes from the stack's "` + FunctionArnKey + `" output.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			req := &types.SubscriptionRequest{Email: args[0]}
			if len(args) == 2 {
				req.Name = args[1]
			}
			return subscribe(
				cmd.Context(),
				cmd.OutOrStdout(),
				newCfClient(),
				newLambdaClient(),
				getStackName(cmd),
				req,
			)
		},
	}
	registerStackName(cmd)
	_ = cmd.MarkFlagRequired(FlagStackName)
	return cmd
}

func subscribe(
	ctx context.Context,
	out io.Writer,
	cfc CloudFormationClient,
	lc LambdaClient,
	stackName string,
	req *types.SubscriptionRequest,
) (err error) {
	var lambdaArn string
	var output *lambda.InvokeOutput
	var response events.APIGatewayV2HTTPResponse
	var result types.SubscriptionResult

	if lambdaArn, err = GetLambdaArn(ctx, cfc, stackName); err != nil {
		return
	}

	input := &lambda.InvokeInput{
		FunctionName: aws.String(lambdaArn),
		LogType:      ltypes.LogTypeTail,
		Payload:      mustMarshal(newRelayEvent(req), "relay request"),
	}

	// https://docs.aws.amazon.com/lambda/latest/dg/invocation-sync.html
	if output, err = lc.Invoke(ctx, input); err != nil {
		err = fmt.Errorf("error invoking Lambda function: %s", err)
	} else if output.StatusCode != http.StatusOK {
		const errFmt = "received non-200 response from Lambda invocation: %s"
		err = fmt.Errorf(errFmt, http.StatusText(int(output.StatusCode)))
	} else if output.FunctionError != nil {
		const errFmt = "error executing Lambda function: %s: %s"
		funcErr := aws.ToString(output.FunctionError)
		err = fmt.Errorf(errFmt, funcErr, string(output.Payload))
	} else if err = json.Unmarshal(output.Payload, &response); err != nil {
		const errFmt = "failed to unmarshal Lambda response payload: %s: %s"
		err = fmt.Errorf(errFmt, err, string(output.Payload))
	} else if err = json.Unmarshal([]byte(response.Body), &result); err != nil {
		const errFmt = "failed to unmarshal relay response body: %s: %s"
		err = fmt.Errorf(errFmt, err, response.Body)
	} else if !result.Success {
		const errFmt = "subscribing %s failed: %d: %s"
		err = fmt.Errorf(errFmt, req.Email, response.StatusCode, result.Error)
	} else {
		fmt.Fprintf(out, "Subscribed %s successfully.\n", req.Email)
	}
	return
}

func newRelayEvent(req *types.SubscriptionRequest) *events.APIGatewayV2HTTPRequest {
	return &events.APIGatewayV2HTTPRequest{
		Version: "2.0",
		RawPath: subscribePath,
		Headers: map[string]string{"content-type": "application/json"},
		Body:    string(mustMarshal(req, "subscription request")),
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			RequestID: uuid.NewString(),
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    http.MethodPost,
				Path:      subscribePath,
				Protocol:  "HTTP/1.1",
				SourceIP:  "127.0.0.1",
				UserAgent: "subrelay-cli",
			},
		},
	}
}

func mustMarshal(v any, what string) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		panic("failed to marshal " + what + ": " + err.Error())
	}
	return payload
}
