package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/mbland/subrelay/handler"
)

func buildHandler() (*handler.Handler, error) {
	opts, err := handler.GetOptions(os.Getenv)
	if err != nil {
		return nil, err
	}

	// The CloudWatch logs show that the Lambda runtime already adds a
	// timestamp at the beginning of every log line emitted by the function.
	logger := handler.NewLogger(os.Stdout, opts.LogLevel, false)

	agent, err := opts.NewAgent(logger)
	if err != nil {
		return nil, err
	}
	return handler.NewHandler(agent, logger), nil
}

func main() {
	if h, err := buildHandler(); err != nil {
		log.Fatalf("Failed to initialize process: %s", err.Error())
	} else {
		lambda.Start(h.HandleEvent)
	}
}
