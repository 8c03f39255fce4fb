// Copyright © 2023 Mike Bland <mbland@acm.org>.
// See LICENSE.txt for details.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

const subrelayDesc = "Relay for coming-soon page signups to an email " +
	"marketing provider"
const subrelayDescLong = subrelayDesc + "\n\n" +
	`See the https://github.com/mbland/subrelay README for details.

To run the relay and the signup form locally, reading settings from the
environment or a .env file:
  subrelay serve --port 3000

To subscribe an address through a deployed relay Lambda function:
  subrelay subscribe -s <STACK_NAME> <EMAIL> [NAME]
`

var rootCmd = &cobra.Command{
	Use:     "subrelay",
	Version: "v0.1.0",
	Short:   subrelayDesc,
	Long:    subrelayDescLong,
}

func init() {
	rootCmd.AddCommand(newServeCmd(os.Getenv, ListenAndServe))
	rootCmd.AddCommand(newSubscribeCmd(NewCloudFormationClient, NewLambdaClient))
}

func Execute() error {
	return rootCmd.Execute()
}
