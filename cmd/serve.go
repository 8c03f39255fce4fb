// Copyright © 2023 Mike Bland <mbland@acm.org>
// See LICENSE.txt for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mbland/subrelay/form"
	"github.com/mbland/subrelay/handler"
	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/provider"
	"github.com/mbland/subrelay/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	FlagEnvFile = "env-file"
	FlagDecoy   = "decoy"
)

const (
	defaultPort     = 3000
	defaultTitle    = "Coming Soon"
	shutdownTimeout = 5 * time.Second
)

// ServeFunc runs srv until ctx is done or srv fails.
type ServeFunc func(ctx context.Context, srv *http.Server) error

func ListenAndServe(ctx context.Context, srv *http.Server) error {
	errs := make(chan error, 1)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(), shutdownTimeout,
	)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newServeCmd(getenv func(string) string, serve ServeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the relay and the signup form as a local web server",
		Long: `Serves the subscription relay at ` + server.RouteSubscribe + `, a plain
HTML signup form at ` + server.RoutePage + `, and a health check at ` +
			server.RouteHealth + `.

Reads the same environment variables as the Lambda function:

  RELAY_PROVIDER           "kit" (default) or "sendgrid"
  KIT_API_KEY, KIT_FORM_ID credentials for Kit
  SENDGRID_API_KEY, SENDGRID_LIST_ID
                           credentials for SendGrid
  RELAY_PROVIDER_BASE_URL  provider API base URL override
  RELAY_UPSTREAM_TIMEOUT   provider request timeout (default 10s)
  RELAY_ALLOWED_ORIGINS    comma separated CORS origins (default none,
                           allowing only same origin requests)
  LOG_LEVEL                logrus level (default "info")

Variables missing from the environment are read from the --env-file, if it
exists.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			srv, logger, err := newHttpServer(cmd, getenv)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(
				cmd.Context(), os.Interrupt, syscall.SIGTERM,
			)
			defer stop()

			logger.Infof("listening on %s", srv.Addr)
			err = serve(ctx, srv)
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			return err
		},
	}
	cmd.Flags().IntP(FlagPort, "p", defaultPort, "port to listen on")
	cmd.Flags().String(
		FlagRelayUrl, "",
		"relay URL the signup form submits to (default this server's relay)",
	)
	cmd.Flags().String(FlagTitle, defaultTitle, "signup page title")
	cmd.Flags().Bool(
		FlagDecoy, false, "accept every request without contacting the provider",
	)
	cmd.Flags().String(
		FlagEnvFile, ".env", "file supplying undefined environment variables",
	)
	return cmd
}

func newHttpServer(
	cmd *cobra.Command, getenv func(string) string,
) (*http.Server, *logrus.Logger, error) {
	port, err := cmd.Flags().GetInt(FlagPort)
	if err != nil {
		return nil, nil, err
	}
	if getenv, err = withEnvFile(getStringFlag(cmd, FlagEnvFile), getenv); err != nil {
		return nil, nil, err
	}

	opts, err := handler.GetOptions(getenv)
	if err != nil {
		return nil, nil, err
	}
	logger := handler.NewLogger(cmd.ErrOrStderr(), opts.LogLevel, true)
	agent, err := newAgent(cmd, opts, logger)
	if err != nil {
		return nil, nil, err
	}

	relayUrl := getStringFlag(cmd, FlagRelayUrl)
	if relayUrl == "" {
		relayUrl = fmt.Sprintf("http://localhost:%d%s", port, server.RouteSubscribe)
	}

	// The relay applies the upstream timeout itself.
	formRelay := &form.HttpRelayClient{Client: provider.NewClient(0), Url: relayUrl}

	s := &server.Server{
		Relay:          handler.NewHandler(agent, logger),
		FormRelay:      formRelay,
		Title:          getStringFlag(cmd, FlagTitle),
		AllowedOrigins: opts.AllowedOrigins,
		Log:            logger,
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv, logger, nil
}

func newAgent(
	cmd *cobra.Command, opts *handler.Options, logger *logrus.Logger,
) (ops.SubscriptionAgent, error) {
	if decoy, _ := cmd.Flags().GetBool(FlagDecoy); decoy {
		logger.Warn("decoy mode: subscribe requests won't reach the provider")
		return &ops.DecoyAgent{Log: logger}, nil
	}
	return opts.NewAgent(logger)
}

// withEnvFile returns a getenv that falls back to the variables in path.
//
// A missing file isn't an error, since the environment may define everything.
func withEnvFile(
	path string, getenv func(string) string,
) (func(string) string, error) {
	if path == "" {
		return getenv, nil
	}

	fileEnv, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return func(name string) string {
		if value := getenv(name); value != "" {
			return value
		}
		return fileEnv[name]
	}, nil
}
