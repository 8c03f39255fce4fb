package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbland/subrelay/ops"
	"github.com/mbland/subrelay/provider"
	"github.com/sirupsen/logrus"
)

const DefaultUpstreamTimeout = 10 * time.Second

// Options holds the process configuration read from the environment.
//
// Missing credentials aren't an error here. The process still starts, and
// each subscribe request fails with a configuration error until they're
// defined.
type Options struct {
	Provider        provider.Kind
	ProviderBaseUrl string
	Credentials     provider.Credentials
	UpstreamTimeout time.Duration
	AllowedOrigins  []string
	LogLevel        logrus.Level
}

// CredentialVars returns the names of the environment variables holding the
// API key and list identifier for kind.
func CredentialVars(kind provider.Kind) (apiKey, listId string) {
	if kind == provider.SendGrid {
		return "SENDGRID_API_KEY", "SENDGRID_LIST_ID"
	}
	return "KIT_API_KEY", "KIT_FORM_ID"
}

type InvalidEnvVarsError struct {
	Problems []string
}

func (e *InvalidEnvVarsError) Error() string {
	return "invalid environment variables: " + strings.Join(e.Problems, ", ")
}

func GetOptions(getenv func(string) string) (*Options, error) {
	env := environment{getenv: getenv}
	return env.options()
}

type environment struct {
	getenv   func(string) string
	problems []string
}

func (env *environment) options() (*Options, error) {
	opts := Options{
		UpstreamTimeout: DefaultUpstreamTimeout,
		LogLevel:        logrus.InfoLevel,
	}

	kind, err := provider.ParseKind(env.getenv("RELAY_PROVIDER"))
	env.check("RELAY_PROVIDER", err)
	opts.Provider = kind

	apiKeyVar, listIdVar := CredentialVars(kind)
	opts.Credentials.ApiKey = env.getenv(apiKeyVar)
	opts.Credentials.ListId = env.getenv(listIdVar)

	opts.ProviderBaseUrl = env.getenv("RELAY_PROVIDER_BASE_URL")
	if url := opts.ProviderBaseUrl; url != "" &&
		!(strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "http://")) {
		env.check("RELAY_PROVIDER_BASE_URL", fmt.Errorf("not an http(s) URL"))
	}

	if value := env.getenv("RELAY_UPSTREAM_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err == nil && timeout < 0 {
			err = fmt.Errorf("negative duration: %s", value)
		}
		env.check("RELAY_UPSTREAM_TIMEOUT", err)
		opts.UpstreamTimeout = timeout
	}

	for _, origin := range strings.Split(env.getenv("RELAY_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			opts.AllowedOrigins = append(opts.AllowedOrigins, origin)
		}
	}

	if value := env.getenv("LOG_LEVEL"); value != "" {
		level, err := logrus.ParseLevel(value)
		env.check("LOG_LEVEL", err)
		opts.LogLevel = level
	}

	if len(env.problems) != 0 {
		return nil, &InvalidEnvVarsError{Problems: env.problems}
	}
	return &opts, nil
}

func (env *environment) check(varname string, err error) {
	if err != nil {
		env.problems = append(env.problems, varname+": "+err.Error())
	}
}

// MissingCredentialVars returns the names of undefined credential variables.
func (opts *Options) MissingCredentialVars() (missing []string) {
	apiKeyVar, listIdVar := CredentialVars(opts.Provider)

	if opts.Credentials.ApiKey == "" {
		missing = append(missing, apiKeyVar)
	}
	if opts.Credentials.ListId == "" {
		missing = append(missing, listIdVar)
	}
	return
}

// NewAgent builds the production SubscriptionAgent described by opts.
func (opts *Options) NewAgent(logger *logrus.Logger) (*ops.ProdAgent, error) {
	p, err := provider.New(
		opts.Provider,
		opts.ProviderBaseUrl,
		provider.NewClient(opts.UpstreamTimeout),
	)
	if err != nil {
		return nil, err
	}

	if missing := opts.MissingCredentialVars(); len(missing) != 0 {
		logger.Warnf(
			"undefined environment variables: %s; "+
				"subscribe requests will fail until they're defined",
			strings.Join(missing, ", "),
		)
	}
	return &ops.ProdAgent{
		Credentials: opts.Credentials,
		Provider:    p,
		Timeout:     opts.UpstreamTimeout,
		Log:         logger,
	}, nil
}
