package config

import (
	"time"
)

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	// Shared secret the embedding platform signs session tokens with, and
	// the API key identifying this app as their audience.
	PlatformSharedSecret string `envconfig:"platform_shared_secret" required:"true"`
	PlatformAPIKey       string `envconfig:"platform_api_key" required:"true"`

	// Secret for the locally issued session cookie.
	SessionSecret string `envconfig:"session_secret" required:"true"`

	// Standalone OAuth login. Optional: embedded deployments run without it.
	OIDCIssuer       string `envconfig:"oidc_issuer"`
	OIDCClientID     string `envconfig:"oidc_client_id"`
	OIDCClientSecret string `envconfig:"oidc_client_secret"`
	OIDCRedirectURL  string `envconfig:"oidc_redirect_url"`
}
