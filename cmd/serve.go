// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/shopthread/community-service/internal/config"
	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring/prometheus"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/pkg/authentication"
	"github.com/shopthread/community-service/pkg/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "serve starts the web server",
	Long:  `Launch the web application, list of environment variables is available in the readme`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(); err != nil {
			fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve() error {
	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		panic(fmt.Errorf("issues with environment sourcing: %s", err))
	}

	logger := logging.NewLogger(specs.LogLevel)
	logger.Debugf("env vars: %v", specs)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("community-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(specs.TracingEnabled, specs.OtelGRPCEndpoint, specs.OtelHTTPEndpoint, logger))

	dbConfig := db.Config{
		DSN:             specs.DSN,
		MaxConns:        specs.DBMaxConns,
		MinConns:        specs.DBMinConns,
		MaxConnLifetime: specs.DBMaxConnLifetime,
		MaxConnIdleTime: specs.DBMaxConnIdleTime,
		TracingEnabled:  specs.TracingEnabled,
	}
	dbClient, err := db.NewDBClient(dbConfig, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()
	store := storage.NewTenantStore(dbClient, tracer, monitor, logger)

	tokens := authentication.NewSessionTokenValidator(
		specs.PlatformSharedSecret,
		specs.PlatformAPIKey,
		tracer,
		monitor,
		logger,
	)
	sessions := authentication.NewCookieSessionCodec(specs.SessionSecret, tracer, monitor, logger)

	var login authentication.LoginVerifierInterface
	var oauthConfig *oauth2.Config
	if specs.OIDCIssuer != "" {
		login, err = authentication.NewOIDCLoginVerifier(
			context.Background(),
			specs.OIDCIssuer,
			specs.OIDCClientID,
			tracer,
			monitor,
			logger,
		)
		if err != nil {
			return fmt.Errorf("failed to set up login verification: %v", err)
		}
		oauthConfig, err = authentication.NewLoginOAuthConfig(
			context.Background(),
			specs.OIDCIssuer,
			specs.OIDCClientID,
			specs.OIDCClientSecret,
			specs.OIDCRedirectURL,
		)
		if err != nil {
			return fmt.Errorf("failed to set up login flow: %v", err)
		}
		logger.Info("Standalone login is enabled")
	} else {
		login = authentication.NewNoopLoginVerifier()
		logger.Info("Standalone login is disabled, embedded sessions only")
	}

	router := web.NewRouter(
		store,
		dbClient,
		tokens,
		sessions,
		login,
		oauthConfig,
		tracer,
		monitor,
		logger,
	)
	logger.Infof("Starting HTTP server on port %v", specs.Port)

	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%v", specs.Port),
		WriteTimeout: time.Second * 60,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      router,
	}

	var serverError error
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Security().SystemStartup()
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError = fmt.Errorf("server error: %w", err)
			c <- os.Interrupt
		}
	}()

	<-c

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Security().SystemShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		serverError = fmt.Errorf("server shutdown error: %w", err)
	}

	return serverError
}
