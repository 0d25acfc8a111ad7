// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/shopthread/community-service/internal/config"
	"github.com/shopthread/community-service/internal/db"
	"github.com/shopthread/community-service/internal/logging"
	"github.com/shopthread/community-service/internal/monitoring/prometheus"
	"github.com/shopthread/community-service/internal/storage"
	"github.com/shopthread/community-service/internal/tracing"
	"github.com/shopthread/community-service/pkg/tenant"
)

var (
	repairTenantID     string
	repairTenantDomain string
	repairFallback     string
)

// repairOwnerCmd restores the owner invariant for a tenant whose owner
// account was deleted or banned out of reach. It promotes the oldest
// eligible admin, falls back to the oldest moderator, and as a last resort
// creates an emergency admin from --email.
var repairOwnerCmd = &cobra.Command{
	Use:   "repair-owner",
	Short: "Promote a new owner for an ownerless tenant",
	Run: func(cmd *cobra.Command, args []string) {
		if err := repairOwner(cmd); err != nil {
			cmd.PrintErrf("Failed to repair owner: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	repairOwnerCmd.Flags().StringVar(&repairTenantID, "tenant-id", "", "Tenant ID")
	repairOwnerCmd.Flags().StringVar(&repairTenantDomain, "tenant-domain", "", "Tenant domain, used when --tenant-id is not set")
	repairOwnerCmd.Flags().StringVar(&repairFallback, "email", "", "Emergency admin email when no user is promotable")

	rootCmd.AddCommand(repairOwnerCmd)
}

func repairOwner(cmd *cobra.Command) error {
	if repairTenantID == "" && repairTenantDomain == "" {
		return fmt.Errorf("either --tenant-id or --tenant-domain is required")
	}

	specs := new(config.EnvSpec)
	if err := envconfig.Process("", specs); err != nil {
		return fmt.Errorf("issues with environment sourcing: %s", err)
	}

	logger := logging.NewLogger(specs.LogLevel)
	defer logger.Sync()

	monitor := prometheus.NewMonitor("community-service", logger)
	tracer := tracing.NewTracer(tracing.NewConfig(false, "", "", logger))

	dbClient, err := db.NewDBClient(db.Config{DSN: specs.DSN, MaxConns: 2, MinConns: 1}, tracer, monitor, logger)
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}
	defer dbClient.Close()

	store := storage.NewTenantStore(dbClient, tracer, monitor, logger)
	ctx := cmd.Context()

	tenantID := repairTenantID
	if tenantID == "" {
		t, err := store.FindTenantByDomain(ctx, repairTenantDomain)
		if err != nil {
			return fmt.Errorf("failed to look up tenant %q: %v", repairTenantDomain, err)
		}
		tenantID = t.ID
	}

	bootstrap := tenant.NewBootstrap(store, dbClient, tracer, monitor, logger)
	owner, err := bootstrap.RepairOwner(ctx, tenantID, repairFallback)
	if err != nil {
		return err
	}

	cmd.Printf("Tenant %s is now owned by %s (%s)\n", tenantID, owner.Email, owner.ID)
	return nil
}
