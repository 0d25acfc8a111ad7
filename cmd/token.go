// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

var (
	tokenSecret   string
	tokenAudience string
	tokenDomain   string
	tokenSubject  string
	tokenEmail    string
	tokenLifetime time.Duration
)

// tokenCmd mints a platform-style session token for local development, so
// the embedded token exchange can be exercised without a real platform in
// front of the service.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a development session token",
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now().UTC()
		claims := jwt.MapClaims{
			"dest": fmt.Sprintf("https://%s", tokenDomain),
			"sub":  tokenSubject,
			"aud":  tokenAudience,
			"iat":  now.Unix(),
			"nbf":  now.Unix(),
			"exp":  now.Add(tokenLifetime).Unix(),
		}
		if tokenEmail != "" {
			claims["email"] = tokenEmail
		}

		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(tokenSecret))
		if err != nil {
			log.Fatalf("Failed to sign token: %v", err)
		}

		fmt.Println(signed)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "Shared secret to sign with")
	tokenCmd.Flags().StringVar(&tokenAudience, "audience", "", "API key audience claim")
	tokenCmd.Flags().StringVar(&tokenDomain, "domain", "", "Tenant domain for the destination claim")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "dev-user", "Platform-side subject")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Email claim (optional)")
	tokenCmd.Flags().DurationVar(&tokenLifetime, "lifetime", time.Minute, "Token lifetime")

	_ = tokenCmd.MarkFlagRequired("secret")
	_ = tokenCmd.MarkFlagRequired("audience")
	_ = tokenCmd.MarkFlagRequired("domain")
}
