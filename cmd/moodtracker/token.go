package main

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Bylo24/moodtracker/internal/profile"
	"github.com/Bylo24/moodtracker/server/auth"
)

// tokenCmd mints a bearer token for local development and smoke tests.
// Production tokens come from the account backend, not from this command.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for development",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := cmd.Flags().GetInt32("user-id")
		if err != nil {
			return err
		}
		tier, err := cmd.Flags().GetString("tier")
		if err != nil {
			return err
		}
		ttl, err := cmd.Flags().GetDuration("ttl")
		if err != nil {
			return err
		}

		if tier != auth.TierFree && tier != auth.TierPremium {
			return errors.Errorf("unknown tier %q, want %q or %q", tier, auth.TierFree, auth.TierPremium)
		}

		instanceProfile := &profile.Profile{}
		instanceProfile.FromEnv()
		if instanceProfile.JWTSecret == "" {
			return errors.New("MOODTRACKER_JWT_SECRET is not set, the server runs in single-user mode and needs no token")
		}

		token, err := auth.New(instanceProfile.JWTSecret, instanceProfile.PremiumOpen).IssueToken(userID, tier, ttl)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Int32("user-id", 1, "numeric user ID to embed in the token")
	tokenCmd.Flags().String("tier", auth.TierFree, `account tier, "free" or "premium"`)
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
}
