// internal/interfaces/cli/hash_key.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/your-org/cafe-backend/internal/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

func newHashKeyCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-key [key]",
		Short: "Hash a bot API key for BOT_API_KEY_HASH",
		Long:  "Hash the given API key with bcrypt. Without an argument a new random key is generated and printed alongside its hash.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var key string
			if len(args) > 0 {
				key = args[0]
			} else {
				generated, err := auth.GenerateKey()
				if err != nil {
					return err
				}
				key = generated
				fmt.Fprintf(out, "BOT_API_KEY=%s\n", key)
			}

			hash, err := auth.HashKey(key, cost)
			if err != nil {
				return err
			}

			// Single quotes stop godotenv from expanding the $ separators
			fmt.Fprintf(out, "BOT_API_KEY_HASH='%s'\n", hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	return cmd
}
