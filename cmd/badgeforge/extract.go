package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/bake"
	"github.com/badgeforge/badgeforge-core/pkg/sign"
)

var extractShowToken bool

var extractCmd = &cobra.Command{
	Use:   "extract [baked.png]",
	Short: "Extract the signed assertion from a baked badge",
	Long: `Extract the signed assertion embedded in a baked badge image and
display its claims. The signature is not verified; this inspects what the
image carries.

Examples:
  badgeforge extract badge-baked.png

  # Print only the raw JWS token (for scripting)
  badgeforge extract badge-baked.png --token`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		img, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		token, err := bake.Unbake(img)
		if err != nil {
			return fmt.Errorf("failed to extract badge: %w", err)
		}

		if extractShowToken {
			fmt.Println(token)
			return nil
		}

		payload, err := sign.Payload(token)
		if err != nil {
			return err
		}

		var a assertion.Assertion
		if err := json.Unmarshal(payload, &a); err != nil {
			return fmt.Errorf("failed to decode assertion payload: %w", err)
		}

		fmt.Printf("📛 Embedded Badge:\n")
		fmt.Printf("   UID: %s\n", a.UID)
		fmt.Printf("   Badge: %s\n", a.Badge.Name)
		fmt.Printf("   Description: %s\n", a.Badge.Description)
		fmt.Printf("   Issuer: %s\n", a.Badge.Issuer)
		fmt.Printf("   Recipient: %s\n", a.Recipient.Identity)
		fmt.Printf("   Issued On: %s\n", a.IssuedAtTime().Format(time.RFC3339))
		fmt.Printf("   Verify: %s (%s)\n", a.Verify.Type, a.Verify.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&extractShowToken, "token", false, "Print only the raw JWS token")
}
