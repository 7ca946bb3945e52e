package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/issue"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview a badge without issuing it",
	Long: `Preview what would be issued for a submission.

The preview builds the assertion for display only. Nothing is signed, baked,
stored or emailed.

Examples:
  badgeforge preview --name "Bug Squasher" --description "Fixed 10 bugs" \
    --image badge.png --recipient a@example.com --issuer https://issuer.example`,
	RunE: func(_ *cobra.Command, _ []string) error {
		previewer := issue.NewPreviewer(assertion.NewBuilder())

		preview, rej := previewer.Run(submissionFromFlags())
		if rej != nil {
			fmt.Fprintf(os.Stderr, "❌ Submission Rejected\n")
			fmt.Fprintf(os.Stderr, "   Field: %s\n", rej.Field)
			fmt.Fprintf(os.Stderr, "   Message: %s\n", rej.Message)
			return fmt.Errorf("submission rejected: %s", rej.Field)
		}

		a := preview.Assertion
		fmt.Printf("🔍 Badge Preview:\n")
		fmt.Printf("   Badge: %s\n", a.Badge.Name)
		fmt.Printf("   Description: %s\n", a.Badge.Description)
		fmt.Printf("   Issuer: %s\n", a.Badge.Issuer)
		fmt.Printf("   Recipient: %s\n", a.Recipient.Identity)
		if a.Recipient.Hashed {
			fmt.Printf("   (identity hashed, salt %q)\n", a.Recipient.Salt)
		}
		fmt.Printf("   Issued On: %s\n", a.IssuedAtTime().Format(time.RFC3339))

		// The data URI goes to stdout so callers can pipe it into a viewer.
		fmt.Println(preview.ImageDataURI)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	addBadgeFlags(previewCmd)
}
