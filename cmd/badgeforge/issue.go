package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/issue"
	"github.com/badgeforge/badgeforge-core/pkg/mail"
	"github.com/badgeforge/badgeforge-core/pkg/sign"
	"github.com/badgeforge/badgeforge-core/pkg/store"
)

var (
	// Badge flags (shared with preview)
	badgeName        string
	badgeDescription string
	badgeImage       string
	badgeIssuer      string
	badgeRecipient   string
	badgeHashed      bool
	badgeSalt        string

	// Issue-only flags
	issueKeyFile  string
	issueStoreDir string
	issueS3Bucket string
	smtpHost      string
	smtpPort      int
	smtpUser      string
	smtpPass      string
	mailFrom      string
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a badge to a recipient",
	Long: `Issue a badge: build and sign the assertion, bake it into the image,
store the original image, and email the baked badge to the recipient.

The recipient identity is hashed by default. An unset salt hashes with the
empty string; use --salt to configure one.

Examples:
  # Issue with a local filesystem store
  badgeforge issue --name "Bug Squasher" --description "Fixed 10 bugs" \
    --image badge.png --recipient a@example.com --salt xyz \
    --issuer https://issuer.example --key private.jwk \
    --store-dir ./artifacts --smtp-host smtp.example.com --from badges@issuer.example

  # Issue with an S3 store
  badgeforge issue --name "Bug Squasher" --description "Fixed 10 bugs" \
    --image badge.png --recipient a@example.com \
    --issuer https://issuer.example --key private.jwk \
    --s3-bucket issuer-badges --smtp-host smtp.example.com --from badges@issuer.example`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		// 1. Load Signing Key (held for the process lifetime, read-only)
		priv, err := loadSigningKey(issueKeyFile)
		if err != nil {
			return err
		}

		// 2. Wire Collaborators
		var st store.Store
		switch {
		case issueS3Bucket != "":
			st, err = store.NewS3Store(ctx, issueS3Bucket)
			if err != nil {
				return err
			}
		case issueStoreDir != "":
			st = store.NewFSStore(issueStoreDir)
		default:
			return fmt.Errorf("object store required: use --store-dir or --s3-bucket")
		}

		mailer := mail.NewSMTPMailer(smtpHost, smtpPort, smtpUser, smtpPass, mailFrom)
		pipeline := issue.NewPipeline(assertion.NewBuilder(), sign.New(priv), st, mailer)

		// 3. Run
		result := pipeline.Run(ctx, submissionFromFlags())

		// 4. Report
		switch result.Status {
		case issue.StatusDelivered:
			fmt.Printf("✅ Badge Delivered!\n\n")
			fmt.Printf("📛 Issuance Details:\n")
			fmt.Printf("   Badge: %s\n", badgeName)
			fmt.Printf("   Recipient: %s\n", result.Recipient)
			fmt.Printf("   Artifact: %s\n", result.ArtifactURL)
			fmt.Printf("   Issued At: %s\n", time.Now().Format(time.RFC3339))
			return nil

		case issue.StatusRejected:
			fmt.Fprintf(os.Stderr, "❌ Submission Rejected\n")
			fmt.Fprintf(os.Stderr, "   Field: %s\n", result.Rejection.Field)
			fmt.Fprintf(os.Stderr, "   Message: %s\n", result.Rejection.Message)
			return fmt.Errorf("submission rejected: %s", result.Rejection.Field)

		default:
			fmt.Fprintf(os.Stderr, "❌ Issuance Failed\n")
			if issueErr, ok := issue.AsError(result.Err); ok {
				fmt.Fprintf(os.Stderr, "   Error: %s\n", issueErr.Code)
				fmt.Fprintf(os.Stderr, "   Message: %s\n", issueErr.Message)
				if issueErr.Cause != nil {
					fmt.Fprintf(os.Stderr, "   Cause: %v\n", issueErr.Cause)
				}
			}
			return fmt.Errorf("issuance failed: %v", result.Err)
		}
	},
}

func submissionFromFlags() issue.Submission {
	return issue.Submission{
		Name:        badgeName,
		Description: badgeDescription,
		ImagePath:   badgeImage,
		Recipient:   badgeRecipient,
		Hashed:      badgeHashed,
		Salt:        badgeSalt,
		IssuerURL:   badgeIssuer,
	}
}

func addBadgeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&badgeName, "name", "", "Badge title")
	cmd.Flags().StringVar(&badgeDescription, "description", "", "What the badge was awarded for")
	cmd.Flags().StringVar(&badgeImage, "image", "", "Path to the badge PNG")
	cmd.Flags().StringVar(&badgeIssuer, "issuer", "", "Issuer URL")
	cmd.Flags().StringVar(&badgeRecipient, "recipient", "", "Recipient email address")
	cmd.Flags().BoolVar(&badgeHashed, "hashed", true, "Store a hashed recipient identity")
	cmd.Flags().StringVar(&badgeSalt, "salt", "", "Salt for recipient hashing (empty salt still hashes)")
}

func init() {
	rootCmd.AddCommand(issueCmd)
	addBadgeFlags(issueCmd)

	issueCmd.Flags().StringVar(&issueKeyFile, "key", "private.jwk", "Path to RSA private key file (JWK format)")
	issueCmd.Flags().StringVar(&issueStoreDir, "store-dir", "", "Directory for the filesystem object store")
	issueCmd.Flags().StringVar(&issueS3Bucket, "s3-bucket", "", "S3 bucket for the object store")
	issueCmd.Flags().StringVar(&smtpHost, "smtp-host", "localhost", "SMTP server host")
	issueCmd.Flags().IntVar(&smtpPort, "smtp-port", 587, "SMTP server port")
	issueCmd.Flags().StringVar(&smtpUser, "smtp-user", "", "SMTP username")
	issueCmd.Flags().StringVar(&smtpPass, "smtp-pass", "", "SMTP password")
	issueCmd.Flags().StringVar(&mailFrom, "from", "", "Sender address for badge mail")
}
