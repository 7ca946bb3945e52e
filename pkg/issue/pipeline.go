package issue

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/bake"
	"github.com/badgeforge/badgeforge-core/pkg/mail"
	"github.com/badgeforge/badgeforge-core/pkg/sign"
	"github.com/badgeforge/badgeforge-core/pkg/store"
)

// Subject is the fixed subject line for badge delivery mail.
const Subject = "You have been awarded a badge"

const bodyTemplate = `Congratulations!

You have been awarded the badge %q by %s.

%s

The attached image carries your signed badge. Keep it: the image itself is
the portable credential.
`

// Pipeline runs the full issuance flow for one submission at a time.
// Collaborators are injected once at construction and used read-only, so a
// single Pipeline serves concurrent requests without coordination.
type Pipeline struct {
	builder *assertion.Builder
	signer  *sign.Signer
	store   store.Store
	mailer  mail.Mailer
}

// NewPipeline wires an issuance pipeline from its collaborators.
func NewPipeline(builder *assertion.Builder, signer *sign.Signer, st store.Store, mailer mail.Mailer) *Pipeline {
	return &Pipeline{
		builder: builder,
		signer:  signer,
		store:   st,
		mailer:  mailer,
	}
}

// Run executes one issuance: validate, build, sign, store the original
// image, bake, email. Stages run strictly in order and short-circuit on the
// first error. Only validation and assertion building can reject; every
// later fault is fatal, reported exactly once, and never retried here.
func (p *Pipeline) Run(ctx context.Context, sub Submission) Result {
	// Validating
	img, rej := validate(sub)
	if rej != nil {
		return Result{Status: StatusRejected, Rejection: rej}
	}

	// Building. A malformed recipient stems from user input, so builder
	// errors stay on the rejection path.
	a, err := p.builder.Build(badgeSpec(sub), assertion.RecipientInput{
		Email:  sub.Recipient,
		Hashed: sub.Hashed,
		Salt:   sub.Salt,
	})
	if err != nil {
		var inv *assertion.InvalidInputError
		if errors.As(err, &inv) {
			return rejected(inv.Field, inv.Message)
		}
		return rejected("recipient", err.Error())
	}

	// Signing
	signed, err := p.signer.Sign(a)
	if err != nil {
		return failed(WrapError(ErrCodeSigningFailed, "failed to sign assertion", err))
	}

	// Storing. The original, unbaked image is what gets persisted.
	artifactName := a.UID + ".png"
	artifactURL, err := p.store.Put(ctx, artifactName, img)
	if err != nil {
		return failed(WrapError(ErrCodeStoreFailed, "failed to store badge image", err))
	}

	// Baking
	baked, err := bake.Bake(img, signed.Token)
	if err != nil {
		return failed(bakeError(err))
	}

	// Emailing
	msg := mail.Message{
		To:             sub.Recipient,
		Subject:        Subject,
		Body:           fmt.Sprintf(bodyTemplate, sub.Name, sub.IssuerURL, sub.Description),
		AttachmentName: artifactName,
		Attachment:     baked,
	}
	if err := p.mailer.Send(ctx, msg); err != nil {
		return failed(WrapError(ErrCodeMailFailed, "failed to deliver badge mail", err))
	}

	return delivered(sub.Recipient, artifactURL)
}

// validate checks the submission's required fields and reads the image.
// Any violation is terminal for the run before any side effect happens.
func validate(sub Submission) ([]byte, *Rejection) {
	if sub.Name == "" {
		return nil, &Rejection{Field: "name", Message: "badge name is required"}
	}
	if sub.Description == "" {
		return nil, &Rejection{Field: "description", Message: "badge description is required"}
	}
	if sub.Recipient == "" {
		return nil, &Rejection{Field: "recipient", Message: "recipient email is required"}
	}
	if sub.IssuerURL == "" {
		return nil, &Rejection{Field: "issuer", Message: "issuer URL is required"}
	}
	if sub.ImagePath == "" {
		return nil, &Rejection{Field: "image", Message: "badge image is required"}
	}

	img, err := os.ReadFile(sub.ImagePath)
	if err != nil {
		return nil, &Rejection{Field: "image", Message: "badge image could not be read"}
	}
	if !bake.IsPNG(img) {
		return nil, &Rejection{Field: "image", Message: "badge image must be a PNG"}
	}
	return img, nil
}

func badgeSpec(sub Submission) assertion.BadgeSpec {
	return assertion.BadgeSpec{
		Name:        sub.Name,
		Description: sub.Description,
		ImagePath:   sub.ImagePath,
		IssuerURL:   sub.IssuerURL,
	}
}

// bakeError maps baker failures onto the pipeline's error codes.
func bakeError(err error) *Error {
	switch {
	case errors.Is(err, bake.ErrUnsupportedFormat):
		return WrapError(ErrCodeFormatUnsupported, "image is not a supported container", err)
	default:
		return WrapError(ErrCodeImageCorrupt, "image container could not be parsed", err)
	}
}
