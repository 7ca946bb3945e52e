package issue

import (
	"encoding/base64"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
)

// Preview is what the user sees before committing to an issuance: the
// assertion as it would be built, and the badge image inlined as a data URI.
type Preview struct {
	// Assertion is built for display only. It is never signed or persisted.
	Assertion *assertion.Assertion

	// ImageDataURI is the source image as a base64 data URI.
	ImageDataURI string
}

// Previewer runs the reduced pipeline variant: validation and assertion
// building only. It is constructed without signer, store or mailer, so side
// effects are impossible by construction, not by convention.
type Previewer struct {
	builder *assertion.Builder
}

// NewPreviewer creates a Previewer.
func NewPreviewer(builder *assertion.Builder) *Previewer {
	return &Previewer{builder: builder}
}

// Run validates the submission and builds the preview. The only failure
// mode is a Rejection; there is nothing fatal a preview can hit.
func (p *Previewer) Run(sub Submission) (*Preview, *Rejection) {
	img, rej := validate(sub)
	if rej != nil {
		return nil, rej
	}

	a, err := p.builder.Build(badgeSpec(sub), assertion.RecipientInput{
		Email:  sub.Recipient,
		Hashed: sub.Hashed,
		Salt:   sub.Salt,
	})
	if err != nil {
		return nil, &Rejection{Field: "recipient", Message: err.Error()}
	}

	return &Preview{
		Assertion:    a,
		ImageDataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(img),
	}, nil
}
