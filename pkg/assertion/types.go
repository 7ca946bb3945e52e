// Package assertion builds unsigned badge assertions from badge metadata
// and a recipient identity, following the Open Badges assertion model.
package assertion

import "time"

// BadgeSpec describes the badge being awarded. All fields are required;
// ImagePath must point to a readable PNG at submission time.
type BadgeSpec struct {
	// Name is the human-readable badge title (e.g., "Bug Squasher").
	Name string `json:"name"`

	// Description explains what the badge was awarded for.
	Description string `json:"description"`

	// ImagePath is the local path to the badge image. It is consumed by the
	// pipeline and never serialized into the assertion itself.
	ImagePath string `json:"-"`

	// IssuerURL identifies the entity on whose behalf the badge is signed.
	IssuerURL string `json:"issuer"`
}

// Recipient identifies who the badge was awarded to.
type Recipient struct {
	// Identity is the recipient's email address, or its salted SHA-256 hash
	// in the form "sha256$<hex>" when Hashed is true.
	Identity string `json:"identity"`

	// Type is the identity scheme. Only "email" is issued today.
	Type string `json:"type"`

	// Hashed indicates whether Identity is a hash rather than plaintext.
	Hashed bool `json:"hashed"`

	// Salt is the salt appended to the email before hashing. An unconfigured
	// salt means "hash with the empty string", never "skip hashing"; hashing
	// is controlled solely by Hashed.
	Salt string `json:"salt,omitempty"`
}

// Verification tells a consumer how the assertion can be verified.
type Verification struct {
	// Type is the verification scheme (always "signed" for baked badges).
	Type string `json:"type"`

	// URL is where the issuer's public key can be fetched.
	URL string `json:"url"`
}

// BadgeRef is the badge metadata embedded in an assertion.
type BadgeRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Issuer      string `json:"issuer"`
}

// Assertion is the unsigned credential claim: a statement that a named
// achievement was awarded to a recipient at a point in time. Immutable
// once built.
type Assertion struct {
	// UID uniquely identifies this issuance.
	UID string `json:"uid"`

	// Recipient is who the badge was awarded to.
	Recipient Recipient `json:"recipient"`

	// Badge is the awarded badge's metadata.
	Badge BadgeRef `json:"badge"`

	// IssuedOn is the issuance timestamp (Unix seconds).
	IssuedOn int64 `json:"issuedOn"`

	// Verify describes how to verify the signed form of this assertion.
	Verify Verification `json:"verify"`
}

// IssuedAtTime returns IssuedOn as a time.Time.
func (a *Assertion) IssuedAtTime() time.Time {
	return time.Unix(a.IssuedOn, 0)
}
