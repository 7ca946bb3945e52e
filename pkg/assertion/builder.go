package assertion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecipientInput is the raw recipient identity supplied by the caller.
// The email is assumed to be syntactically validated upstream; the builder
// only checks presence.
type RecipientInput struct {
	Email  string
	Hashed bool
	Salt   string
}

// InvalidInputError reports a missing or malformed input field. It is the
// only failure mode of the builder and is always user-recoverable.
type InvalidInputError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Builder constructs assertions for a single issuer. Safe for concurrent
// use; each Build call produces an independent value.
type Builder struct {
	// Now overrides the issuance timestamp source (for testing).
	Now func() time.Time

	// NewUID overrides assertion UID generation (for testing).
	NewUID func() string
}

// NewBuilder creates a Builder with real time and UUID sources.
func NewBuilder() *Builder {
	return &Builder{
		Now:    time.Now,
		NewUID: func() string { return uuid.New().String() },
	}
}

// Build constructs the unsigned assertion. The result is deterministic for
// identical inputs, apart from the UID and the issuance timestamp, which are
// taken at call time.
func (b *Builder) Build(badge BadgeSpec, rcpt RecipientInput) (*Assertion, error) {
	if badge.Name == "" {
		return nil, &InvalidInputError{Field: "name", Message: "badge name is required"}
	}
	if badge.Description == "" {
		return nil, &InvalidInputError{Field: "description", Message: "badge description is required"}
	}
	if badge.IssuerURL == "" {
		return nil, &InvalidInputError{Field: "issuer", Message: "issuer URL is required"}
	}
	if rcpt.Email == "" {
		return nil, &InvalidInputError{Field: "recipient", Message: "recipient email is required"}
	}

	identity := rcpt.Email
	if rcpt.Hashed {
		identity = HashIdentity(rcpt.Email, rcpt.Salt)
	}

	return &Assertion{
		UID: b.NewUID(),
		Recipient: Recipient{
			Identity: identity,
			Type:     "email",
			Hashed:   rcpt.Hashed,
			Salt:     rcpt.Salt,
		},
		Badge: BadgeRef{
			Name:        badge.Name,
			Description: badge.Description,
			Issuer:      badge.IssuerURL,
		},
		IssuedOn: b.Now().Unix(),
		Verify: Verification{
			Type: "signed",
			URL:  badge.IssuerURL,
		},
	}, nil
}

// HashIdentity produces the salted recipient hash in the "sha256$<hex>"
// form consumers expect: SHA-256 over the email with the salt appended.
func HashIdentity(email, salt string) string {
	sum := sha256.Sum256([]byte(email + salt))
	return "sha256$" + hex.EncodeToString(sum[:])
}
