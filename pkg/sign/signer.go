// Package sign produces signed assertions as compact RS256 JWS tokens.
package sign

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/go-jose/go-jose/v4"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
)

// SignedAssertion is an assertion plus its cryptographic proof.
type SignedAssertion struct {
	// Token is the compact JWS serialization (header.payload.signature).
	Token string

	// Payload is the canonical assertion JSON the signature covers.
	Payload []byte
}

// Signer signs assertions with a process-lifetime RSA private key. The key
// is read-only after construction; Signer is safe for concurrent use.
type Signer struct {
	key *rsa.PrivateKey
}

// New creates a Signer for the given private key.
func New(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign serializes the assertion canonically and signs it as a compact JWS.
// Signing is deterministic in its payload: identical assertions canonicalize
// to identical bytes on sign and on later verification. Any failure here
// indicates a misconfigured deployment, never a user-input problem.
func (s *Signer) Sign(a *assertion.Assertion) (*SignedAssertion, error) {
	if s.key == nil {
		return nil, fmt.Errorf("signing key is not configured")
	}

	payload, err := CanonicalPayload(a)
	if err != nil {
		return nil, err
	}

	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.RS256, Key: s.key}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}

	jwsObj, err := signer.Sign(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sign assertion: %w", err)
	}

	token, err := jwsObj.CompactSerialize()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JWS: %w", err)
	}

	return &SignedAssertion{Token: token, Payload: payload}, nil
}

// CanonicalPayload produces the canonical JSON form of an assertion: marshal,
// round-trip through a map, and marshal again so keys come out sorted
// regardless of struct field order.
func CanonicalPayload(a *assertion.Assertion) ([]byte, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assertion: %w", err)
	}

	var rawMap map[string]interface{}
	if err := json.Unmarshal(data, &rawMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal into map: %w", err)
	}

	canonical, err := json.Marshal(rawMap)
	if err != nil {
		return nil, fmt.Errorf("failed to create canonical json: %w", err)
	}

	return canonical, nil
}

// Payload extracts the signed payload bytes from a compact JWS token without
// verifying the signature. Used by extraction tooling to inspect baked badges.
func Payload(token string) ([]byte, error) {
	jwsObj, err := jose.ParseSigned(token, []jose.SignatureAlgorithm{jose.RS256})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWS: %w", err)
	}
	return jwsObj.UnsafePayloadWithoutVerification(), nil
}
