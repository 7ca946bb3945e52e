package sign_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/sign"
)

func testAssertion(t *testing.T) *assertion.Assertion {
	t.Helper()

	b := assertion.NewBuilder()
	b.Now = func() time.Time { return time.Unix(1700000000, 0) }
	b.NewUID = func() string { return "uid-1" }

	a, err := b.Build(assertion.BadgeSpec{
		Name:        "Bug Squasher",
		Description: "Fixed 10 bugs",
		ImagePath:   "/tmp/badge.png",
		IssuerURL:   "https://issuer.example",
	}, assertion.RecipientInput{Email: "a@example.com", Hashed: true, Salt: "xyz"})
	require.NoError(t, err)
	return a
}

func TestSignAndVerify(t *testing.T) {
	// 1. Setup Key
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	// 2. Sign
	signer := sign.New(priv)
	signed, err := signer.Sign(testAssertion(t))
	require.NoError(t, err)
	require.NotEmpty(t, signed.Token)

	// 3. Verify against the public key counterpart
	jwsObj, err := jose.ParseSigned(signed.Token, []jose.SignatureAlgorithm{jose.RS256})
	require.NoError(t, err)

	payload, err := jwsObj.Verify(priv.Public())
	require.NoError(t, err)
	assert.Equal(t, signed.Payload, payload, "verified payload must match the signed payload")
}

func TestCanonicalPayloadStable(t *testing.T) {
	a := testAssertion(t)

	p1, err := sign.CanonicalPayload(a)
	require.NoError(t, err)
	p2, err := sign.CanonicalPayload(a)
	require.NoError(t, err)

	assert.Equal(t, p1, p2, "canonicalization must be byte-stable across calls")
}

func TestPayloadRoundTrip(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	signer := sign.New(priv)
	signed, err := signer.Sign(testAssertion(t))
	require.NoError(t, err)

	payload, err := sign.Payload(signed.Token)
	require.NoError(t, err)
	assert.Equal(t, signed.Payload, payload)
}

func TestSignWithoutKey(t *testing.T) {
	signer := sign.New(nil)

	_, err := signer.Sign(testAssertion(t))
	assert.Error(t, err)
}
