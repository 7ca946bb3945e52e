package issue_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/bake"
	"github.com/badgeforge/badgeforge-core/pkg/issue"
	"github.com/badgeforge/badgeforge-core/pkg/mail"
	"github.com/badgeforge/badgeforge-core/pkg/sign"
)

// mockStore is an in-memory object store that records calls.
type mockStore struct {
	Calls    int
	LastName string
	LastData []byte
	Err      error
}

func (m *mockStore) Put(_ context.Context, name string, data []byte) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	m.LastName = name
	m.LastData = append([]byte(nil), data...)
	return "https://store.example/" + name, nil
}

// mockMailer records sent messages.
type mockMailer struct {
	Calls int
	Last  mail.Message
	Err   error
}

func (m *mockMailer) Send(_ context.Context, msg mail.Message) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	m.Last = msg
	return nil
}

// writeTestPNG writes a small real PNG to a temp file and returns its path
// and bytes.
func writeTestPNG(t *testing.T) (string, []byte) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: 30, G: 30, B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "badge.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path, buf.Bytes()
}

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return priv
}

func validSubmission(imagePath string) issue.Submission {
	return issue.Submission{
		Name:        "Bug Squasher",
		Description: "Fixed 10 bugs",
		ImagePath:   imagePath,
		Recipient:   "a@example.com",
		Hashed:      true,
		Salt:        "xyz",
		IssuerURL:   "https://issuer.example",
	}
}

func newPipeline(t *testing.T, st *mockStore, mailer *mockMailer) *issue.Pipeline {
	t.Helper()
	return issue.NewPipeline(assertion.NewBuilder(), sign.New(testKey(t)), st, mailer)
}

func TestPipelineDelivered(t *testing.T) {
	imagePath, imgBytes := writeTestPNG(t)
	st := &mockStore{}
	mailer := &mockMailer{}
	pipeline := newPipeline(t, st, mailer)

	result := pipeline.Run(context.Background(), validSubmission(imagePath))

	require.Equal(t, issue.StatusDelivered, result.Status, "result: %+v", result)
	assert.Equal(t, "a@example.com", result.Recipient)
	assert.NotEmpty(t, result.ArtifactURL)

	// The store receives the original, unbaked image.
	require.Equal(t, 1, st.Calls)
	assert.Equal(t, imgBytes, st.LastData)

	// The mail attachment is the baked artifact; unbaking it yields the
	// signed assertion with the hashed recipient identity.
	require.Equal(t, 1, mailer.Calls)
	assert.Equal(t, "a@example.com", mailer.Last.To)
	assert.Equal(t, issue.Subject, mailer.Last.Subject)
	assert.Contains(t, mailer.Last.Body, "Bug Squasher")

	token, err := bake.Unbake(mailer.Last.Attachment)
	require.NoError(t, err)

	payload, err := sign.Payload(token)
	require.NoError(t, err)

	var a assertion.Assertion
	require.NoError(t, json.Unmarshal(payload, &a))
	assert.Equal(t, "Bug Squasher", a.Badge.Name)
	assert.Equal(t, assertion.HashIdentity("a@example.com", "xyz"), a.Recipient.Identity)
	assert.True(t, a.Recipient.Hashed)
}

func TestPipelineRejectsMissingFields(t *testing.T) {
	imagePath, _ := writeTestPNG(t)

	tests := []struct {
		name      string
		mutate    func(*issue.Submission)
		wantField string
	}{
		{"missing name", func(s *issue.Submission) { s.Name = "" }, "name"},
		{"missing description", func(s *issue.Submission) { s.Description = "" }, "description"},
		{"missing recipient", func(s *issue.Submission) { s.Recipient = "" }, "recipient"},
		{"missing issuer", func(s *issue.Submission) { s.IssuerURL = "" }, "issuer"},
		{"missing image", func(s *issue.Submission) { s.ImagePath = "" }, "image"},
		{"unreadable image", func(s *issue.Submission) { s.ImagePath = "/nonexistent/badge.png" }, "image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &mockStore{}
			mailer := &mockMailer{}
			pipeline := newPipeline(t, st, mailer)

			sub := validSubmission(imagePath)
			tt.mutate(&sub)
			result := pipeline.Run(context.Background(), sub)

			require.Equal(t, issue.StatusRejected, result.Status)
			require.NotNil(t, result.Rejection)
			assert.Equal(t, tt.wantField, result.Rejection.Field)

			// Rejection is terminal before any side effect.
			assert.Equal(t, 0, st.Calls)
			assert.Equal(t, 0, mailer.Calls)
		})
	}
}

func TestPipelineRejectsNonPNGImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badge.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a definitely not a png"), 0644))

	st := &mockStore{}
	mailer := &mockMailer{}
	pipeline := newPipeline(t, st, mailer)

	result := pipeline.Run(context.Background(), validSubmission(path))

	require.Equal(t, issue.StatusRejected, result.Status)
	assert.Equal(t, "image", result.Rejection.Field)
	assert.Equal(t, 0, st.Calls)
	assert.Equal(t, 0, mailer.Calls)
}

func TestPipelineStoreFailure(t *testing.T) {
	imagePath, _ := writeTestPNG(t)
	st := &mockStore{Err: assert.AnError}
	mailer := &mockMailer{}
	pipeline := newPipeline(t, st, mailer)

	result := pipeline.Run(context.Background(), validSubmission(imagePath))

	require.Equal(t, issue.StatusFailed, result.Status)
	issueErr, ok := issue.AsError(result.Err)
	require.True(t, ok)
	assert.Equal(t, issue.ErrCodeStoreFailed, issueErr.Code)

	// A store fault aborts the run before any mail goes out.
	assert.Equal(t, 0, mailer.Calls)
}

func TestPipelineMailFailure(t *testing.T) {
	imagePath, _ := writeTestPNG(t)
	st := &mockStore{}
	mailer := &mockMailer{Err: assert.AnError}
	pipeline := newPipeline(t, st, mailer)

	result := pipeline.Run(context.Background(), validSubmission(imagePath))

	// The artifact was stored, but the user must still see a failure, not a
	// false success.
	require.Equal(t, issue.StatusFailed, result.Status)
	issueErr, ok := issue.AsError(result.Err)
	require.True(t, ok)
	assert.Equal(t, issue.ErrCodeMailFailed, issueErr.Code)
}

func TestPipelineSigningFailure(t *testing.T) {
	imagePath, _ := writeTestPNG(t)
	st := &mockStore{}
	mailer := &mockMailer{}
	pipeline := issue.NewPipeline(assertion.NewBuilder(), sign.New(nil), st, mailer)

	result := pipeline.Run(context.Background(), validSubmission(imagePath))

	require.Equal(t, issue.StatusFailed, result.Status)
	issueErr, ok := issue.AsError(result.Err)
	require.True(t, ok)
	assert.Equal(t, issue.ErrCodeSigningFailed, issueErr.Code)

	// A signing fault is a deployment problem, not a user one: nothing is
	// stored and nothing is sent.
	assert.Equal(t, 0, st.Calls)
	assert.Equal(t, 0, mailer.Calls)
}
