package issue_test

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/badgeforge/badgeforge-core/pkg/assertion"
	"github.com/badgeforge/badgeforge-core/pkg/issue"
)

func TestPreviewBuildsAssertionAndDataURI(t *testing.T) {
	imagePath, imgBytes := writeTestPNG(t)
	previewer := issue.NewPreviewer(assertion.NewBuilder())

	preview, rej := previewer.Run(validSubmission(imagePath))
	require.Nil(t, rej)
	require.NotNil(t, preview)

	assert.Equal(t, "Bug Squasher", preview.Assertion.Badge.Name)
	assert.Equal(t, assertion.HashIdentity("a@example.com", "xyz"), preview.Assertion.Recipient.Identity)

	// The data URI must decode back to the exact source image bytes.
	const prefix = "data:image/png;base64,"
	require.True(t, strings.HasPrefix(preview.ImageDataURI, prefix))
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(preview.ImageDataURI, prefix))
	require.NoError(t, err)
	assert.Equal(t, imgBytes, decoded)
}

func TestPreviewRejectsInvalidSubmission(t *testing.T) {
	imagePath, _ := writeTestPNG(t)
	previewer := issue.NewPreviewer(assertion.NewBuilder())

	sub := validSubmission(imagePath)
	sub.Recipient = ""
	preview, rej := previewer.Run(sub)

	assert.Nil(t, preview)
	require.NotNil(t, rej)
	assert.Equal(t, "recipient", rej.Field)
}
