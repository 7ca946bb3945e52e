// Package issue orchestrates badge issuance: validate the submission, build
// and sign the assertion, store the original image, bake the signed
// assertion into the image, and deliver it by email. It also provides the
// side-effect-free preview variant.
package issue

// Submission is the raw form data for one issuance or preview request.
// Each request owns its own Submission; nothing is shared across runs.
type Submission struct {
	// Name is the badge title.
	Name string

	// Description explains what the badge was awarded for.
	Description string

	// ImagePath is the path to the uploaded badge image (a temp file).
	ImagePath string

	// Recipient is the recipient's email address.
	Recipient string

	// Hashed requests that the recipient identity be stored hashed.
	Hashed bool

	// Salt is the hashing salt. Empty means "hash with the empty string";
	// it never disables hashing.
	Salt string

	// IssuerURL identifies the issuing entity.
	IssuerURL string
}

// Status is the terminal outcome class of a pipeline run.
type Status int

const (
	// StatusDelivered means the badge was baked, stored and emailed.
	StatusDelivered Status = iota

	// StatusRejected means the submission was refused for a user-fixable
	// reason. No side effects were performed.
	StatusRejected

	// StatusFailed means a system fault aborted the run. The caller shows a
	// generic failure; resubmission is the only retry.
	StatusFailed
)

// Rejection flags a single offending field so the caller can re-render the
// form with it highlighted.
type Rejection struct {
	Field   string
	Message string
}

// Result is the single terminal value of a pipeline run. Exactly one of the
// three outcome classes applies; Rejection and Err are set only for their
// respective statuses.
type Result struct {
	Status Status

	// Recipient is the delivery address (StatusDelivered only).
	Recipient string

	// ArtifactURL is where the store persisted the original image
	// (StatusDelivered only).
	ArtifactURL string

	// Rejection describes the offending field (StatusRejected only).
	Rejection *Rejection

	// Err is the fatal cause (StatusFailed only), always a *Error.
	Err error
}

func delivered(recipient, artifactURL string) Result {
	return Result{Status: StatusDelivered, Recipient: recipient, ArtifactURL: artifactURL}
}

func rejected(field, message string) Result {
	return Result{Status: StatusRejected, Rejection: &Rejection{Field: field, Message: message}}
}

func failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}
