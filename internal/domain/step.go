package domain

// Step is one named state of the session workflow. Login/Register are a
// handler-level overlay and never mutate the stored step, so re-entering the
// flow after auth lands back where the user left off.
type Step string

const (
	StepUploadID       Step = "UPLOAD_ID"
	StepUploadCerts    Step = "UPLOAD_CERTS"
	StepReviewData     Step = "REVIEW_DATA"
	StepDashboard      Step = "DASHBOARD"
	StepAdminDashboard Step = "ADMIN_DASHBOARD"
)
