package email

const (
	subjectLeadCapturedFmt             = "New quote request from %s"
	subjectLeadInterestsUnconfirmedFmt = "Confirm requested services for lead %s"
	subjectLeadCaptureFailedFmt        = "Quote request from %s was not stored"
	subjectLeadStatusChangedFmt        = "%s is now %s"
)
