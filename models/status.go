package models

// Submission status values shared by every submission category
const (
	StatusNew        = "new"
	StatusReviewed   = "reviewed"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// Submission type keys as exposed by the admin API
const (
	TypeContacts     = "contacts"
	TypeHelpRequests = "help_requests"
	TypeApplicants   = "applicants"
	TypeDonations    = "donations"
)

// IsValidStatus checks if the status is in the closed set
func IsValidStatus(status string) bool {
	validStatuses := []string{
		StatusNew,
		StatusReviewed,
		StatusInProgress,
		StatusResolved,
		StatusClosed,
	}
	for _, s := range validStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsValidSubmissionType checks if the type key names a submission category
func IsValidSubmissionType(t string) bool {
	validTypes := []string{
		TypeContacts,
		TypeHelpRequests,
		TypeApplicants,
		TypeDonations,
	}
	for _, v := range validTypes {
		if v == t {
			return true
		}
	}
	return false
}

// PushEventForType returns the realtime event name announcing a new
// submission of the given type, or "" for unknown types.
func PushEventForType(t string) string {
	switch t {
	case TypeContacts:
		return "new_contact"
	case TypeHelpRequests:
		return "new_help_request"
	case TypeApplicants:
		return "new_applicant"
	case TypeDonations:
		return "new_donation"
	default:
		return ""
	}
}
