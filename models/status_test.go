package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusNew, StatusReviewed, StatusInProgress, StatusResolved, StatusClosed} {
		assert.True(t, IsValidStatus(s), s)
	}
	assert.False(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("New"))
}

func TestIsValidSubmissionType(t *testing.T) {
	for _, v := range []string{TypeContacts, TypeHelpRequests, TypeApplicants, TypeDonations} {
		assert.True(t, IsValidSubmissionType(v), v)
	}
	assert.False(t, IsValidSubmissionType("admins"))
	assert.False(t, IsValidSubmissionType(""))
}

func TestPushEventForType(t *testing.T) {
	assert.Equal(t, "new_contact", PushEventForType(TypeContacts))
	assert.Equal(t, "new_help_request", PushEventForType(TypeHelpRequests))
	assert.Equal(t, "new_applicant", PushEventForType(TypeApplicants))
	assert.Equal(t, "new_donation", PushEventForType(TypeDonations))
	assert.Equal(t, "", PushEventForType("unknown"))
}

func TestIsValidEmergency(t *testing.T) {
	for _, level := range []string{EmergencyLow, EmergencyModerate, EmergencyCritical} {
		assert.True(t, IsValidEmergency(level), level)
	}
	assert.False(t, IsValidEmergency("apocalyptic"))
}
