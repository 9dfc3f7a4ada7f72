package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartnershipFlow(t *testing.T) {
	clinicToken := tokenFor("clinic", clinicID)
	professionalToken := tokenFor("professional", professionalID)

	// Create request
	createResp := makeRequest("POST", "/partnerships", map[string]interface{}{
		"counterparty_id": professionalID,
		"message":         "Gostaríamos de firmar uma parceria com você",
	}, clinicToken)
	require.True(t, createResp.IsSuccess(), "Failed to create request: %s", createResp.Message)

	partnershipID := createResp.GetString("id")
	require.NotEmpty(t, partnershipID)
	assert.Equal(t, "APPROVED", createResp.GetString("clinic_approved"))
	assert.Equal(t, "PENDING", createResp.GetString("professional_approved"))

	// Duplicate request for the same pair is rejected
	dupResp := makeRequest("POST", "/partnerships", map[string]interface{}{
		"counterparty_id": professionalID,
		"message":         "Gostaríamos de firmar uma parceria com você",
	}, clinicToken)
	assert.Equal(t, http.StatusConflict, dupResp.StatusCode)
	assert.Equal(t, "DUPLICATE_REQUEST", dupResp.Code)

	// Both sides see the request in pending
	clinicViews := makeRequest("GET", "/partnerships/views", nil, clinicToken)
	require.True(t, clinicViews.IsSuccess())
	assert.Equal(t, float64(1), clinicViews.Data["pending_count"])

	professionalViews := makeRequest("GET", "/partnerships/views", nil, professionalToken)
	require.True(t, professionalViews.IsSuccess())
	assert.Equal(t, float64(1), professionalViews.Data["pending_count"])

	// Professional approves
	respondResp := makeRequest("POST", fmt.Sprintf("/partnerships/%s/respond", partnershipID), map[string]string{
		"decision": "approved",
	}, professionalToken)
	require.True(t, respondResp.IsSuccess(), "Failed to respond: %s", respondResp.Message)
	assert.Equal(t, "APPROVED", respondResp.GetString("professional_approved"))

	// Now partners on both sides
	clinicViews = makeRequest("GET", "/partnerships/views", nil, clinicToken)
	require.True(t, clinicViews.IsSuccess())
	assert.Equal(t, float64(1), clinicViews.Data["partners_count"])
	assert.Equal(t, float64(0), clinicViews.Data["pending_count"])

	// A second decision by the same party fails
	repeatResp := makeRequest("POST", fmt.Sprintf("/partnerships/%s/respond", partnershipID), map[string]string{
		"decision": "approved",
	}, professionalToken)
	assert.Equal(t, http.StatusUnprocessableEntity, repeatResp.StatusCode)
	assert.Equal(t, "ALREADY_RESOLVED", repeatResp.Code)

	// Remove returns the pair to available
	removeResp := makeRequest("DELETE", fmt.Sprintf("/partnerships/%s", partnershipID), nil, clinicToken)
	require.True(t, removeResp.IsSuccess(), "Failed to remove: %s", removeResp.Message)

	clinicViews = makeRequest("GET", "/partnerships/views", nil, clinicToken)
	require.True(t, clinicViews.IsSuccess())
	assert.Equal(t, float64(0), clinicViews.Data["partners_count"])
}

func TestPartnershipRejectionFlow(t *testing.T) {
	clinicToken := tokenFor("clinic", clinicID)
	professionalToken := tokenFor("professional", professionalID)

	createResp := makeRequest("POST", "/partnerships", map[string]interface{}{
		"counterparty_id": professionalID,
		"message":         "Gostaríamos de firmar uma parceria com você",
	}, clinicToken)
	require.True(t, createResp.IsSuccess(), "Failed to create request: %s", createResp.Message)
	partnershipID := createResp.GetString("id")

	rejectResp := makeRequest("POST", fmt.Sprintf("/partnerships/%s/respond", partnershipID), map[string]string{
		"decision": "rejected",
	}, professionalToken)
	require.True(t, rejectResp.IsSuccess(), "Failed to reject: %s", rejectResp.Message)

	// Terminal: no further decisions
	lateResp := makeRequest("POST", fmt.Sprintf("/partnerships/%s/respond", partnershipID), map[string]string{
		"decision": "approved",
	}, professionalToken)
	assert.Equal(t, http.StatusUnprocessableEntity, lateResp.StatusCode)
	assert.Equal(t, "ALREADY_RESOLVED", lateResp.Code)

	// The pair is available again and a fresh request succeeds
	retryResp := makeRequest("POST", "/partnerships", map[string]interface{}{
		"counterparty_id": clinicID,
		"message":         "Tenho interesse em atender na clínica",
	}, professionalToken)
	require.True(t, retryResp.IsSuccess(), "Failed to re-request after rejection: %s", retryResp.Message)

	// Leave no live record behind
	makeRequest("POST", fmt.Sprintf("/partnerships/%s/respond", retryResp.GetString("id")), map[string]string{
		"decision": "rejected",
	}, clinicToken)
}

func TestPartnershipValidation(t *testing.T) {
	clinicToken := tokenFor("clinic", clinicID)

	t.Run("short message", func(t *testing.T) {
		resp := makeRequest("POST", "/partnerships", map[string]interface{}{
			"counterparty_id": professionalID,
			"message":         "oi",
		}, clinicToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_MESSAGE", resp.Code)
	})

	t.Run("self partnership", func(t *testing.T) {
		resp := makeRequest("POST", "/partnerships", map[string]interface{}{
			"counterparty_id": clinicID,
			"message":         "Gostaríamos de firmar parceria",
		}, clinicToken)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		resp := makeRequest("GET", "/partnerships/views", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
