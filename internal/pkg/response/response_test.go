package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketadmin/internal/domain"
)

func run(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	Fail(c, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestFail_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"admin immune", domain.ErrAdminImmune, http.StatusForbidden, "ADMIN_IMMUNE"},
		{"forbidden", fmt.Errorf("wrap: %w", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN"},
		{"reason", domain.ErrReasonTooShort, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"conflict", domain.ErrAlreadyApproved, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"validation", domain.NewValidationError("name", "taken"), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"unknown", errors.New("pq: connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := run(t, tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body["code"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestFail_ConflictCarriesMessage(t *testing.T) {
	_, body := run(t, domain.ErrAlreadyApproved)
	assert.Equal(t, "User is already approved.", body["message"])
}

func TestFail_InternalHidesDetails(t *testing.T) {
	_, body := run(t, errors.New("constraint roles_pkey violated"))
	assert.NotContains(t, body["message"], "roles_pkey")
}
