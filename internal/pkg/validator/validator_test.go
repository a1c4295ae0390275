package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type teamRoleInput struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Permissions []string `json:"permissions" validate:"required,dive,team_permission"`
}

type blockInput struct {
	Reason string `json:"reason" validate:"required,reason"`
}

func TestValidate_TeamPermissionWhitelist(t *testing.T) {
	errs := Validate(&teamRoleInput{Name: "Door staff", Permissions: []string{"create-events", "delete-users"}})

	assert.Len(t, errs, 1)
	assert.Contains(t, errs, "permissions.1")
	assert.Contains(t, errs["permissions.1"], "delete-users")
}

func TestValidate_TeamPermissionAccepted(t *testing.T) {
	errs := Validate(&teamRoleInput{Name: "Editors", Permissions: []string{"edit-events", "view-sub-users"}})
	assert.Nil(t, errs)
}

func TestValidate_RequiredUsesJSONName(t *testing.T) {
	errs := Validate(&teamRoleInput{Permissions: []string{}})
	assert.Equal(t, "The name field is required.", errs["name"])
}

func TestValidate_ReasonLength(t *testing.T) {
	assert.Contains(t, Validate(&blockInput{Reason: "too short"}), "reason")
	assert.Nil(t, Validate(&blockInput{Reason: "spamming the event listings"}))
}
