package registration_test

import (
	"testing"

	registration "github.com/goliatone/go-registration"
	"github.com/stretchr/testify/assert"
)

func TestPersonalOrganizationName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{
			name:      "plain name",
			firstName: "Ada",
			lastName:  "Lovelace",
			want:      "Ada Lovelace's personal organization",
		},
		{
			name:      "name ending in s",
			firstName: "James",
			lastName:  "Watts",
			want:      "James Watts's personal organization",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := registration.PersonalOrganizationName(tt.firstName, tt.lastName)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUser_FullName(t *testing.T) {
	user := &registration.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
	}

	assert.Equal(t, "Ada Lovelace", user.FullName())
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, registration.IsValidRole(registration.RoleViewer))
	assert.True(t, registration.IsValidRole(registration.RoleEditor))
	assert.True(t, registration.IsValidRole(registration.RoleAdmin))
	assert.True(t, registration.IsValidRole(registration.RoleOwner))
	assert.False(t, registration.IsValidRole("superuser"))
}

func TestRoleIsAtLeast(t *testing.T) {
	assert.True(t, registration.RoleIsAtLeast(registration.RoleOwner, registration.RoleEditor))
	assert.True(t, registration.RoleIsAtLeast(registration.RoleEditor, registration.RoleEditor))
	assert.False(t, registration.RoleIsAtLeast(registration.RoleViewer, registration.RoleEditor))
	assert.False(t, registration.RoleIsAtLeast("superuser", registration.RoleViewer))
}

func TestInitialMembershipRole(t *testing.T) {
	// New accounts start as editors of their personal organization.
	assert.Equal(t, registration.RoleEditor, registration.InitialMembershipRole)
}
