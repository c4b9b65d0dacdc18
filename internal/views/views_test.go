package views

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/usersdb/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (*models.User, *models.Role, *models.Preference) {
	secret := "plaintext-secret"
	desc := "Administrators"
	role := &models.Role{ID: 7, Nom: "ROLE_ADMIN", Description: &desc}
	pref := &models.Preference{ID: 3, Langue: "en", Theme: "dark", Notifications: false, UserID: 1}
	user := &models.User{
		ID:            1,
		Email:         "ada@example.com",
		Nom:           "Lovelace",
		Prenom:        "Ada",
		Roles:         models.NewStringSet("ROLE_USER", "ROLE_ADMIN"),
		Password:      "$argon2id$hash",
		PlainPassword: &secret,
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UserRoles:     []models.Role{*role},
		Preference:    pref,
	}
	pref.User = user
	role.Users = []models.User{*user}
	return user, role, pref
}

func TestNewUser(t *testing.T) {
	user, _, _ := fixture()

	view := NewUser(user)
	assert.Equal(t, uint64(1), view.ID)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, view.Roles)
	require.Len(t, view.UserRoles, 1)
	assert.Equal(t, "ROLE_ADMIN", view.UserRoles[0].Nom)
	require.NotNil(t, view.Preference)
	assert.Equal(t, "dark", view.Preference.Theme)
}

func TestNewUserEmptyRelations(t *testing.T) {
	view := NewUser(&models.User{ID: 2, Email: "bare@example.com"})

	payload, err := json.Marshal(view)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"userRoles":[]`)
	assert.Contains(t, string(payload), `"roles":[]`)
	assert.Contains(t, string(payload), `"preference":null`)
}

func TestNewRoleAndPreference(t *testing.T) {
	_, role, pref := fixture()

	roleView := NewRole(role)
	require.Len(t, roleView.Users, 1)
	assert.Equal(t, "ada@example.com", roleView.Users[0].Email)
	assert.Equal(t, "Administrators", *roleView.Description)

	prefView := NewPreference(pref)
	require.NotNil(t, prefView.User)
	assert.Equal(t, uint64(1), prefView.User.ID)
	assert.False(t, prefView.Notifications)
}

func TestProject(t *testing.T) {
	user, role, pref := fixture()

	cases := []struct {
		name  string
		value any
		group Group
		want  any
	}{
		{"user pointer", user, UserRead, &User{}},
		{"user value", *user, UserRead, &User{}},
		{"user slice", []models.User{*user}, UserRead, []*User{}},
		{"user pointer slice", []*models.User{user}, UserRead, []*User{}},
		{"role", role, RoleRead, &Role{}},
		{"role slice", []models.Role{*role}, RoleRead, []*Role{}},
		{"preference", pref, PreferenceRead, &Preference{}},
		{"preference slice", []models.Preference{*pref}, PreferenceRead, []*Preference{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Project(tc.value, tc.group)
			require.NoError(t, err)
			assert.IsType(t, tc.want, got)
		})
	}
}

func TestProjectErrors(t *testing.T) {
	user, _, _ := fixture()

	_, err := Project(user, RoleRead)
	assert.Error(t, err)

	_, err = Project(user, Group("user:write"))
	assert.Error(t, err)
}

func TestProjectionsNeverExposePassword(t *testing.T) {
	user, role, pref := fixture()

	for _, tc := range []struct {
		value any
		group Group
	}{
		{user, UserRead},
		{[]models.User{*user}, UserRead},
		{role, RoleRead},
		{pref, PreferenceRead},
	} {
		view, err := Project(tc.value, tc.group)
		require.NoError(t, err)

		payload, err := json.Marshal(view)
		require.NoError(t, err)
		body := strings.ToLower(string(payload))
		assert.NotContains(t, body, "password", tc.group)
		assert.NotContains(t, body, "argon2id", tc.group)
		assert.NotContains(t, body, "plaintext-secret", tc.group)
	}
}
