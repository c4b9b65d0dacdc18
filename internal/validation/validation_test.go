package validation

import (
	"strings"
	"testing"

	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func paths(v Violations) []string {
	out := make([]string, 0, len(v))
	for _, violation := range v {
		out = append(out, violation.Path)
	}
	return out
}

func TestRules(t *testing.T) {
	cases := []struct {
		name  string
		rule  Rule
		value any
		ok    bool
	}{
		{"not blank empty", NotBlank(), "", false},
		{"not blank nil pointer", NotBlank(), (*string)(nil), false},
		{"not blank set", NotBlank(), "x", true},
		{"not null zero id", NotNull(), uint64(0), false},
		{"not null id", NotNull(), uint64(3), true},
		{"length short", Length(2, 5), "a", false},
		{"length long", Length(2, 5), "abcdef", false},
		{"length runes", Length(2, 5), "éèàùç", true},
		{"length nil ignored", Length(2, 5), (*string)(nil), true},
		{"max length", MaxLength(3), "abcd", false},
		{"max length pointer", MaxLength(3), strPtr("abc"), true},
		{"email bad", Email(), "nope", false},
		{"email empty skipped", Email(), "", true},
		{"email good", Email(), "a@b.io", true},
		{"choice bad", Choice("light", "dark"), "blue", false},
		{"choice good", Choice("light", "dark"), "dark", true},
		{"pattern bad", Pattern(RoleNamePattern, ""), "ROLE_x", false},
		{"pattern good", Pattern(RoleNamePattern, ""), "ROLE_SUPER_ADMIN", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := tc.rule.Check(tc.value)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestLengthMessages(t *testing.T) {
	msg, _ := Length(2, 50).Check("a")
	assert.Equal(t, "This value is too short. It should have 2 characters or more.", msg)

	msg, _ = Length(2, 50).Check(strings.Repeat("a", 51))
	assert.Equal(t, "This value is too long. It should have 50 characters or less.", msg)
}

func TestUserSchemaCollectsEveryViolation(t *testing.T) {
	user := &models.User{Email: "bad", Nom: "A", PlainPassword: strPtr("short")}

	violations := UserSchema.Validate(user)
	assert.Equal(t, []string{"email", "nom", "password", "prenom", "prenom"}, paths(violations))
}

func TestUserSchemaPasswordRules(t *testing.T) {
	base := func() *models.User {
		return &models.User{Email: "a@example.com", Nom: "Nom", Prenom: "Prenom"}
	}

	created := base()
	assert.Equal(t, []string{"password", "password"}, paths(UserSchema.Validate(created)), "new users need a password")

	persisted := base()
	persisted.ID = 7
	assert.Empty(t, UserSchema.Validate(persisted), "existing users keep their hash")

	persisted.PlainPassword = strPtr(strings.Repeat("p", 4096))
	assert.Empty(t, UserSchema.Validate(persisted))

	persisted.PlainPassword = strPtr(strings.Repeat("p", 4097))
	assert.Equal(t, []string{"password"}, paths(UserSchema.Validate(persisted)))
}

func TestRoleSchema(t *testing.T) {
	assert.Empty(t, RoleSchema.Validate(&models.Role{Nom: "ROLE_ADMIN"}))

	violations := RoleSchema.Validate(&models.Role{Nom: "admin", Description: strPtr(strings.Repeat("d", 256))})
	assert.Equal(t, []string{"description", "nom"}, paths(violations))
	assert.Equal(t, "The role name must start with ROLE_ followed by uppercase letters or underscores.", violations[1].Message)

	violations = RoleSchema.Validate(&models.Role{Nom: ""})
	require.Len(t, violations, 2)
	assert.Equal(t, MessageNotBlank, violations[0].Message)
}

func TestPreferenceSchema(t *testing.T) {
	pref := models.NewPreference()
	pref.UserID = 1
	assert.Empty(t, PreferenceSchema.Validate(pref))

	pref.Theme = "blue"
	pref.Langue = "francais"
	pref.UserID = 0
	violations := PreferenceSchema.Validate(pref)
	assert.Equal(t, []string{"langue", "theme", "user"}, paths(violations))
	assert.Equal(t, MessageChoice, violations[1].Message)
	assert.Equal(t, MessageNotNull, violations[2].Message)
}

func TestViolationsErr(t *testing.T) {
	var empty Violations
	assert.NoError(t, empty.Err("user.validation"))

	var v Violations
	v.Add("nom", "b")
	v.Merge(Violations{{Path: "email", Message: "a"}, {Path: "nom", Message: "c"}})
	assert.Equal(t, []string{"email", "nom", "nom"}, paths(v))

	err := v.Err("user.validation")
	apiErr, ok := types.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Status())
	assert.Equal(t, map[string][]string{"email": {"a"}, "nom": {"b", "c"}}, apiErr.Fields())
}
