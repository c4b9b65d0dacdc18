package store_test

import (
	"testing"

	"github.com/localnerve/usersdb/internal/models"
	"github.com/localnerve/usersdb/internal/store"
	"github.com/localnerve/usersdb/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserWithRelations(t *testing.T) {
	db := testutil.OpenTestDB(t)
	admin := testutil.CreateTestRole(t, db, "ROLE_ADMIN")

	user := &models.User{
		Email:      "ada@example.com",
		Nom:        "Lovelace",
		Prenom:     "Ada",
		Roles:      models.NewStringSet("ROLE_USER"),
		Password:   testutil.HashedPassword,
		UserRoles:  []models.Role{*admin},
		Preference: models.NewPreference(),
	}
	require.NoError(t, store.CreateUser(db, user))
	assert.NotZero(t, user.ID)
	assert.NotZero(t, user.Preference.ID)
	assert.False(t, user.CreatedAt.IsZero())

	found, err := store.FindUser(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Preference)
	assert.Equal(t, "fr", found.Preference.Langue)
	assert.True(t, found.Preference.Notifications)
	require.Len(t, found.UserRoles, 1)
	assert.Equal(t, "ROLE_ADMIN", found.UserRoles[0].Nom)
	assert.Equal(t, []string{"ROLE_USER", "ROLE_ADMIN"}, found.GetRoles())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	db := testutil.OpenTestDB(t)
	testutil.CreateTestUser(t, db, "dup@example.com", "Dupont", "Jean")

	err := store.CreateUser(db, &models.User{
		Email:    "dup@example.com",
		Nom:      "Durand",
		Prenom:   "Paul",
		Password: testutil.HashedPassword,
	})
	assert.ErrorIs(t, err, store.ErrConstraintViolation)

	taken, err := store.EmailTaken(db, "dup@example.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestFindUserNotFound(t *testing.T) {
	db := testutil.OpenTestDB(t)

	_, err := store.FindUser(db, 42)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveUserKeepsCreatedAt(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "keep@example.com", "Martin", "Luc")
	createdAt := user.CreatedAt

	user.Nom = "Bernard"
	user.CreatedAt = createdAt.AddDate(-1, 0, 0)
	require.NoError(t, store.SaveUser(db, user))

	found, err := store.FindUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bernard", found.Nom)
	assert.True(t, found.CreatedAt.Equal(createdAt), "createdAt must not change")
}

func TestReplaceUserRoles(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "roles@example.com", "Petit", "Marie")
	a := testutil.CreateTestRole(t, db, "ROLE_A")
	b := testutil.CreateTestRole(t, db, "ROLE_B")
	testutil.AssignTestRole(t, db, user, a)

	require.NoError(t, store.ReplaceUserRoles(db, user, []models.Role{*b}))
	found, err := store.FindUser(db, user.ID)
	require.NoError(t, err)
	require.Len(t, found.UserRoles, 1)
	assert.Equal(t, b.ID, found.UserRoles[0].ID)

	require.NoError(t, store.ReplaceUserRoles(db, user, nil))
	found, err = store.FindUser(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, found.UserRoles)
}

func TestDeleteUserCascadesPreference(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "gone@example.com", "Roux", "Zoe")
	role := testutil.CreateTestRole(t, db, "ROLE_KEPT")
	testutil.AssignTestRole(t, db, user, role)
	pref := testutil.CreateTestPreference(t, db, user, "en", "dark", false)

	require.NoError(t, store.DeleteUser(db, user))

	_, err := store.FindUser(db, user.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = store.FindPreference(db, pref.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	kept, err := store.FindRole(db, role.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.Users)

	assert.ErrorIs(t, store.DeleteUser(db, user), store.ErrNotFound)
}

func TestDeleteRoleKeepsUsers(t *testing.T) {
	db := testutil.OpenTestDB(t)
	u1 := testutil.CreateTestUser(t, db, "one@example.com", "Un", "Alpha")
	u2 := testutil.CreateTestUser(t, db, "two@example.com", "Deux", "Beta")
	role := testutil.CreateTestRole(t, db, "ROLE_SHARED")
	other := testutil.CreateTestRole(t, db, "ROLE_OTHER")
	testutil.AssignTestRole(t, db, u1, role)
	testutil.AssignTestRole(t, db, u2, role)
	testutil.AssignTestRole(t, db, u2, other)

	loaded, err := store.FindRole(db, role.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Users, 2)

	require.NoError(t, store.DeleteRole(db, loaded))

	_, err = store.FindRole(db, role.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	found1, err := store.FindUser(db, u1.ID)
	require.NoError(t, err)
	assert.Empty(t, found1.UserRoles)

	found2, err := store.FindUser(db, u2.ID)
	require.NoError(t, err)
	require.Len(t, found2.UserRoles, 1)
	assert.Equal(t, "ROLE_OTHER", found2.UserRoles[0].Nom)
}

func TestFindRolesByIDs(t *testing.T) {
	db := testutil.OpenTestDB(t)
	a := testutil.CreateTestRole(t, db, "ROLE_A")
	b := testutil.CreateTestRole(t, db, "ROLE_B")

	roles, missing, err := store.FindRolesByIDs(db, []uint64{b.ID, 99, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, b.ID, roles[0].ID)
	assert.Equal(t, a.ID, roles[1].ID)
	assert.Equal(t, []uint64{99}, missing)

	taken, err := store.RoleNameTaken(db, "ROLE_A", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = store.RoleNameTaken(db, "ROLE_A", b.ID)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestLinkPreferenceReplacesPrevious(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "link@example.com", "Lien", "Eve")
	old := testutil.CreateTestPreference(t, db, user, "fr", "light", true)

	next := models.NewPreference()
	next.Theme = models.ThemeDark
	require.NoError(t, store.LinkPreference(db, user, next))

	assert.Equal(t, user.ID, next.UserID)
	assert.Same(t, next, user.Preference)
	assert.Same(t, user, next.User)

	_, err := store.FindPreference(db, old.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	found, err := store.FindUser(db, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Preference)
	assert.Equal(t, next.ID, found.Preference.ID)
	assert.Equal(t, "dark", found.Preference.Theme)
}

func TestLinkPreferenceRejectsForeignOwner(t *testing.T) {
	db := testutil.OpenTestDB(t)
	owner := testutil.CreateTestUser(t, db, "owner@example.com", "Owner", "Olga")
	thief := testutil.CreateTestUser(t, db, "thief@example.com", "Thief", "Tom")
	pref := testutil.CreateTestPreference(t, db, owner, "fr", "light", true)

	err := store.LinkPreference(db, thief, pref)
	assert.ErrorIs(t, err, store.ErrPreferenceOwned)

	found, err := store.FindPreference(db, pref.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, found.UserID)
}

func TestSavePreferenceKeepsFalseNotifications(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "bool@example.com", "Bool", "Ben")
	pref := models.NewPreference()
	pref.Notifications = false
	require.NoError(t, store.LinkPreference(db, user, pref))

	found, err := store.FindPreference(db, pref.ID)
	require.NoError(t, err)
	assert.False(t, found.Notifications)

	found.Notifications = true
	require.NoError(t, store.SavePreference(db, found))
	again, err := store.FindPreference(db, pref.ID)
	require.NoError(t, err)
	assert.True(t, again.Notifications)
}

func TestDeletePreferenceKeepsUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "stay@example.com", "Reste", "Ines")
	pref := testutil.CreateTestPreference(t, db, user, "fr", "light", true)

	require.NoError(t, store.DeletePreference(db, pref))

	found, err := store.FindUser(db, user.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Preference)
	assert.ErrorIs(t, store.DeletePreference(db, pref), store.ErrNotFound)
}

func TestListRolesAndPreferences(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "list@example.com", "Liste", "Leo")
	testutil.CreateTestRole(t, db, "ROLE_B")
	testutil.CreateTestRole(t, db, "ROLE_A")
	testutil.CreateTestPreference(t, db, user, "de", "dark", true)

	roles, err := store.ListRoles(db)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "ROLE_B", roles[0].Nom)

	prefs, err := store.ListPreferences(db)
	require.NoError(t, err)
	require.Len(t, prefs, 1)
	require.NotNil(t, prefs[0].User)
	assert.Equal(t, user.ID, prefs[0].User.ID)
}

func TestFindUsersWindow(t *testing.T) {
	db := testutil.OpenTestDB(t)
	testutil.CreateTestUsers(t, db, 25)

	page, err := store.FindUsers(db, store.Filter{Sort: "id", Order: "ASC", Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 25, page.Total)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "user11@example.com", page.Items[0].Email)
	assert.Equal(t, "user20@example.com", page.Items[9].Email)

	last, err := store.FindUsers(db, store.Filter{Sort: "id", Order: "ASC", Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.EqualValues(t, 25, last.Total)
}

func TestFindUsersSortAndFilter(t *testing.T) {
	db := testutil.OpenTestDB(t)
	testutil.CreateTestUser(t, db, "b@example.com", "Bbb", "Zed")
	testutil.CreateTestUser(t, db, "a@example.com", "Aaa", "Yan")
	testutil.CreateTestUser(t, db, "c@other.org", "Ccc", "Xia")

	page, err := store.FindUsers(db, store.Filter{Sort: "email", Order: "asc"})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "a@example.com", page.Items[0].Email)

	page, err = store.FindUsers(db, store.Filter{Sort: "createdAt", Order: "DESC"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = store.FindUsers(db, store.Filter{
		Sort:  "nom",
		Order: "DESC",
		Where: func(tx *gorm.DB) *gorm.DB {
			return tx.Where("email LIKE ?", "%@example.com")
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Equal(t, "Bbb", page.Items[0].Nom)
}

func TestFindUsersInvalidSort(t *testing.T) {
	db := testutil.OpenTestDB(t)

	_, err := store.FindUsers(db, store.Filter{Sort: "nope"})
	assert.ErrorIs(t, err, store.ErrInvalidSort)

	_, err = store.FindUsers(db, store.Filter{Sort: "id", Order: "sideways"})
	assert.ErrorIs(t, err, store.ErrInvalidSort)

	_, err = store.FindUsers(db, store.Filter{Sort: "preference"})
	assert.ErrorIs(t, err, store.ErrInvalidSort)

	for _, name := range []string{"password", "Password"} {
		_, err = store.FindUsers(db, store.Filter{Sort: name})
		assert.ErrorIs(t, err, store.ErrInvalidSort, name)
	}
}

func TestSortColumn(t *testing.T) {
	db := testutil.OpenTestDB(t)

	for name, column := range map[string]string{
		"":           "id",
		"id":         "id",
		"createdAt":  "created_at",
		"created_at": "created_at",
		"Prenom":     "prenom",
	} {
		got, err := store.SortColumn(db, &models.User{}, name)
		require.NoError(t, err, name)
		assert.Equal(t, column, got, name)
	}
}

func TestCreatePreferenceOnePerUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	user := testutil.CreateTestUser(t, db, "solo@example.com", "Solo", "Sam")

	first := models.NewPreference()
	first.UserID = user.ID
	require.NoError(t, store.CreatePreference(db, first))

	second := models.NewPreference()
	second.UserID = user.ID
	assert.ErrorIs(t, store.CreatePreference(db, second), store.ErrConstraintViolation)

	orphan := models.NewPreference()
	orphan.UserID = 9999
	assert.ErrorIs(t, store.CreatePreference(db, orphan), store.ErrConstraintViolation)
}
