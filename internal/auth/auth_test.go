package auth_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/elderflowhq/console/internal/auth"
)

func signToken(t *testing.T, uid, name, role string, exp time.Time) string {
	t.Helper()
	claims := auth.Claims{
		UserID: uid,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want auth.Role
	}{
		{"admin", auth.RoleAdmin},
		{" Admin ", auth.RoleAdmin},
		{"care_manager", auth.RoleCareManager},
		{"superuser", auth.RoleViewer},
		{"", auth.RoleViewer},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, auth.ParseRole(tt.in), "input %q", tt.in)
	}
}

func TestRoleCapabilities(t *testing.T) {
	require.True(t, auth.RoleAdmin.Can(auth.CapManageUsers))
	require.True(t, auth.RoleAdmin.Can(auth.CapWriteChart))
	require.True(t, auth.RoleCareManager.Can(auth.CapWriteChart))
	require.False(t, auth.RoleCareManager.Can(auth.CapManageUsers))
	require.False(t, auth.RoleCareManager.Can(auth.CapEditOrgSettings))
	require.False(t, auth.RoleViewer.Can(auth.CapWriteChart))
}

func TestUserFromToken(t *testing.T) {
	raw := signToken(t, "u1", "Dana Reyes", "care_manager", time.Now().Add(time.Hour))
	user, err := auth.UserFromToken(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.Equal(t, "Dana Reyes", user.Name)
	require.Equal(t, auth.RoleCareManager, user.Role)
}

func TestUserFromToken_Expired(t *testing.T) {
	raw := signToken(t, "u1", "Dana Reyes", "admin", time.Now().Add(-time.Minute))
	_, err := auth.UserFromToken(raw)
	require.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestUserFromToken_Garbage(t *testing.T) {
	_, err := auth.UserFromToken("not-a-jwt")
	require.ErrorIs(t, err, auth.ErrBadToken)
}

func TestFileStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := auth.NewFileStore(path)

	require.Nil(t, store.Credentials())

	creds := auth.Credentials{
		Token: signToken(t, "u1", "Dana Reyes", "admin", time.Now().Add(time.Hour)),
		User:  auth.User{ID: "u1", Name: "Dana Reyes", Role: auth.RoleAdmin},
	}
	require.NoError(t, store.Save(creds))

	reloaded := auth.NewFileStore(path)
	got := reloaded.Credentials()
	require.NotNil(t, got)
	require.Equal(t, creds.Token, got.Token)
	require.Equal(t, creds.User, got.User)

	require.NoError(t, reloaded.Clear())
	require.Nil(t, reloaded.Credentials())
	// clearing twice is fine
	require.NoError(t, reloaded.Clear())
}

func TestFileStore_ExpiredTokenTreatedAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := auth.NewFileStore(path)
	require.NoError(t, store.Save(auth.Credentials{
		Token: signToken(t, "u1", "Dana Reyes", "admin", time.Now().Add(-time.Minute)),
		User:  auth.User{ID: "u1"},
	}))

	reloaded := auth.NewFileStore(path)
	require.Nil(t, reloaded.Credentials())
}
