package service

import (
	"testing"

	"go-itstock/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndAuthenticate(t *testing.T) {
	f := newFixture(t, false)

	_, err := f.auth.Login(f.ctx, "operator", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(f.ctx, "nobody", "P@ssw0rd")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	resp, err := f.auth.Login(f.ctx, "operator", "P@ssw0rd")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "operator", resp.User.Username)

	user, err := f.auth.Authenticate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, user.ID)
	assert.Equal(t, model.RoleUser, user.RoleCode())
	assert.Equal(t, int64(1), f.auditCount(t, ActionLogin))
}

func TestSecondLoginReplacesSession(t *testing.T) {
	f := newFixture(t, false)

	first, err := f.auth.Login(f.ctx, "operator", "P@ssw0rd")
	require.NoError(t, err)
	second, err := f.auth.Login(f.ctx, "operator", "P@ssw0rd")
	require.NoError(t, err)

	_, err = f.auth.Authenticate(first.Token)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	_, err = f.auth.Authenticate(second.Token)
	assert.NoError(t, err)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	f := newFixture(t, false)
	resp, err := f.auth.Login(f.ctx, "operator", "P@ssw0rd")
	require.NoError(t, err)

	require.NoError(t, f.auth.Logout(f.ctx, f.user))

	_, err = f.auth.Authenticate(resp.Token)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	assert.Equal(t, int64(1), f.auditCount(t, ActionLogout))

	_, err = f.auth.Authenticate("garbage")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestInactiveUserCannotLogin(t *testing.T) {
	f := newFixture(t, false)
	require.NoError(t, f.db.Model(&model.User{}).Where("id = ?", f.user.ID).Update("is_active", false).Error)

	_, err := f.auth.Login(f.ctx, "operator", "P@ssw0rd")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t, false)

	assert.ErrorIs(t, f.auth.ChangePassword(f.ctx, f.user, "wrong", "new-secret"), ErrWrongPassword)

	var verr *ValidationError
	assert.ErrorAs(t, f.auth.ChangePassword(f.ctx, f.user, "P@ssw0rd", "123"), &verr)

	require.NoError(t, f.auth.ChangePassword(f.ctx, f.user, "P@ssw0rd", "new-secret"))
	_, err := f.auth.Login(f.ctx, "operator", "new-secret")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), f.auditCount(t, ActionPasswordChanged))
}
