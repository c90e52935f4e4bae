package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewUserService(f.users, f.logger)

	user, err := svc.Register(ctx, 10, "ana", "")
	require.NoError(t, err)
	assert.Equal(t, "ana", user.FirstName)

	again, err := svc.Register(ctx, 10, "ana", "Ana")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	isAdmin, err := svc.IsAdmin(ctx, 10)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	require.NoError(t, svc.InitializeAdmin(ctx, 10))
	isAdmin, err = svc.IsAdmin(ctx, 10)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, svc.InitializeAdmin(ctx, 20))
	isAdmin, err = svc.IsAdmin(ctx, 20)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	require.NoError(t, svc.InitializeAdmin(ctx, 0))

	updated, err := svc.SetTimezone(ctx, 10, "America/Bogota")
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", updated.Timezone)

	_, err = svc.SetTimezone(ctx, 10, "Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownTimezone)

	_, err = svc.SetTimezone(ctx, 99, "UTC")
	assert.Error(t, err)
}
