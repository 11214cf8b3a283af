package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kunstgalerie/internal/gateway"
	"kunstgalerie/internal/model"
	"kunstgalerie/internal/querycache"
)

func setupAdmin(t *testing.T) (*env, string) {
	t.Helper()
	e := setup(t)
	adminID := e.srv.MustCreateUser(t, "chef@example.org", "geheim", "Chef", "Admin")
	e.srv.MustMakeAdmin(t, adminID)
	e.signInAs(t, "chef@example.org", "geheim")
	return e, adminID
}

func TestUserStore_ListRequiresAdmin(t *testing.T) {
	e := setup(t)
	e.srv.MustCreateUser(t, "kunde@example.org", "geheim", "Kunde", "")
	e.signInAs(t, "kunde@example.org", "geheim")

	_, err := e.users.List(context.Background())
	var fe *gateway.ForbiddenError
	require.ErrorAs(t, err, &fe)
}

func TestUserStore_ListRequiresSignIn(t *testing.T) {
	e := setup(t)
	_, err := e.users.List(context.Background())
	var ae *gateway.AuthError
	require.ErrorAs(t, err, &ae)
}

func TestUserStore_ListReportsEffectiveRoles(t *testing.T) {
	e, adminID := setupAdmin(t)
	kundeID := e.srv.MustCreateUser(t, "kunde@example.org", "geheim", "Kunde", "K")

	users, err := e.users.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	roles := map[string]string{}
	for _, u := range users {
		roles[u.ID] = u.Role
	}
	assert.Equal(t, model.RoleAdmin, roles[adminID])
	assert.Equal(t, model.RoleUser, roles[kundeID], "no role row means the default role")
}

func TestUserStore_AssignAndRevokeAdmin(t *testing.T) {
	e, _ := setupAdmin(t)
	ctx := context.Background()
	kundeID := e.srv.MustCreateUser(t, "kunde@example.org", "geheim", "Kunde", "")

	require.NoError(t, e.users.AssignRole(ctx, kundeID, model.RoleAdmin))
	users, err := e.users.List(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == kundeID {
			assert.Equal(t, model.RoleAdmin, u.Role)
		}
	}

	// granting twice is idempotent
	require.NoError(t, e.users.AssignRole(ctx, kundeID, model.RoleAdmin))

	require.NoError(t, e.users.AssignRole(ctx, kundeID, model.RoleUser))
	users, err = e.users.List(ctx)
	require.NoError(t, err)
	for _, u := range users {
		if u.ID == kundeID {
			assert.Equal(t, model.RoleUser, u.Role)
		}
	}
}

func TestUserStore_AssignRoleRejectsUnknownRole(t *testing.T) {
	e, _ := setupAdmin(t)
	err := e.users.AssignRole(context.Background(), "someone", "superuser")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "superuser")
}

func TestUserStore_AssignRoleFlushesTargetGateAnswer(t *testing.T) {
	e, _ := setupAdmin(t)
	ctx := context.Background()
	kundeID := e.srv.MustCreateUser(t, "kunde@example.org", "geheim", "Kunde", "")

	// simulate a cached negative gate answer for the target
	gateKey := querycache.Key{Entity: "role", Params: model.RoleAdmin, Identity: kundeID}
	e.cache.Set(gateKey, false)

	require.NoError(t, e.users.AssignRole(ctx, kundeID, model.RoleAdmin))
	_, ok := e.cache.Get(gateKey)
	assert.False(t, ok, "the target's stale gate answer must not outlive the role change")
}
