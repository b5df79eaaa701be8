package sdk_test

import (
	"testing"

	"github.com/pytact/docvault/pkg/sdk"
	"github.com/stretchr/testify/assert"
)

func identityWithRole(role sdk.Role) *sdk.Identity {
	return &sdk.Identity{
		ID:          "user-1",
		Email:       "pat@example.com",
		DisplayName: "Pat",
		Role:        role,
		Permissions: role.Permissions(),
	}
}

func TestEvaluate(t *testing.T) {
	authenticated := sdk.Snapshot{Phase: sdk.PhaseAuthenticated, Identity: identityWithRole(sdk.RoleMember)}
	admin := sdk.Snapshot{Phase: sdk.PhaseAuthenticated, Identity: identityWithRole(sdk.RoleFamilyAdmin)}

	cases := []struct {
		name string
		snap sdk.Snapshot
		req  sdk.AccessRequirement
		want sdk.AccessDecision
	}{
		{
			name: "bootstrapping is pending, never a redirect",
			snap: sdk.Snapshot{Phase: sdk.PhaseBootstrapping},
			req:  sdk.AccessRequirement{RequiresAuth: true},
			want: sdk.DecisionPending,
		},
		{
			name: "unauthenticated is redirected to login",
			snap: sdk.Snapshot{Phase: sdk.PhaseUnauthenticated},
			req:  sdk.AccessRequirement{RequiresAuth: true},
			want: sdk.DecisionRedirectLogin,
		},
		{
			name: "authenticating is redirected to login",
			snap: sdk.Snapshot{Phase: sdk.PhaseAuthenticating},
			req:  sdk.AccessRequirement{RequiresAuth: true},
			want: sdk.DecisionRedirectLogin,
		},
		{
			name: "expired evaluates like unauthenticated",
			snap: sdk.Snapshot{Phase: sdk.PhaseExpired},
			req:  sdk.AccessRequirement{RequiresAuth: true},
			want: sdk.DecisionRedirectLogin,
		},
		{
			name: "empty role set admits any authenticated role",
			snap: authenticated,
			req:  sdk.AccessRequirement{RequiresAuth: true},
			want: sdk.DecisionAllow,
		},
		{
			name: "role outside the allowed set is forbidden",
			snap: authenticated,
			req:  sdk.AccessRequirement{RequiresAuth: true, AllowedRoles: []sdk.Role{sdk.RoleSuperAdmin, sdk.RoleFamilyAdmin}},
			want: sdk.DecisionRedirectForbidden,
		},
		{
			name: "role inside the allowed set is allowed",
			snap: admin,
			req:  sdk.AccessRequirement{RequiresAuth: true, AllowedRoles: []sdk.Role{sdk.RoleFamilyAdmin}},
			want: sdk.DecisionAllow,
		},
		{
			name: "public view needs no session",
			snap: sdk.Snapshot{Phase: sdk.PhaseUnauthenticated},
			req:  sdk.AccessRequirement{},
			want: sdk.DecisionAllow,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sdk.Evaluate(tc.snap, tc.req))
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	snap := sdk.Snapshot{Phase: sdk.PhaseAuthenticated, Identity: identityWithRole(sdk.RoleMember)}
	req := sdk.AccessRequirement{RequiresAuth: true, AllowedRoles: []sdk.Role{sdk.RoleMember}}

	first := sdk.Evaluate(snap, req)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, sdk.Evaluate(snap, req))
	}
}
