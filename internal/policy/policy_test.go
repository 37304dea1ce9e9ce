package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalModeBypassesGroupChecks(t *testing.T) {
	engine := New(Context{
		Environment:    "local",
		OperatorGroups: []string{"G-OP"},
		AdminGroups:    []string{"G-ADMIN"},
		UserGroups:     nil,
	})

	assert.True(t, engine.CanViewActiveList())
	assert.True(t, engine.CanViewHistory())
	assert.True(t, engine.CanViewAuditLogs())
}

func TestGroupIntersection(t *testing.T) {
	tests := []struct {
		name        string
		userGroups  []string
		wantHistory bool
		wantAudit   bool
	}{
		{"operator member", []string{"G-OP"}, true, false},
		{"admin member", []string{"G-ADMIN"}, true, true},
		{"both", []string{"G-OP", "G-ADMIN"}, true, true},
		{"no membership", []string{"G-OTHER"}, false, false},
		{"empty groups", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := New(Context{
				Environment:    "prod",
				OperatorGroups: []string{"G-OP"},
				AdminGroups:    []string{"G-ADMIN"},
				UserGroups:     tt.userGroups,
			})

			assert.True(t, engine.CanViewActiveList(), "presence list is never gated")
			assert.Equal(t, tt.wantHistory, engine.CanViewHistory())
			assert.Equal(t, tt.wantAudit, engine.CanViewAuditLogs())
		})
	}
}

func TestSimulatedRoles(t *testing.T) {
	tests := []struct {
		role        string
		wantHistory bool
		wantAudit   bool
	}{
		{RoleAdmin, true, true},
		{RoleOperator, true, false},
		{RoleUser, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			engine := New(Context{
				Environment:    "prod",
				OperatorGroups: []string{"G-OP"},
				AdminGroups:    []string{"G-ADMIN"},
				// Real membership would grant everything; the simulated
				// role must win over it.
				UserGroups:   []string{"G-ADMIN"},
				SimulateRole: tt.role,
			})

			assert.Equal(t, tt.wantHistory, engine.CanViewHistory())
			assert.Equal(t, tt.wantAudit, engine.CanViewAuditLogs())
		})
	}
}

func TestEmptyRequiredGroupsMeansUnrestricted(t *testing.T) {
	engine := New(Context{
		Environment: "prod",
		UserGroups:  nil,
	})

	assert.True(t, engine.CanViewHistory())
	assert.True(t, engine.CanViewAuditLogs())
}

func TestUnknownSimulateRoleFallsBackToRealGroups(t *testing.T) {
	engine := New(Context{
		Environment:    "prod",
		OperatorGroups: []string{"G-OP"},
		AdminGroups:    []string{"G-ADMIN"},
		UserGroups:     []string{"G-OP"},
		SimulateRole:   "superuser",
	})

	assert.True(t, engine.CanViewHistory())
	assert.False(t, engine.CanViewAuditLogs())
}
