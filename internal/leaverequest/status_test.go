package leaverequest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    Status
		to      Status
		actor   actorClass
		allowed bool
	}{
		{"manager approves pending", StatusPendingManager, StatusApprovedByManager, actorManager, true},
		{"manager denies pending", StatusPendingManager, StatusDenied, actorManager, true},
		{"admin finalizes manager approval", StatusApprovedByManager, StatusApprovedByAdmin, actorAdmin, true},
		{"admin denies manager approval", StatusApprovedByManager, StatusDenied, actorAdmin, true},
		{"admin finalizes bypassed request", StatusPendingAdmin, StatusApprovedByAdmin, actorAdmin, true},
		{"admin denies bypassed request", StatusPendingAdmin, StatusDenied, actorAdmin, true},
		{"pending manager cannot jump to final approval", StatusPendingManager, StatusApprovedByAdmin, 0, false},
		{"denied is terminal", StatusDenied, StatusApprovedByManager, 0, false},
		{"cancelled is terminal", StatusCancelled, StatusPendingManager, 0, false},
		{"final approval cannot be re-approved", StatusApprovedByAdmin, StatusApprovedByAdmin, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			actor, ok := allowedTransition(tc.from, tc.to)
			assert.Equal(t, tc.allowed, ok)
			if tc.allowed {
				assert.Equal(t, tc.actor, actor)
			}
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusDenied))
	assert.True(t, IsTerminal(StatusCancelled))
	assert.False(t, IsTerminal(StatusPendingManager))
	assert.False(t, IsTerminal(StatusApprovedByAdmin))
	assert.False(t, IsTerminal(StatusCancellationPendingAdmin))
}

func TestCanCancelPending(t *testing.T) {
	assert.True(t, canCancelPending(StatusPendingManager))
	assert.True(t, canCancelPending(StatusApprovedByManager))
	assert.False(t, canCancelPending(StatusPendingAdmin))
	assert.False(t, canCancelPending(StatusApprovedByAdmin))
	assert.False(t, canCancelPending(StatusCancelled))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusCancellationPendingManager))
	assert.False(t, ValidStatus(Status("SOMETHING_ELSE")))
}
