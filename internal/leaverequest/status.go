package leaverequest

// Status is the closed set of leave request lifecycle states. Transitions
// go through the table below, never through ad hoc string comparisons.
type Status string

const (
	StatusPendingManager             Status = "PENDING_MANAGER"
	StatusPendingAdmin               Status = "PENDING_ADMIN"
	StatusApprovedByManager          Status = "APPROVED_BY_MANAGER"
	StatusApprovedByAdmin            Status = "APPROVED_BY_ADMIN"
	StatusDenied                     Status = "DENIED"
	StatusCancelled                  Status = "CANCELLED"
	StatusCancellationPendingManager Status = "CANCELLATION_PENDING_MANAGER"
	StatusCancellationPendingAdmin   Status = "CANCELLATION_PENDING_ADMIN"
)

// actorClass is who may drive a given transition: the employee's manager,
// an admin, or the requesting employee themself.
type actorClass int

const (
	actorManager actorClass = iota
	actorAdmin
	actorSelf
)

type transition struct {
	target Status
	actor  actorClass
}

// transitions covers the approve/deny half of the machine. Cancellation
// flows have their own entry points and are not reachable through here.
var transitions = map[Status][]transition{
	StatusPendingManager: {
		{StatusApprovedByManager, actorManager},
		{StatusDenied, actorManager},
	},
	// PENDING_ADMIN is the bypass entry point; the admin treats it the
	// same as APPROVED_BY_MANAGER.
	StatusPendingAdmin: {
		{StatusApprovedByAdmin, actorAdmin},
		{StatusDenied, actorAdmin},
	},
	StatusApprovedByManager: {
		{StatusApprovedByAdmin, actorAdmin},
		{StatusDenied, actorAdmin},
	},
}

func allowedTransition(from, to Status) (actorClass, bool) {
	for _, t := range transitions[from] {
		if t.target == to {
			return t.actor, true
		}
	}
	return 0, false
}

func ValidStatus(s Status) bool {
	switch s {
	case StatusPendingManager, StatusPendingAdmin,
		StatusApprovedByManager, StatusApprovedByAdmin,
		StatusDenied, StatusCancelled,
		StatusCancellationPendingManager, StatusCancellationPendingAdmin:
		return true
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusDenied || s == StatusCancelled
}

// canCancelPending reports whether the employee may still withdraw the
// request outright. Nothing has been debited in these states.
func canCancelPending(s Status) bool {
	return s == StatusPendingManager || s == StatusApprovedByManager
}

// awaitingAdmin are the states an admin sees as "awaiting final approval".
var awaitingAdmin = []Status{StatusPendingAdmin, StatusApprovedByManager}
