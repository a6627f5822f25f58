// internal/workflow/table.go
package workflow

import "loan-workflow/internal/models"

// RemoteAction tells the engine which external loan service call, if any,
// must succeed before a transition commits locally.
type RemoteAction int

const (
	RemoteNone RemoteAction = iota
	RemoteSubmit
	RemoteReject
	RemoteTerminate
)

// Requirement names the payload precondition checked in the MissingData
// guard for a transition.
type Requirement int

const (
	RequireNone Requirement = iota
	RequireEDDNotes
	RequireChecklistComplete
	RequireDisbursementDetails
	RequireResubmission
)

// Rule is one row of the transition table: who may move an application
// from one status to another, what data the move needs, and whether the
// move is mirrored to the remote loan service.
type Rule struct {
	From     models.ApplicationStatus
	To       models.ApplicationStatus
	Role     models.Role
	Requires Requirement
	Remote   RemoteAction

	// ClearEDDNotes marks the EDD resubmission restart, which wipes the
	// supervisor's notes on re-entry.
	ClearEDDNotes bool
}

// transitionTable is the single source of truth for the state machine.
// Rejection stops being reachable at Disbursement Ready: from there the
// only forward motion is to disburse.
var transitionTable = []Rule{
	{From: models.StatusSubmitted, To: models.StatusInternalChecking, Role: models.RoleICR, Remote: RemoteSubmit},

	{From: models.StatusInternalChecking, To: models.StatusExternalChecking, Role: models.RoleICR, Remote: RemoteSubmit},
	{From: models.StatusInternalChecking, To: models.StatusRejected, Role: models.RoleICR, Remote: RemoteReject},

	{From: models.StatusExternalChecking, To: models.StatusSupervisorReview, Role: models.RoleICR, Remote: RemoteSubmit},
	{From: models.StatusExternalChecking, To: models.StatusRejected, Role: models.RoleICR, Remote: RemoteReject},

	{From: models.StatusSupervisorReview, To: models.StatusAnalystReview, Role: models.RoleSupervisor},
	{From: models.StatusSupervisorReview, To: models.StatusEDDRequired, Role: models.RoleSupervisor, Requires: RequireEDDNotes},
	{From: models.StatusSupervisorReview, To: models.StatusRejected, Role: models.RoleSupervisor, Remote: RemoteReject},

	{From: models.StatusEDDRequired, To: models.StatusSubmitted, Role: models.RoleSales, Requires: RequireResubmission, ClearEDDNotes: true},

	{From: models.StatusAnalystReview, To: models.StatusApproval, Role: models.RoleAnalyst},
	{From: models.StatusAnalystReview, To: models.StatusRejected, Role: models.RoleAnalyst, Remote: RemoteReject},

	{From: models.StatusApproval, To: models.StatusDisbursementReady, Role: models.RoleApprover, Requires: RequireChecklistComplete},
	{From: models.StatusApproval, To: models.StatusRejected, Role: models.RoleApprover, Remote: RemoteReject},

	{From: models.StatusDisbursementReady, To: models.StatusDisbursed, Role: models.RoleOperation, Requires: RequireDisbursementDetails},
}

// roleMayAct reports whether the role has any rule at all for the current
// status. This is the Forbidden guard; it deliberately runs before the
// target is considered so a Sales user poking at an Internal Checking
// record gets Forbidden, not InvalidTransition.
func roleMayAct(status models.ApplicationStatus, role models.Role) bool {
	for _, r := range transitionTable {
		if r.From == status && r.Role == role {
			return true
		}
	}
	// Delete is the one out-of-band Sales action in Submitted.
	if status == models.StatusSubmitted && role == models.RoleSales {
		return true
	}
	return false
}

// findRule returns the rule for a (from, to, role) triple.
func findRule(from, to models.ApplicationStatus, role models.Role) (Rule, bool) {
	for _, r := range transitionTable {
		if r.From == from && r.To == to && r.Role == role {
			return r, true
		}
	}
	return Rule{}, false
}
