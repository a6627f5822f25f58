// internal/models/status.go
package models

// ApplicationStatus is the state of a loan application in the origination
// pipeline. Draft and Approved exist in upstream data but no transition
// produces or consumes them; they are reserved values.
type ApplicationStatus string

const (
	StatusDraft             ApplicationStatus = "Draft"
	StatusSubmitted         ApplicationStatus = "Submitted"
	StatusInternalChecking  ApplicationStatus = "Internal Checking"
	StatusExternalChecking  ApplicationStatus = "External Checking"
	StatusEDDRequired       ApplicationStatus = "EDD Required"
	StatusSupervisorReview  ApplicationStatus = "Supervisor Review"
	StatusAnalystReview     ApplicationStatus = "Analyst Review"
	StatusApproval          ApplicationStatus = "Approval"
	StatusApproved          ApplicationStatus = "Approved"
	StatusRejected          ApplicationStatus = "Rejected"
	StatusDisbursementReady ApplicationStatus = "Disbursement Ready"
	StatusDisbursed         ApplicationStatus = "Disbursed"
)

// AllStatuses lists every status value, reserved ones included.
var AllStatuses = []ApplicationStatus{
	StatusDraft,
	StatusSubmitted,
	StatusInternalChecking,
	StatusExternalChecking,
	StatusEDDRequired,
	StatusSupervisorReview,
	StatusAnalystReview,
	StatusApproval,
	StatusApproved,
	StatusRejected,
	StatusDisbursementReady,
	StatusDisbursed,
}

// IsTerminal reports whether no further transition leaves the status.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusDisbursed
}

// Role identifies a workflow participant. Admin is not a participant; it may
// only impersonate another role at the identity layer.
type Role string

const (
	RoleSales      Role = "Sales"
	RoleICR        Role = "ICR"
	RoleSupervisor Role = "Supervisor"
	RoleAnalyst    Role = "Analyst"
	RoleApprover   Role = "Approver"
	RoleOperation  Role = "Operation"
	RoleAdmin      Role = "Admin"
)

// AllRoles lists every role value.
var AllRoles = []Role{
	RoleSales,
	RoleICR,
	RoleSupervisor,
	RoleAnalyst,
	RoleApprover,
	RoleOperation,
	RoleAdmin,
}
