package workflow

import "github.com/garyjia/expense-approvals/internal/domain/entity"

// State represents a workflow state in the expense approval lifecycle
type State string

const (
	StateDraft                   State = "draft"
	StateSubmitted               State = "submitted"
	StatePolicyCheckPending      State = "policy_check_pending"
	StatePolicyCheckCompleted    State = "policy_check_completed"
	StateManagerApprovalPending  State = "manager_approval_pending"
	StateManagerApproved         State = "manager_approved"
	StateFinanceApprovalPending  State = "finance_approval_pending"
	StateFinanceApproved         State = "finance_approved"
	StateAdminApprovalPending    State = "admin_approval_pending"
	StateApproved                State = "approved"
	StateRejected                State = "rejected"
	StatePaid                    State = "paid"
	StateRequiresAdditionalInfo  State = "requires_additional_info"
	StatePolicyViolationDetected State = "policy_violation_detected"
)

var validStates = map[State]bool{
	StateDraft:                   true,
	StateSubmitted:               true,
	StatePolicyCheckPending:      true,
	StatePolicyCheckCompleted:    true,
	StateManagerApprovalPending:  true,
	StateManagerApproved:         true,
	StateFinanceApprovalPending:  true,
	StateFinanceApproved:         true,
	StateAdminApprovalPending:    true,
	StateApproved:                true,
	StateRejected:                true,
	StatePaid:                    true,
	StateRequiresAdditionalInfo:  true,
	StatePolicyViolationDetected: true,
}

var terminalStates = map[State]bool{
	StateRejected: true,
	StatePaid:     true,
}

// reportStatuses maps each workflow state to the status shown on the report
var reportStatuses = map[State]entity.ReportStatus{
	StateDraft:                   entity.ReportStatusDraft,
	StateSubmitted:               entity.ReportStatusSubmitted,
	StatePolicyCheckPending:      entity.ReportStatusSubmitted,
	StatePolicyCheckCompleted:    entity.ReportStatusSubmitted,
	StatePolicyViolationDetected: entity.ReportStatusSubmitted,
	StateManagerApprovalPending:  entity.ReportStatusPendingManagerApproval,
	StateManagerApproved:         entity.ReportStatusPendingFinanceApproval,
	StateFinanceApprovalPending:  entity.ReportStatusPendingFinanceApproval,
	StateFinanceApproved:         entity.ReportStatusPendingAdminApproval,
	StateAdminApprovalPending:    entity.ReportStatusPendingAdminApproval,
	StateApproved:                entity.ReportStatusApproved,
	StateRejected:                entity.ReportStatusRejected,
	StatePaid:                    entity.ReportStatusPaid,
	StateRequiresAdditionalInfo:  entity.ReportStatusRequiresAdditionalInfo,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// ReportStatus returns the report-facing status for the state
func (s State) ReportStatus() entity.ReportStatus {
	return reportStatuses[s]
}

// PendingApprovalState returns the "<role>_approval_pending" state for role
func PendingApprovalState(role entity.ApproverRole) State {
	return State(string(role) + "_approval_pending")
}
