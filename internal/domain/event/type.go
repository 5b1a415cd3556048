package event

// Type identifies the type of domain event
type Type string

const (
	TypeReportSubmitted   Type = "report.submitted"
	TypePolicyChecked     Type = "report.policy_checked"
	TypeApprovalRecorded  Type = "report.approval_recorded"
	TypeApprovalEscalated Type = "report.approval_escalated"
	TypeReportApproved    Type = "report.approved"
	TypeReportRejected    Type = "report.rejected"
	TypeInfoRequested     Type = "report.info_requested"
	TypeReportPaid        Type = "report.paid"
	TypeStatusChanged     Type = "report.status_changed"
)

// AllTypes lists every event type
var AllTypes = []Type{
	TypeReportSubmitted,
	TypePolicyChecked,
	TypeApprovalRecorded,
	TypeApprovalEscalated,
	TypeReportApproved,
	TypeReportRejected,
	TypeInfoRequested,
	TypeReportPaid,
	TypeStatusChanged,
}

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}
