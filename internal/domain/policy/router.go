package policy

import (
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

// Default comments recorded when an approver gives none
const (
	DefaultApproveComment     = "Approved as per policy"
	DefaultRejectComment      = "Does not meet approval criteria"
	DefaultRequestInfoComment = "Additional information required"
)

// Decision is the router's verdict on a single approver action
type Decision struct {
	Approved                   bool                `json:"approved"`
	Rejected                   bool                `json:"rejected"`
	InfoRequested              bool                `json:"infoRequested"`
	NextApprover               entity.ApproverRole `json:"nextApprover,omitempty"`
	RequiresAdditionalApproval bool                `json:"requiresAdditionalApproval"`
	FinalApproval              bool                `json:"finalApproval"`
	Comments                   string              `json:"comments"`
	Timestamp                  time.Time           `json:"timestamp"`
}

// Router decides escalation for approver actions
type Router struct {
	rules Rules
}

// NewRouter creates a router for the given rules
func NewRouter(rules Rules) *Router {
	return &Router{rules: rules}
}

// Decide evaluates an action by role on report. Escalation is only considered for approvals.
func (r *Router) Decide(report *entity.ExpenseReport, role entity.ApproverRole, action entity.ApprovalAction, comments string, at time.Time) Decision {
	d := Decision{
		Approved:      action == entity.ActionApprove,
		Rejected:      action == entity.ActionReject,
		InfoRequested: action == entity.ActionRequestInfo,
		Comments:      comments,
		Timestamp:     at,
	}

	if d.Approved {
		if next, escalate := r.rules.NextApprover(role, report.TotalAmount); escalate {
			d.RequiresAdditionalApproval = true
			d.NextApprover = next
		}
	}
	d.FinalApproval = d.Approved && !d.RequiresAdditionalApproval

	if d.Comments == "" {
		d.Comments = DefaultComment(action)
	}

	return d
}

// DefaultComment returns the comment recorded for action when none was given
func DefaultComment(action entity.ApprovalAction) string {
	switch action {
	case entity.ActionApprove:
		return DefaultApproveComment
	case entity.ActionReject:
		return DefaultRejectComment
	default:
		return DefaultRequestInfoComment
	}
}
