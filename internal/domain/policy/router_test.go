package policy

import (
	"testing"
	"time"

	"github.com/garyjia/expense-approvals/internal/domain/entity"
)

func TestRouter_Decide(t *testing.T) {
	tests := []struct {
		name        string
		total       float64
		role        entity.ApproverRole
		action      entity.ApprovalAction
		wantNext    entity.ApproverRole
		wantEscal   bool
		wantFinal   bool
		wantComment string
	}{
		{"manager approves small report", 500, entity.RoleManager, entity.ActionApprove, "", false, true, DefaultApproveComment},
		{"manager approval escalates to finance", 1500, entity.RoleManager, entity.ActionApprove, entity.RoleFinance, true, false, DefaultApproveComment},
		{"finance approves mid report", 1500, entity.RoleFinance, entity.ActionApprove, "", false, true, DefaultApproveComment},
		{"finance approval escalates to admin", 7000, entity.RoleFinance, entity.ActionApprove, entity.RoleAdmin, true, false, DefaultApproveComment},
		{"manager approval on large report escalates one step", 7000, entity.RoleManager, entity.ActionApprove, entity.RoleFinance, true, false, DefaultApproveComment},
		{"admin never escalates", 50000, entity.RoleAdmin, entity.ActionApprove, "", false, true, DefaultApproveComment},
		{"reject does not escalate", 7000, entity.RoleManager, entity.ActionReject, "", false, false, DefaultRejectComment},
		{"request info does not escalate", 7000, entity.RoleFinance, entity.ActionRequestInfo, "", false, false, DefaultRequestInfoComment},
		{"boundary 1000 stays with manager", 1000, entity.RoleManager, entity.ActionApprove, "", false, true, DefaultApproveComment},
		{"boundary 5000 stays with finance", 5000, entity.RoleFinance, entity.ActionApprove, "", false, true, DefaultApproveComment},
	}

	router := NewRouter(DefaultRules())
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &entity.ExpenseReport{TotalAmount: tt.total}
			d := router.Decide(report, tt.role, tt.action, "", now)

			if d.NextApprover != tt.wantNext {
				t.Errorf("NextApprover = %q, want %q", d.NextApprover, tt.wantNext)
			}
			if d.RequiresAdditionalApproval != tt.wantEscal {
				t.Errorf("RequiresAdditionalApproval = %v, want %v", d.RequiresAdditionalApproval, tt.wantEscal)
			}
			if d.FinalApproval != tt.wantFinal {
				t.Errorf("FinalApproval = %v, want %v", d.FinalApproval, tt.wantFinal)
			}
			if d.Comments != tt.wantComment {
				t.Errorf("Comments = %q, want %q", d.Comments, tt.wantComment)
			}
			if d.Approved != (tt.action == entity.ActionApprove) ||
				d.Rejected != (tt.action == entity.ActionReject) ||
				d.InfoRequested != (tt.action == entity.ActionRequestInfo) {
				t.Errorf("action flags = %+v for action %s", d, tt.action)
			}
			if !d.Timestamp.Equal(now) {
				t.Errorf("Timestamp = %v, want %v", d.Timestamp, now)
			}
		})
	}
}

func TestRouter_KeepsGivenComments(t *testing.T) {
	d := NewRouter(DefaultRules()).Decide(&entity.ExpenseReport{TotalAmount: 10}, entity.RoleManager, entity.ActionReject, "Duplicate of last week's report", time.Now())
	if d.Comments != "Duplicate of last week's report" {
		t.Errorf("Comments = %q", d.Comments)
	}
}

func TestRules_RequiredApprovers(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		total float64
		want  int
	}{
		{30, 0},
		{50, 0},
		{51, 1},
		{1001, 2},
		{5001, 3},
	}
	for _, tt := range tests {
		if got := rules.RequiredApprovers(tt.total); len(got) != tt.want {
			t.Errorf("RequiredApprovers(%v) = %v, want %d approvers", tt.total, got, tt.want)
		}
	}
}
