package event

import (
	"testing"
	"time"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{"report submitted", TypeReportSubmitted, "report.submitted"},
		{"policy checked", TypePolicyChecked, "report.policy_checked"},
		{"approval escalated", TypeApprovalEscalated, "report.approval_escalated"},
		{"report paid", TypeReportPaid, "report.paid"},
		{"status changed", TypeStatusChanged, "report.status_changed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	for _, known := range AllTypes {
		if !known.IsValid() {
			t.Errorf("%s should be valid", known)
		}
	}

	for _, unknown := range []Type{"", "instance.created", "report.unknown"} {
		if unknown.IsValid() {
			t.Errorf("%q should be invalid", unknown)
		}
	}
}

func TestNewEvent(t *testing.T) {
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	evt := NewEvent(TypeReportSubmitted, "report-1", "wf-1", map[string]interface{}{KeyAmount: 42.5}, at)

	if evt.ID == "" {
		t.Error("NewEvent() should generate an ID")
	}
	if evt.CorrelationID != evt.ID {
		t.Errorf("CorrelationID = %v, want %v", evt.CorrelationID, evt.ID)
	}
	if evt.ReportID != "report-1" || evt.WorkflowID != "wf-1" {
		t.Errorf("unexpected identifiers: %+v", evt)
	}
	if !evt.Timestamp.Equal(at) {
		t.Errorf("Timestamp = %v, want %v", evt.Timestamp, at)
	}

	other := NewEvent(TypeReportSubmitted, "report-1", "wf-1", nil, at)
	if other.ID == evt.ID {
		t.Error("NewEvent() should generate unique IDs")
	}
}

func TestEvent_Related(t *testing.T) {
	parent := NewEvent(TypeApprovalRecorded, "report-1", "wf-1", nil, time.Now())
	child := parent.Related(TypeApprovalEscalated, map[string]interface{}{KeyNextApprover: "finance"})

	if child.CorrelationID != parent.CorrelationID {
		t.Errorf("CorrelationID = %v, want %v", child.CorrelationID, parent.CorrelationID)
	}
	if child.ID == parent.ID {
		t.Error("Related() should generate a new ID")
	}
	if child.ReportID != parent.ReportID || child.Type != TypeApprovalEscalated {
		t.Errorf("unexpected related event: %+v", child)
	}
}

func TestEvent_WithPayload(t *testing.T) {
	original := NewEvent(TypeReportPaid, "report-1", "wf-1", map[string]interface{}{KeyAmount: 10.0}, time.Now())
	updated := original.WithPayload(KeyPaymentMethod, "direct_deposit")

	if _, ok := original.Payload[KeyPaymentMethod]; ok {
		t.Error("WithPayload() must not modify the original event")
	}
	if got := updated.GetPayloadString(KeyPaymentMethod); got != "direct_deposit" {
		t.Errorf("GetPayloadString() = %v", got)
	}
	if got := updated.GetPayloadFloat(KeyAmount); got != 10.0 {
		t.Errorf("GetPayloadFloat() = %v", got)
	}
	if updated.ID != original.ID {
		t.Error("WithPayload() should keep the event ID")
	}
}

func TestEvent_PayloadAccessors(t *testing.T) {
	evt := NewEvent(TypePolicyChecked, "r", "w", map[string]interface{}{
		KeyPassed:        true,
		KeyViolations:    2,
		KeyViolationType: []string{"exceeds_limit", "missing_receipt"},
		KeyFromStatus:    7,
	}, time.Now())

	if !evt.GetPayloadBool(KeyPassed) {
		t.Error("GetPayloadBool() = false, want true")
	}
	if got := evt.GetPayloadFloat(KeyViolations); got != 2 {
		t.Errorf("GetPayloadFloat(int) = %v, want 2", got)
	}
	if got := evt.GetPayloadStrings(KeyViolationType); len(got) != 2 {
		t.Errorf("GetPayloadStrings() = %v", got)
	}
	if got := evt.GetPayloadString(KeyFromStatus); got != "" {
		t.Errorf("GetPayloadString() on non-string = %q, want empty", got)
	}
	if evt.GetPayloadBool("missing") || evt.GetPayloadFloat("missing") != 0 {
		t.Error("missing keys should return zero values")
	}
}
