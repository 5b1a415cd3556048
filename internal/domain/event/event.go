package event

import (
	"time"

	"github.com/google/uuid"
)

// Payload keys shared by publishers and subscribers
const (
	KeyFromStatus    = "from_status"
	KeyToStatus      = "to_status"
	KeyTrigger       = "trigger"
	KeyApproverRole  = "approver_role"
	KeyApproverID    = "approver_id"
	KeyAction        = "action"
	KeyNextApprover  = "next_approver"
	KeyAmount        = "amount"
	KeyViolations    = "violations"
	KeyViolationType = "violation_types"
	KeyPassed        = "passed"
	KeyPaymentMethod = "payment_method"
	KeyTransactionID = "transaction_id"
	KeyEmployeeID    = "employee_id"
)

// Event represents a domain event raised after a workflow mutation commits
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	ReportID      string                 `json:"report_id"`
	WorkflowID    string                 `json:"workflow_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// NewEvent creates a new domain event with a generated ID
func NewEvent(eventType Type, reportID, workflowID string, payload map[string]interface{}, at time.Time) *Event {
	id := uuid.NewString()
	return &Event{
		ID:            id,
		Type:          eventType,
		ReportID:      reportID,
		WorkflowID:    workflowID,
		Payload:       payload,
		Timestamp:     at,
		CorrelationID: id,
	}
}

// Related creates a follow-up event sharing this event's correlation ID
func (e *Event) Related(eventType Type, payload map[string]interface{}) *Event {
	evt := NewEvent(eventType, e.ReportID, e.WorkflowID, payload, e.Timestamp)
	evt.CorrelationID = e.CorrelationID
	return evt
}

// WithPayload returns a new Event with an added payload key-value pair (immutable operation)
func (e *Event) WithPayload(key string, value interface{}) *Event {
	newPayload := make(map[string]interface{}, len(e.Payload)+1)
	for k, v := range e.Payload {
		newPayload[k] = v
	}
	newPayload[key] = value

	cp := *e
	cp.Payload = newPayload
	return &cp
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadFloat retrieves a float64 value from the payload
func (e *Event) GetPayloadFloat(key string) float64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return 0.0
}

// GetPayloadBool retrieves a bool value from the payload
func (e *Event) GetPayloadBool(key string) bool {
	if val, ok := e.Payload[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// GetPayloadStrings retrieves a string slice from the payload
func (e *Event) GetPayloadStrings(key string) []string {
	if val, ok := e.Payload[key]; ok {
		if s, ok := val.([]string); ok {
			return s
		}
	}
	return nil
}
