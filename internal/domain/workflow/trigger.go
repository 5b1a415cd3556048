package workflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	TriggerSubmit              Trigger = "submit"
	TriggerStartPolicyCheck    Trigger = "start_policy_check"
	TriggerCompletePolicyCheck Trigger = "complete_policy_check"
	TriggerApprove             Trigger = "approve"
	TriggerReject              Trigger = "reject"
	TriggerRequestInfo         Trigger = "request_info"
	TriggerPay                 Trigger = "pay"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
