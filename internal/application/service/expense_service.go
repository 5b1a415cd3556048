package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/garyjia/expense-approvals/internal/application/port"
	appwf "github.com/garyjia/expense-approvals/internal/application/workflow"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/event"
	"github.com/garyjia/expense-approvals/internal/domain/policy"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
	"github.com/garyjia/expense-approvals/pkg/utils"
)

// SubmitMessage acknowledges a stored submission
const SubmitMessage = "Expense report submitted successfully"

// NextSteps describes the processing that follows a submission
var NextSteps = []string{
	"Policy validation check",
	"Receipt processing",
	"Compliance verification",
	"Approval routing",
}

// ExpenseService drives a report from submission through approval
type ExpenseService interface {
	Submit(ctx context.Context, req *SubmitExpenseRequest) (*SubmitResult, error)
	Validate(ctx context.Context, reportID string) (*ValidationOutcome, error)
	Approve(ctx context.Context, reportID string, req *ApprovalRequest) (*ApprovalOutcome, error)
}

type expenseServiceImpl struct {
	store     port.WorkflowStore
	engine    appwf.WorkflowEngine
	validator *policy.Validator
	router    *policy.Router
	schema    *utils.StructValidator
	logger    Logger
	options
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(
	store port.WorkflowStore,
	engine appwf.WorkflowEngine,
	rules policy.Rules,
	logger Logger,
	opts ...Option,
) ExpenseService {
	return &expenseServiceImpl{
		store:     store,
		engine:    engine,
		validator: policy.NewValidator(rules),
		router:    policy.NewRouter(rules),
		schema:    utils.NewStructValidator(),
		logger:    logger,
		options:   newOptions(opts),
	}
}

// Submit validates the draft, computes its total and stores a new workflow in submitted state
func (s *expenseServiceImpl) Submit(ctx context.Context, req *SubmitExpenseRequest) (*SubmitResult, error) {
	if req == nil {
		return nil, NewValidationError("Invalid expense report: request body is required")
	}
	if err := s.schema.Validate(req); err != nil {
		return nil, &ValidationError{Message: "Invalid expense report: " + err.Error(), Err: err}
	}

	items := make([]entity.ExpenseItem, 0, len(req.Expenses))
	for _, in := range req.Expenses {
		item := entity.ExpenseItem{
			ID:          in.ID,
			Category:    in.Category,
			Description: in.Description,
			Amount:      in.Amount,
			Currency:    in.Currency,
			Date:        in.Date,
			Merchant:    in.Merchant,
			ReceiptURL:  in.ReceiptURL,
			Notes:       in.Notes,
		}
		if item.ID == "" {
			item.ID = s.ids.NewID()
		}
		if item.Currency == "" {
			item.Currency = entity.DefaultCurrency
		}
		items = append(items, item)
	}

	report := entity.ExpenseReport{
		Title:      req.Title,
		EmployeeID: req.EmployeeID,
		EmployeeInfo: entity.EmployeeInfo{
			Name:       req.EmployeeInfo.Name,
			Email:      req.EmployeeInfo.Email,
			Department: req.EmployeeInfo.Department,
			ManagerID:  req.EmployeeInfo.ManagerID,
			CostCenter: req.EmployeeInfo.CostCenter,
		},
		Expenses:        items,
		BusinessPurpose: req.BusinessPurpose,
		ApprovalHistory: []entity.ApprovalRecord{},
	}

	total := roundCents(report.ItemsTotal())
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return nil, NewValidationError("Invalid expense report: total amount is out of range")
	}
	if req.TotalAmount != nil && roundCents(*req.TotalAmount) != total {
		return nil, NewValidationError("Invalid expense report: totalAmount %s does not match the sum of expense amounts %s",
			formatMoney(*req.TotalAmount), formatMoney(total))
	}
	report.TotalAmount = total

	now := s.now()
	report.ID = s.ids.NewID()
	report.SubmissionDate = now

	wf := &entity.ExpenseWorkflow{
		ID:            s.ids.NewID(),
		ReportID:      report.ID,
		Status:        domainwf.StateDraft.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
		ExpenseReport: report,
	}
	wf.ExpenseReport.Status = domainwf.StateDraft.ReportStatus()

	tr, err := s.engine.Fire(ctx, wf, domainwf.TriggerSubmit)
	if err != nil {
		return nil, fmt.Errorf("submit workflow: %w", err)
	}

	if err := s.store.Create(ctx, wf); err != nil {
		s.logger.Error("Failed to store workflow", "report_id", wf.ReportID, "error", err)
		return nil, fmt.Errorf("create workflow: %w", err)
	}

	submitted := event.NewEvent(event.TypeReportSubmitted, wf.ReportID, wf.ID, map[string]interface{}{
		event.KeyEmployeeID: report.EmployeeID,
		event.KeyAmount:     report.TotalAmount,
	}, now)
	s.publish(ctx, s.logger, submitted, statusChanged(submitted, tr.From, tr.To, tr.Trigger))

	s.logger.Info("Expense report submitted",
		"report_id", wf.ReportID,
		"workflow_id", wf.ID,
		"employee_id", report.EmployeeID,
		"total_amount", report.TotalAmount,
		"items", len(items),
	)

	return &SubmitResult{
		ReportID:   wf.ReportID,
		WorkflowID: wf.ID,
		Status:     wf.Status,
		Message:    SubmitMessage,
		NextSteps:  append([]string(nil), NextSteps...),
	}, nil
}

// Validate runs the policy check and records violations on the workflow
func (s *expenseServiceImpl) Validate(ctx context.Context, reportID string) (*ValidationOutcome, error) {
	var (
		result policy.ValidationResult
		from   domainwf.State
		at     = s.now()
	)

	updated, err := s.store.Update(ctx, reportID, func(wf *entity.ExpenseWorkflow) error {
		start, err := s.engine.Fire(ctx, wf, domainwf.TriggerStartPolicyCheck)
		if err != nil {
			return transitionError(err, fmt.Sprintf("Expense report cannot be validated in status %s", wf.Status))
		}
		from = start.From

		result = s.validator.Validate(&wf.ExpenseReport)
		wf.PolicyViolations = result.Violations
		checkedAt := at
		wf.PolicyCheckedAt = &checkedAt

		if _, err := s.engine.Fire(domainwf.WithPolicyResult(ctx, result.Passed), wf, domainwf.TriggerCompletePolicyCheck); err != nil {
			return fmt.Errorf("complete policy check: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(s.logger, "Validation failed", reportID, err)
	}

	types := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		types = append(types, v.Type)
	}
	checked := event.NewEvent(event.TypePolicyChecked, updated.ReportID, updated.ID, map[string]interface{}{
		event.KeyPassed:        result.Passed,
		event.KeyViolations:    len(result.Violations),
		event.KeyViolationType: types,
		event.KeyAmount:        updated.ExpenseReport.TotalAmount,
	}, at)
	s.publish(ctx, s.logger, checked,
		statusChanged(checked, from, domainwf.State(updated.Status), domainwf.TriggerCompletePolicyCheck))

	s.logger.Info("Expense report validated",
		"report_id", reportID,
		"passed", result.Passed,
		"violations", len(result.Violations),
		"status", updated.Status,
	)

	return &ValidationOutcome{
		ReportID:         reportID,
		Status:           updated.Status,
		ValidationResult: result,
		Timestamp:        at,
	}, nil
}

// Approve applies an approver's decision, escalating when the amount exceeds the role's ceiling
func (s *expenseServiceImpl) Approve(ctx context.Context, reportID string, req *ApprovalRequest) (*ApprovalOutcome, error) {
	if req == nil {
		return nil, NewValidationError("Invalid approval request: request body is required")
	}
	if err := s.schema.Validate(req); err != nil {
		return nil, &ValidationError{Message: "Invalid approval request: " + err.Error(), Err: err}
	}

	role := entity.ApproverRole(req.ApproverRole)
	action := entity.ApprovalAction(req.Action)
	trigger := triggerFor(action)
	at := s.now()

	var (
		decision policy.Decision
		tr       appwf.Transition
	)

	updated, err := s.store.Update(ctx, reportID, func(wf *entity.ExpenseWorkflow) error {
		guardCtx := domainwf.WithApproval(ctx, role, wf.ExpenseReport.TotalAmount)

		var err error
		tr, err = s.engine.Fire(guardCtx, wf, trigger)
		if err != nil {
			if errors.Is(err, domainwf.ErrGuardFailed) {
				return transitionError(err, fmt.Sprintf("Approver role %s cannot act on an expense report in status %s", role, wf.Status))
			}
			return transitionError(err, fmt.Sprintf("Expense report in status %s cannot accept action %s", wf.Status, action))
		}

		decision = s.router.Decide(&wf.ExpenseReport, role, action, req.Comments, at)
		wf.ExpenseReport.ApprovalHistory = append(wf.ExpenseReport.ApprovalHistory, entity.ApprovalRecord{
			ApprovedBy:   req.ApproverID,
			ApproverRole: role,
			Action:       action,
			Timestamp:    at,
			Comments:     decision.Comments,
		})

		switch action {
		case entity.ActionReject:
			wf.ExpenseReport.RejectionReason = decision.Comments
		case entity.ActionRequestInfo:
			wf.ExpenseReport.AdditionalInfoRequested = decision.Comments
		}
		return nil
	})
	if err != nil {
		return nil, mapStoreError(s.logger, "Approval failed", reportID, err)
	}

	s.publish(ctx, s.logger, approvalEvents(updated, role, req.ApproverID, action, decision, tr)...)

	s.logger.Info("Approval decision recorded",
		"report_id", reportID,
		"approver_role", role,
		"approver_id", req.ApproverID,
		"action", action,
		"status", updated.Status,
		"next_approver", decision.NextApprover,
	)

	return &ApprovalOutcome{
		ReportID:     reportID,
		ApproverRole: role,
		ApproverID:   req.ApproverID,
		Status:       updated.Status,
		Decision:     decision,
	}, nil
}

func approvalEvents(wf *entity.ExpenseWorkflow, role entity.ApproverRole, approverID string, action entity.ApprovalAction, d policy.Decision, tr appwf.Transition) []*event.Event {
	recorded := event.NewEvent(event.TypeApprovalRecorded, wf.ReportID, wf.ID, map[string]interface{}{
		event.KeyApproverRole: string(role),
		event.KeyApproverID:   approverID,
		event.KeyAction:       string(action),
		event.KeyAmount:       wf.ExpenseReport.TotalAmount,
	}, d.Timestamp)

	events := []*event.Event{recorded}
	switch {
	case d.RequiresAdditionalApproval:
		events = append(events, recorded.Related(event.TypeApprovalEscalated, map[string]interface{}{
			event.KeyApproverRole: string(role),
			event.KeyNextApprover: string(d.NextApprover),
			event.KeyAmount:       wf.ExpenseReport.TotalAmount,
		}))
	case d.FinalApproval:
		events = append(events, recorded.Related(event.TypeReportApproved, map[string]interface{}{
			event.KeyApproverRole: string(role),
			event.KeyAmount:       wf.ExpenseReport.TotalAmount,
		}))
	case d.Rejected:
		events = append(events, recorded.Related(event.TypeReportRejected, map[string]interface{}{
			event.KeyApproverRole: string(role),
		}))
	case d.InfoRequested:
		events = append(events, recorded.Related(event.TypeInfoRequested, map[string]interface{}{
			event.KeyApproverRole: string(role),
		}))
	}
	return append(events, statusChanged(recorded, tr.From, tr.To, tr.Trigger))
}

func triggerFor(action entity.ApprovalAction) domainwf.Trigger {
	switch action {
	case entity.ActionReject:
		return domainwf.TriggerReject
	case entity.ActionRequestInfo:
		return domainwf.TriggerRequestInfo
	default:
		return domainwf.TriggerApprove
	}
}

// transitionError turns a refused state machine transition into a PreconditionError
func transitionError(err error, message string) error {
	if errors.Is(err, domainwf.ErrInvalidTransition) || errors.Is(err, domainwf.ErrGuardFailed) {
		return &PreconditionError{Message: message, Err: err}
	}
	return err
}

// mapStoreError maps store failures onto the service error taxonomy and logs unexpected ones
func mapStoreError(logger Logger, msg, reportID string, err error) error {
	switch {
	case errors.Is(err, port.ErrWorkflowNotFound):
		return ErrNotFound
	case errors.Is(err, ErrPrecondition), IsValidation(err):
		return err
	default:
		logger.Error(msg, "report_id", reportID, "error", err)
		return err
	}
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

func formatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
