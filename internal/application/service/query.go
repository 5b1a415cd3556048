package service

import (
	"context"

	"github.com/garyjia/expense-approvals/internal/application/port"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
	domainwf "github.com/garyjia/expense-approvals/internal/domain/workflow"
)

// QueryService provides read-only projections of stored workflows
type QueryService interface {
	GetStatus(ctx context.Context, reportID string) (*StatusView, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)
}

type queryServiceImpl struct {
	store  port.WorkflowStore
	logger Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(store port.WorkflowStore, logger Logger) QueryService {
	return &queryServiceImpl{store: store, logger: logger}
}

// GetStatus returns the workflow for reportID with its derived progress flags
func (s *queryServiceImpl) GetStatus(ctx context.Context, reportID string) (*StatusView, error) {
	wf, err := s.store.Get(ctx, reportID)
	if err != nil {
		return nil, mapStoreError(s.logger, "Status lookup failed", reportID, err)
	}

	violations := wf.PolicyViolations
	if violations == nil {
		violations = []entity.PolicyViolation{}
	}

	return &StatusView{
		ReportID:         wf.ReportID,
		WorkflowID:       wf.ID,
		Status:           wf.Status,
		Progress:         ProgressOf(wf),
		ExpenseReport:    wf.ExpenseReport,
		PolicyViolations: violations,
		PaymentDetails:   wf.PaymentDetails,
		CreatedAt:        wf.CreatedAt,
		UpdatedAt:        wf.UpdatedAt,
	}, nil
}

// List returns summaries of the workflows matching filter in store order
func (s *queryServiceImpl) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Status != "" && !domainwf.State(filter.Status).IsValid() {
		return nil, NewValidationError("Invalid status filter: %s", filter.Status)
	}

	workflows, err := s.store.List(ctx, func(wf *entity.ExpenseWorkflow) bool {
		if filter.Status != "" && wf.Status != filter.Status {
			return false
		}
		if filter.EmployeeID != "" && wf.ExpenseReport.EmployeeID != filter.EmployeeID {
			return false
		}
		return true
	})
	if err != nil {
		s.logger.Error("Failed to list workflows", "error", err)
		return nil, err
	}

	reports := make([]ReportSummary, 0, len(workflows))
	for _, wf := range workflows {
		reports = append(reports, ReportSummary{
			ReportID:       wf.ReportID,
			WorkflowID:     wf.ID,
			Title:          wf.ExpenseReport.Title,
			EmployeeName:   wf.ExpenseReport.EmployeeInfo.Name,
			Department:     wf.ExpenseReport.EmployeeInfo.Department,
			TotalAmount:    wf.ExpenseReport.TotalAmount,
			Status:         wf.Status,
			SubmissionDate: wf.ExpenseReport.SubmissionDate,
			UpdatedAt:      wf.UpdatedAt,
		})
	}

	return &ListResult{Reports: reports, Total: len(reports)}, nil
}

// ProgressOf derives the milestone flags of a workflow
func ProgressOf(wf *entity.ExpenseWorkflow) Progress {
	return Progress{
		Submitted:        true,
		PolicyChecked:    wf.PolicyCheckedAt != nil,
		ManagerApproved:  wf.ExpenseReport.HasApproval(entity.RoleManager),
		FinanceApproved:  wf.ExpenseReport.HasApproval(entity.RoleFinance),
		AdminApproved:    wf.ExpenseReport.HasApproval(entity.RoleAdmin),
		PaymentProcessed: wf.Status == domainwf.StatePaid.String(),
	}
}
