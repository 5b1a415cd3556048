package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/garyjia/expense-approvals/internal/application/service"
)

// Tool names
const (
	ToolSubmit   = "submit_expense_report"
	ToolValidate = "validate_expense_report"
	ToolApprove  = "process_expense_approval"
	ToolPay      = "process_expense_payment"
	ToolStatus   = "get_expense_status"
	ToolList     = "list_expense_reports"
)

// ReportInput addresses a single report
type ReportInput struct {
	ReportID string `json:"reportId" jsonschema:"expense report identifier"`
}

// ApprovalInput is an approver's decision on a report
type ApprovalInput struct {
	ReportID     string `json:"reportId" jsonschema:"expense report identifier"`
	ApproverRole string `json:"approverRole" jsonschema:"manager, finance or admin"`
	ApproverID   string `json:"approverId" jsonschema:"identifier of the person acting"`
	Action       string `json:"action" jsonschema:"approve, reject or request_info"`
	Comments     string `json:"comments,omitempty" jsonschema:"optional comment recorded in the approval history"`
}

// PaymentInput settles an approved report
type PaymentInput struct {
	ReportID      string `json:"reportId" jsonschema:"expense report identifier"`
	PaymentMethod string `json:"paymentMethod,omitempty" jsonschema:"disbursement method, defaults to direct_deposit"`
}

// ListInput narrows a report listing
type ListInput struct {
	Status     string `json:"status,omitempty" jsonschema:"only reports in this workflow status"`
	EmployeeID string `json:"employeeId,omitempty" jsonschema:"only reports submitted by this employee"`
}

type tools struct {
	services Services
	logger   Logger
}

func newTools(services Services, logger Logger) *tools {
	return &tools{services: services, logger: logger}
}

func registerTools(server *mcp.Server, t *tools) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSubmit,
		Description: "Submits a new expense report. Returns the report and workflow IDs.",
	}, t.submit)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolValidate,
		Description: "Runs the expense policy check on a submitted report and lists any violations.",
	}, t.validate)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolApprove,
		Description: "Records an approve, reject or request_info decision. Large reports escalate from manager to finance to admin.",
	}, t.approve)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolPay,
		Description: "Pays an approved expense report and returns the settlement record.",
	}, t.pay)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolStatus,
		Description: "Returns the full workflow record and progress flags of a report.",
	}, t.status)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolList,
		Description: "Lists expense reports, optionally filtered by status and employee.",
	}, t.list)
}

func (t *tools) submit(ctx context.Context, _ *mcp.CallToolRequest, in service.SubmitExpenseRequest) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Expenses.Submit(ctx, &in)
	return t.result(ToolSubmit, res, err)
}

func (t *tools) validate(ctx context.Context, _ *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Expenses.Validate(ctx, in.ReportID)
	return t.result(ToolValidate, res, err)
}

func (t *tools) approve(ctx context.Context, _ *mcp.CallToolRequest, in ApprovalInput) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Expenses.Approve(ctx, in.ReportID, &service.ApprovalRequest{
		ApproverRole: in.ApproverRole,
		ApproverID:   in.ApproverID,
		Action:       in.Action,
		Comments:     in.Comments,
	})
	return t.result(ToolApprove, res, err)
}

func (t *tools) pay(ctx context.Context, _ *mcp.CallToolRequest, in PaymentInput) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Payments.Pay(ctx, in.ReportID, &service.PayRequest{PaymentMethod: in.PaymentMethod})
	return t.result(ToolPay, res, err)
}

func (t *tools) status(ctx context.Context, _ *mcp.CallToolRequest, in ReportInput) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Queries.GetStatus(ctx, in.ReportID)
	return t.result(ToolStatus, res, err)
}

func (t *tools) list(ctx context.Context, _ *mcp.CallToolRequest, in ListInput) (*mcp.CallToolResult, any, error) {
	res, err := t.services.Queries.List(ctx, service.ListFilter{Status: in.Status, EmployeeID: in.EmployeeID})
	return t.result(ToolList, res, err)
}

// result renders a service outcome as JSON text. Service failures become tool
// errors carrying the same public message the HTTP API returns.
func (t *tools) result(tool string, out interface{}, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		if !service.IsValidation(err) && !errors.Is(err, service.ErrNotFound) && !errors.Is(err, service.ErrPrecondition) {
			t.logger.Error("Tool call failed", "tool", tool, "error", err)
		}
		return errorResult(service.PublicMessage(err)), nil, nil
	}

	body, err := json.Marshal(out)
	if err != nil {
		t.logger.Error("Failed to encode tool result", "tool", tool, "error", err)
		return errorResult(service.MsgInternal), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
	}, nil, nil
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
