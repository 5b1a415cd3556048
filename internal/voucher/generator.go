package voucher

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approvals/internal/application/port"
	"github.com/garyjia/expense-approvals/internal/application/service"
	"github.com/garyjia/expense-approvals/internal/domain/entity"
	"github.com/garyjia/expense-approvals/internal/domain/event"
)

// ContentType is the media type of generated vouchers
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Document is a rendered voucher
type Document struct {
	FileName string
	Content  []byte
}

// Generator serves payment vouchers for paid workflows, optionally archiving them
type Generator struct {
	store   port.WorkflowStore
	filler  *ExcelFiller
	archive port.FileStorage
	logger  *zap.Logger
}

// NewGenerator creates a voucher generator. archive may be nil, in which case
// vouchers are rendered on every request.
func NewGenerator(store port.WorkflowStore, filler *ExcelFiller, archive port.FileStorage, logger *zap.Logger) *Generator {
	return &Generator{
		store:   store,
		filler:  filler,
		archive: archive,
		logger:  logger,
	}
}

// ArchivePath is where the voucher of reportID is kept in the archive
func ArchivePath(reportID string) string {
	return fmt.Sprintf("vouchers/%s.xlsx", reportID)
}

// Export returns the voucher of a paid report
func (g *Generator) Export(ctx context.Context, reportID string) (*Document, error) {
	wf, err := g.load(ctx, reportID)
	if err != nil {
		return nil, err
	}

	doc := &Document{FileName: VoucherNumber(wf) + ".xlsx"}

	if g.archive != nil && g.archive.Exists(ctx, ArchivePath(reportID)) {
		content, err := g.archive.Read(ctx, ArchivePath(reportID))
		if err == nil {
			doc.Content = content
			return doc, nil
		}
		g.logger.Warn("Archived voucher unreadable, regenerating", zap.String("report_id", reportID), zap.Error(err))
	}

	content, err := g.filler.Fill(wf)
	if err != nil {
		return nil, g.fillError(err)
	}
	doc.Content = content
	return doc, nil
}

// HandlePaid archives the voucher of a report once it is paid
func (g *Generator) HandlePaid(ctx context.Context, evt *event.Event) error {
	if g.archive == nil || evt.Type != event.TypeReportPaid {
		return nil
	}

	wf, err := g.load(ctx, evt.ReportID)
	if err != nil {
		return err
	}
	content, err := g.filler.Fill(wf)
	if err != nil {
		return fmt.Errorf("render voucher for %s: %w", evt.ReportID, err)
	}
	if err := g.archive.Save(ctx, ArchivePath(evt.ReportID), content); err != nil {
		return fmt.Errorf("archive voucher for %s: %w", evt.ReportID, err)
	}

	g.logger.Info("Voucher archived",
		zap.String("report_id", evt.ReportID),
		zap.String("path", g.archive.GetFullPath(ArchivePath(evt.ReportID))))
	return nil
}

func (g *Generator) load(ctx context.Context, reportID string) (*entity.ExpenseWorkflow, error) {
	wf, err := g.store.Get(ctx, reportID)
	if errors.Is(err, port.ErrWorkflowNotFound) {
		return nil, fmt.Errorf("report %s: %w", reportID, service.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", reportID, err)
	}
	return wf, nil
}

func (g *Generator) fillError(err error) error {
	if errors.Is(err, ErrNotPaid) {
		return &service.PreconditionError{Message: MsgNotPaid, Err: err}
	}
	return err
}
