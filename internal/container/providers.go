package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approvals/internal/application/dispatcher"
	"github.com/garyjia/expense-approvals/internal/application/port"
	"github.com/garyjia/expense-approvals/internal/application/service"
	appwf "github.com/garyjia/expense-approvals/internal/application/workflow"
	"github.com/garyjia/expense-approvals/internal/config"
	"github.com/garyjia/expense-approvals/internal/domain/event"
	"github.com/garyjia/expense-approvals/internal/infrastructure/payment"
	"github.com/garyjia/expense-approvals/internal/infrastructure/persistence/memory"
	"github.com/garyjia/expense-approvals/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/expense-approvals/internal/infrastructure/storage"
	"github.com/garyjia/expense-approvals/internal/observability"
	"github.com/garyjia/expense-approvals/internal/voucher"
	"github.com/garyjia/expense-approvals/pkg/database"
	"github.com/garyjia/expense-approvals/pkg/utils"
)

// StoreBundle holds the workflow store and, for sqlite, its connection
type StoreBundle struct {
	Store port.WorkflowStore
	DB    *sqlite.DB
}

// ProvideStore creates the workflow store selected by cfg.Driver
func ProvideStore(cfg config.StoreConfig, logger *zap.Logger) (*StoreBundle, error) {
	switch cfg.Driver {
	case config.DriverMemory, "":
		logger.Info("Using in-memory workflow store")
		return &StoreBundle{Store: memory.NewStore()}, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(database.Config{
			Path:            cfg.Path,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("Using sqlite workflow store", zap.String("path", cfg.Path))
		return &StoreBundle{Store: sqlite.NewWorkflowStore(db), DB: db}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ProvideDispatcher creates the event dispatcher
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewSugaredAdapter(logger.Named("dispatcher"))))
}

// ServiceDeps groups the dependencies of the application services
type ServiceDeps struct {
	Config     *config.Config
	Store      port.WorkflowStore
	Dispatcher dispatcher.Dispatcher
	Gateway    port.PaymentGateway
	Logger     *zap.Logger
}

// ServiceBundle groups all application services
type ServiceBundle struct {
	Expenses service.ExpenseService
	Payments service.PaymentService
	Queries  service.QueryService
}

// ProvideServices creates the expense, payment and query services over one engine
func ProvideServices(deps *ServiceDeps) *ServiceBundle {
	rules := deps.Config.Rules()
	engine := appwf.NewEngine(rules)
	logger := utils.NewSugaredAdapter(deps.Logger.Named("service"))

	gateway := deps.Gateway
	if gateway == nil {
		gateway = payment.NewSimulatedGateway()
	}

	opts := []service.Option{service.WithDispatcher(deps.Dispatcher)}
	return &ServiceBundle{
		Expenses: service.NewExpenseService(deps.Store, engine, rules, logger, opts...),
		Payments: service.NewPaymentService(deps.Store, engine, gateway, service.PaymentSettings{
			DefaultMethod:  deps.Config.Payment.DefaultMethod,
			SettlementDays: deps.Config.Payment.SettlementDays,
		}, logger, opts...),
		Queries: service.NewQueryService(deps.Store, logger),
	}
}

// ProvideVoucherGenerator creates the voucher exporter. When cfg.ArchiveDir is
// set, paid reports are archived through disp as they settle.
func ProvideVoucherGenerator(cfg config.VoucherConfig, store port.WorkflowStore, disp dispatcher.Dispatcher, logger *zap.Logger) *voucher.Generator {
	var archive port.FileStorage
	if cfg.ArchiveDir != "" {
		archive = storage.NewLocalFileStorage(cfg.ArchiveDir, logger.Named("storage"))
	}

	generator := voucher.NewGenerator(store, voucher.NewExcelFiller(cfg.CompanyName, logger), archive, logger.Named("voucher"))
	if archive != nil {
		disp.SubscribeNamed(event.TypeReportPaid, "voucher-archiver", generator.HandlePaid)
		logger.Info("Voucher archiving enabled", zap.String("dir", cfg.ArchiveDir))
	}
	return generator
}

// ProvideMetrics creates the metrics registry and subscribes it to every event
func ProvideMetrics(disp dispatcher.Dispatcher) *observability.Metrics {
	metrics := observability.NewMetrics()
	disp.SubscribeAll("metrics", metrics.HandleEvent)
	return metrics
}
