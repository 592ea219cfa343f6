// Package cashier maintains the cashier terminal's view of server truth:
// table occupancy, the order being settled, the open shift, today's stats,
// and transaction history. All reads come from one snapshot that is only
// ever replaced wholesale from server responses; realtime push events
// trigger full re-fetches rather than differential patches, so the view can
// never drift from what the server holds.
package cashier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
	"github.com/posclub/cashier/internal/realtime"
)

// Backend is the slice of the POS API the cashier view drives.
type Backend interface {
	Tables(ctx context.Context) ([]models.Table, error)
	OrderDetail(ctx context.Context, orderID string) (*models.OrderDetail, error)
	Analytics(ctx context.Context, startDate, endDate string) (*models.Analytics, error)
	Transactions(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error)
	VoidedOrders(ctx context.Context, q api.HistoryQuery) ([]models.VoidedOrder, *models.Pagination, error)
	ApplyDiscount(ctx context.Context, orderID, chargeType string, value int64) error
	ApplyCompliment(ctx context.Context, orderID string) error
	ProcessPayment(ctx context.Context, orderID, method string, paidAmount int64) error
	ProcessSplitPayment(ctx context.Context, orderID string, req api.SplitPaymentRequest) error
	UpdateItemQty(ctx context.Context, itemID string, qty int) error
	VoidOrder(ctx context.Context, orderID, managerPIN, reason string) error
	CancelTransaction(ctx context.Context, transactionID, managerPIN, reason string) error
	ShiftState(ctx context.Context) (*models.ShiftState, error)
	OpenShift(ctx context.Context, openingCash *int64) error
	CloseShift(ctx context.Context, summary models.SalesSummary) error
	HandoverShift(ctx context.Context, req api.HandoverRequest) (*api.HandoverResult, error)
	RecordCashMovement(ctx context.Context, req api.CashMovementRequest) error
	CashierUsers(ctx context.Context) ([]models.User, error)
	PrintBill(ctx context.Context, orderID string) error
	ReprintReceipt(ctx context.Context, orderID string) error
	OutletConfig(ctx context.Context) (*models.OutletConfig, error)
}

// Session is what the manager needs from the session store: the current
// identity, and a way to install a fresh one after a handover.
type Session interface {
	User() *models.User
	Install(token string, user *models.User)
}

// ConfirmFunc asks the operator to confirm a destructive step. Returning
// false cancels the operation as a no-op. A nil ConfirmFunc confirms
// everything, for headless use.
type ConfirmFunc func(ctx context.Context, message string) bool

// ModalState reports which modals are open. The split-payment, discount,
// void and items modals stack on top of the order modal.
type ModalState struct {
	Order               bool
	SplitPayment        bool
	Discount            bool
	Void                bool
	CancelTransaction   bool
	Receipt             bool
	Items               bool
	OpenShift           bool
	CloseShift          bool
	Handover            bool
	HandoverPIN         bool
	CashMovement        bool
	CashMovementHistory bool
}

// Tabs of the cashier view.
const (
	TabOrders  = "orders"
	TabHistory = "history"
)

// BusyState carries the advisory per-operation in-flight flags. They exist
// to block duplicate submission from repeated user action; the server
// remains the arbiter of genuinely concurrent mutations.
type BusyState struct {
	Refreshing    bool
	OrderDetail   bool
	Payment       bool
	Discount      bool
	Compliment    bool
	Voiding       bool
	Cancelling    bool
	Shift         bool
	CashMovement  bool
	History       bool
	VoidedHistory bool
	Items         bool
	Printing      bool
	Reprinting    bool
	Receipt       bool
	CashierUsers  bool
}

const defaultPageSize = 50

// Options configures a Manager.
type Options struct {
	Backend  Backend
	Session  Session
	Logger   *slog.Logger
	Confirm  ConfirmFunc
	Now      func() time.Time
	PageSize int
}

// Manager is the order/shift session state manager.
type Manager struct {
	backend  Backend
	session  Session
	logger   *slog.Logger
	confirm  ConfirmFunc
	now      func() time.Time
	pageSize int

	mu           sync.RWMutex
	activeTab    string
	tables       []models.Table
	tableSearch  string
	order        *models.OrderDetail
	itemsOrder   *models.OrderDetail
	shiftState   models.ShiftState
	todayRevenue int64
	todayTxCount int
	transactions []models.Transaction
	txPages      models.Pagination
	voided       []models.VoidedOrder
	voidPages    models.Pagination
	cashierUsers []models.User
	outletConfig models.OutletConfig
	receiptTx    *models.Transaction
	receiptOrder *models.OrderDetail
	historyStart string
	historyEnd   string

	modals       ModalState
	payment      PaymentDraft
	split        SplitDraft
	discount     DiscountDraft
	voidDraft    PINDraft
	cancelDraft  PINDraft
	cancelTarget *models.Transaction
	handover     HandoverDraft
	movement     CashMovementDraft
	openingCash  OpeningCashDraft
	historyType  string
	historySrc   string

	busy         BusyState
	itemUpdating map[string]bool
}

// NewManager creates a manager with an empty snapshot. Call Refresh to load
// initial state and Subscribe to attach the realtime feed.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	m := &Manager{
		backend:      opts.Backend,
		session:      opts.Session,
		logger:       logger,
		confirm:      opts.Confirm,
		now:          now,
		pageSize:     pageSize,
		activeTab:    TabOrders,
		payment:      newPaymentDraft(),
		split:        newSplitDraft(),
		discount:     newDiscountDraft(),
		movement:     newCashMovementDraft(models.CashMovementIn),
		outletConfig: models.DefaultOutletConfig(),
		txPages:      models.Pagination{CurrentPage: 1, TotalPages: 1, PageSize: pageSize},
		voidPages:    models.Pagination{CurrentPage: 1, TotalPages: 1, PageSize: pageSize},
		historyType:  models.CashMovementIn,
		historySrc:   "current",
		itemUpdating: make(map[string]bool),
	}
	today := m.today()
	m.historyStart = today
	m.historyEnd = today
	return m
}

func (m *Manager) today() string {
	return m.now().Format("2006-01-02")
}

func (m *Manager) confirmStep(ctx context.Context, message string) bool {
	if m.confirm == nil {
		return true
	}
	return m.confirm(ctx, message)
}

// requireShiftOpen enforces the hard invariant that no order-mutating
// operation may be dispatched without an open shift.
func (m *Manager) requireShiftOpen() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.shiftState.Open() {
		return ErrShiftClosed
	}
	return nil
}

// setBusy flips one busy flag, rejecting when already set.
func (m *Manager) setBusy(flag *bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *flag {
		return ErrBusy
	}
	*flag = true
	return nil
}

func (m *Manager) clearBusy(flag *bool) {
	m.mu.Lock()
	*flag = false
	m.mu.Unlock()
}

// Busy returns the in-flight state of every operation.
func (m *Manager) Busy() BusyState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.busy
}

// Modals returns which modals are currently open.
func (m *Manager) Modals() ModalState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.modals
}

// ActiveTab returns the current tab.
func (m *Manager) ActiveTab() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeTab
}

// SetActiveTab switches tabs. Entering the history tab re-applies the
// current filter.
func (m *Manager) SetActiveTab(ctx context.Context, tab string) error {
	m.mu.Lock()
	m.activeTab = tab
	m.mu.Unlock()
	if tab == TabHistory {
		return m.ApplyHistoryFilter(ctx)
	}
	return nil
}

// fetchTables replaces the table occupancy snapshot.
func (m *Manager) fetchTables(ctx context.Context) error {
	tables, err := m.backend.Tables(ctx)
	if err != nil {
		m.logger.Error("failed to fetch tables", "error", err)
		return err
	}
	m.mu.Lock()
	m.tables = tables
	m.mu.Unlock()
	return nil
}

// fetchTodayStats replaces today's revenue and transaction count.
func (m *Manager) fetchTodayStats(ctx context.Context) error {
	today := m.today()
	analytics, err := m.backend.Analytics(ctx, today, today)
	if err != nil {
		m.logger.Error("failed to fetch today stats", "error", err)
		return err
	}
	m.mu.Lock()
	m.todayRevenue = analytics.NetRevenue()
	m.todayTxCount = analytics.TotalOrders
	m.mu.Unlock()
	return nil
}

// FetchShiftState replaces the shift snapshot.
func (m *Manager) FetchShiftState(ctx context.Context) error {
	state, err := m.backend.ShiftState(ctx)
	if err != nil {
		m.logger.Error("failed to fetch shift state", "error", err)
		return err
	}
	m.mu.Lock()
	m.shiftState = *state
	m.mu.Unlock()
	return nil
}

// Refresh re-fetches table occupancy, today's stats, and shift state in
// parallel, plus the history tab's data when it is active. Last response
// wins; a refresh already in flight does not block another.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	m.busy.Refreshing = true
	onHistory := m.activeTab == TabHistory
	m.mu.Unlock()
	defer m.clearBusy(&m.busy.Refreshing)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.fetchTables(gctx) })
	g.Go(func() error { return m.fetchTodayStats(gctx) })
	g.Go(func() error { return m.FetchShiftState(gctx) })
	if onHistory {
		g.Go(func() error { return m.ApplyHistoryFilter(gctx) })
	}
	return g.Wait()
}

// HandleEvent applies one realtime push event. Server truth is re-fetched
// wholesale; the event payload is never trusted over a fresh response. When
// the order modal is open, the displayed order is re-fetched too.
func (m *Manager) HandleEvent(ctx context.Context, ev realtime.Event) {
	m.logger.Debug("realtime event", "kind", string(ev.Kind), "order_id", ev.OrderID)

	if err := m.Refresh(ctx); err != nil {
		m.logger.Error("refresh after realtime event failed", "kind", string(ev.Kind), "error", err)
	}

	m.mu.RLock()
	orderOpen := m.modals.Order && m.order != nil && m.order.Order != nil
	var orderID string
	if orderOpen {
		orderID = m.order.Order.ID
	}
	m.mu.RUnlock()
	if !orderOpen {
		return
	}

	detail, err := m.backend.OrderDetail(ctx, orderID)
	if err != nil {
		m.logger.Error("failed to re-fetch open order", "order_id", orderID, "error", err)
		return
	}
	m.mu.Lock()
	// The modal may have closed while the fetch was in flight; a stale
	// response must not resurrect the snapshot.
	if m.modals.Order {
		m.order = detail
	}
	m.mu.Unlock()
}

// Subscribe attaches the manager to a realtime feed and returns the stop
// function.
func (m *Manager) Subscribe(ctx context.Context, sub realtime.Subscriber) (func(), error) {
	return sub.Subscribe(ctx, m.HandleEvent)
}
