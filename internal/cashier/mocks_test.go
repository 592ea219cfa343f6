package cashier

import (
	"context"
	"sync"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
)

// MockBackend is a mock implementation of Backend for testing. Every call is
// counted so tests can assert that locally-rejected operations never reach
// the server.
type MockBackend struct {
	mu    sync.Mutex
	calls map[string]int

	TablesFunc              func(ctx context.Context) ([]models.Table, error)
	OrderDetailFunc         func(ctx context.Context, orderID string) (*models.OrderDetail, error)
	AnalyticsFunc           func(ctx context.Context, startDate, endDate string) (*models.Analytics, error)
	TransactionsFunc        func(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error)
	VoidedOrdersFunc        func(ctx context.Context, q api.HistoryQuery) ([]models.VoidedOrder, *models.Pagination, error)
	ApplyDiscountFunc       func(ctx context.Context, orderID, chargeType string, value int64) error
	ApplyComplimentFunc     func(ctx context.Context, orderID string) error
	ProcessPaymentFunc      func(ctx context.Context, orderID, method string, paidAmount int64) error
	ProcessSplitPaymentFunc func(ctx context.Context, orderID string, req api.SplitPaymentRequest) error
	UpdateItemQtyFunc       func(ctx context.Context, itemID string, qty int) error
	VoidOrderFunc           func(ctx context.Context, orderID, managerPIN, reason string) error
	CancelTransactionFunc   func(ctx context.Context, transactionID, managerPIN, reason string) error
	ShiftStateFunc          func(ctx context.Context) (*models.ShiftState, error)
	OpenShiftFunc           func(ctx context.Context, openingCash *int64) error
	CloseShiftFunc          func(ctx context.Context, summary models.SalesSummary) error
	HandoverShiftFunc       func(ctx context.Context, req api.HandoverRequest) (*api.HandoverResult, error)
	RecordCashMovementFunc  func(ctx context.Context, req api.CashMovementRequest) error
	CashierUsersFunc        func(ctx context.Context) ([]models.User, error)
	PrintBillFunc           func(ctx context.Context, orderID string) error
	ReprintReceiptFunc      func(ctx context.Context, orderID string) error
	OutletConfigFunc        func(ctx context.Context) (*models.OutletConfig, error)
}

func NewMockBackend() *MockBackend {
	return &MockBackend{calls: make(map[string]int)}
}

func (m *MockBackend) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
}

// Calls reports how many times the named method was invoked.
func (m *MockBackend) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *MockBackend) Tables(ctx context.Context) ([]models.Table, error) {
	m.record("Tables")
	if m.TablesFunc != nil {
		return m.TablesFunc(ctx)
	}
	return nil, nil
}

func (m *MockBackend) OrderDetail(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	m.record("OrderDetail")
	if m.OrderDetailFunc != nil {
		return m.OrderDetailFunc(ctx, orderID)
	}
	return &models.OrderDetail{Order: &models.Order{ID: orderID}}, nil
}

func (m *MockBackend) Analytics(ctx context.Context, startDate, endDate string) (*models.Analytics, error) {
	m.record("Analytics")
	if m.AnalyticsFunc != nil {
		return m.AnalyticsFunc(ctx, startDate, endDate)
	}
	return &models.Analytics{}, nil
}

func (m *MockBackend) Transactions(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
	m.record("Transactions")
	if m.TransactionsFunc != nil {
		return m.TransactionsFunc(ctx, q)
	}
	return nil, nil, nil
}

func (m *MockBackend) VoidedOrders(ctx context.Context, q api.HistoryQuery) ([]models.VoidedOrder, *models.Pagination, error) {
	m.record("VoidedOrders")
	if m.VoidedOrdersFunc != nil {
		return m.VoidedOrdersFunc(ctx, q)
	}
	return nil, nil, nil
}

func (m *MockBackend) ApplyDiscount(ctx context.Context, orderID, chargeType string, value int64) error {
	m.record("ApplyDiscount")
	if m.ApplyDiscountFunc != nil {
		return m.ApplyDiscountFunc(ctx, orderID, chargeType, value)
	}
	return nil
}

func (m *MockBackend) ApplyCompliment(ctx context.Context, orderID string) error {
	m.record("ApplyCompliment")
	if m.ApplyComplimentFunc != nil {
		return m.ApplyComplimentFunc(ctx, orderID)
	}
	return nil
}

func (m *MockBackend) ProcessPayment(ctx context.Context, orderID, method string, paidAmount int64) error {
	m.record("ProcessPayment")
	if m.ProcessPaymentFunc != nil {
		return m.ProcessPaymentFunc(ctx, orderID, method, paidAmount)
	}
	return nil
}

func (m *MockBackend) ProcessSplitPayment(ctx context.Context, orderID string, req api.SplitPaymentRequest) error {
	m.record("ProcessSplitPayment")
	if m.ProcessSplitPaymentFunc != nil {
		return m.ProcessSplitPaymentFunc(ctx, orderID, req)
	}
	return nil
}

func (m *MockBackend) UpdateItemQty(ctx context.Context, itemID string, qty int) error {
	m.record("UpdateItemQty")
	if m.UpdateItemQtyFunc != nil {
		return m.UpdateItemQtyFunc(ctx, itemID, qty)
	}
	return nil
}

func (m *MockBackend) VoidOrder(ctx context.Context, orderID, managerPIN, reason string) error {
	m.record("VoidOrder")
	if m.VoidOrderFunc != nil {
		return m.VoidOrderFunc(ctx, orderID, managerPIN, reason)
	}
	return nil
}

func (m *MockBackend) CancelTransaction(ctx context.Context, transactionID, managerPIN, reason string) error {
	m.record("CancelTransaction")
	if m.CancelTransactionFunc != nil {
		return m.CancelTransactionFunc(ctx, transactionID, managerPIN, reason)
	}
	return nil
}

func (m *MockBackend) ShiftState(ctx context.Context) (*models.ShiftState, error) {
	m.record("ShiftState")
	if m.ShiftStateFunc != nil {
		return m.ShiftStateFunc(ctx)
	}
	return &models.ShiftState{}, nil
}

func (m *MockBackend) OpenShift(ctx context.Context, openingCash *int64) error {
	m.record("OpenShift")
	if m.OpenShiftFunc != nil {
		return m.OpenShiftFunc(ctx, openingCash)
	}
	return nil
}

func (m *MockBackend) CloseShift(ctx context.Context, summary models.SalesSummary) error {
	m.record("CloseShift")
	if m.CloseShiftFunc != nil {
		return m.CloseShiftFunc(ctx, summary)
	}
	return nil
}

func (m *MockBackend) HandoverShift(ctx context.Context, req api.HandoverRequest) (*api.HandoverResult, error) {
	m.record("HandoverShift")
	if m.HandoverShiftFunc != nil {
		return m.HandoverShiftFunc(ctx, req)
	}
	return &api.HandoverResult{}, nil
}

func (m *MockBackend) RecordCashMovement(ctx context.Context, req api.CashMovementRequest) error {
	m.record("RecordCashMovement")
	if m.RecordCashMovementFunc != nil {
		return m.RecordCashMovementFunc(ctx, req)
	}
	return nil
}

func (m *MockBackend) CashierUsers(ctx context.Context) ([]models.User, error) {
	m.record("CashierUsers")
	if m.CashierUsersFunc != nil {
		return m.CashierUsersFunc(ctx)
	}
	return nil, nil
}

func (m *MockBackend) PrintBill(ctx context.Context, orderID string) error {
	m.record("PrintBill")
	if m.PrintBillFunc != nil {
		return m.PrintBillFunc(ctx, orderID)
	}
	return nil
}

func (m *MockBackend) ReprintReceipt(ctx context.Context, orderID string) error {
	m.record("ReprintReceipt")
	if m.ReprintReceiptFunc != nil {
		return m.ReprintReceiptFunc(ctx, orderID)
	}
	return nil
}

func (m *MockBackend) OutletConfig(ctx context.Context) (*models.OutletConfig, error) {
	m.record("OutletConfig")
	if m.OutletConfigFunc != nil {
		return m.OutletConfigFunc(ctx)
	}
	cfg := models.DefaultOutletConfig()
	return &cfg, nil
}

// MockSession is a mock implementation of Session for testing.
type MockSession struct {
	mu        sync.Mutex
	user      *models.User
	token     string
	Installed int
}

func NewMockSession(user *models.User) *MockSession {
	return &MockSession{user: user}
}

func (m *MockSession) User() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *MockSession) Install(token string, user *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = user
	m.Installed++
}

func (m *MockSession) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}
