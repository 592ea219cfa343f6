package cashier

import (
	"context"
	"fmt"
	"testing"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
)

func TestValidateHistoryRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"sameDay", "2025-06-01", "2025-06-01", false},
		{"withinRange", "2025-03-01", "2025-05-20", false},
		{"exactlyThreeMonths", "2025-03-01", "2025-06-01", false},
		{"endBeforeStart", "2025-06-01", "2025-05-31", true},
		{"overThreeMonths", "2025-03-01", "2025-06-02", true},
		{"missingStart", "", "2025-06-01", true},
		{"missingEnd", "2025-06-01", "", true},
		{"malformed", "01/06/2025", "2025-06-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHistoryRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHistoryRange(%q, %q) = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if err != nil && !IsValidation(err) {
				t.Errorf("error %v is not a validation error", err)
			}
		})
	}
}

func TestApplyHistoryFilterInvalidRangeSkipsFetch(t *testing.T) {
	backend := NewMockBackend()
	m := newTestManager(backend)
	m.SetHistoryRange("2025-01-01", "2025-06-01")

	err := m.ApplyHistoryFilter(context.Background())
	if !IsValidation(err) {
		t.Fatalf("ApplyHistoryFilter() = %v, want validation error", err)
	}
	if backend.Calls("Transactions") != 0 || backend.Calls("VoidedOrders") != 0 {
		t.Error("invalid range reached the backend")
	}
}

func TestApplyHistoryFilterResetsPages(t *testing.T) {
	backend := NewMockBackend()
	var gotTxPage, gotVoidPage int
	backend.TransactionsFunc = func(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
		gotTxPage = q.Page
		return nil, nil, nil
	}
	backend.VoidedOrdersFunc = func(ctx context.Context, q api.HistoryQuery) ([]models.VoidedOrder, *models.Pagination, error) {
		gotVoidPage = q.Page
		return nil, nil, nil
	}
	m := newTestManager(backend)
	m.txPages.CurrentPage = 4
	m.voidPages.CurrentPage = 2

	if err := m.ApplyHistoryFilter(context.Background()); err != nil {
		t.Fatalf("ApplyHistoryFilter() error = %v", err)
	}
	if gotTxPage != 1 || gotVoidPage != 1 {
		t.Errorf("queried pages = (%d, %d), want (1, 1)", gotTxPage, gotVoidPage)
	}
}

func TestFetchTransactionsServerPagination(t *testing.T) {
	backend := NewMockBackend()
	backend.TransactionsFunc = func(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
		return []models.Transaction{{ID: "tx-1", TotalAmount: 10_000}},
			&models.Pagination{CurrentPage: 2, TotalPages: 5, TotalItems: 230, PageSize: 50}, nil
	}
	m := newTestManager(backend)

	if err := m.FetchTransactions(context.Background()); err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	items, pages := m.Transactions()
	if len(items) != 1 || items[0].ID != "tx-1" {
		t.Errorf("transactions = %+v", items)
	}
	if pages.TotalPages != 5 || pages.TotalItems != 230 {
		t.Errorf("pagination = %+v, want server metadata kept", pages)
	}
}

func TestFetchTransactionsLocalPaginationFallback(t *testing.T) {
	full := make([]models.Transaction, 125)
	for i := range full {
		full[i] = models.Transaction{ID: fmt.Sprintf("tx-%d", i), TotalAmount: 1_000}
	}
	backend := NewMockBackend()
	backend.TransactionsFunc = func(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
		return full, nil, nil
	}
	m := newTestManager(backend)
	m.txPages = models.Pagination{CurrentPage: 3, PageSize: 50}

	if err := m.FetchTransactions(context.Background()); err != nil {
		t.Fatalf("FetchTransactions() error = %v", err)
	}
	items, pages := m.Transactions()
	if len(items) != 25 {
		t.Errorf("page 3 of 125 = %d items, want 25", len(items))
	}
	if pages.TotalPages != 3 || pages.TotalItems != 125 || pages.CurrentPage != 3 {
		t.Errorf("pagination = %+v, want 3 pages of 125 items", pages)
	}
}

// History reloads are not mutually exclusive: a push-triggered reload runs
// alongside a user-triggered one, last response wins.
func TestHistoryFetchesNotExclusive(t *testing.T) {
	backend := NewMockBackend()
	m := newTestManager(backend)
	m.busy.History = true
	m.busy.VoidedHistory = true

	if err := m.FetchTransactions(context.Background()); err != nil {
		t.Fatalf("FetchTransactions() while one is in flight = %v, want nil", err)
	}
	if err := m.FetchVoidedOrders(context.Background()); err != nil {
		t.Fatalf("FetchVoidedOrders() while one is in flight = %v, want nil", err)
	}
	if backend.Calls("Transactions") != 1 || backend.Calls("VoidedOrders") != 1 {
		t.Errorf("fetches = (%d, %d), want both dispatched",
			backend.Calls("Transactions"), backend.Calls("VoidedOrders"))
	}
	busy := m.Busy()
	if busy.History || busy.VoidedHistory {
		t.Errorf("busy flags = %+v, want cleared after completion", busy)
	}
}

func TestGoToTransactionPageClampsPastEnd(t *testing.T) {
	full := make([]models.Transaction, 60)
	for i := range full {
		full[i] = models.Transaction{ID: fmt.Sprintf("tx-%d", i)}
	}
	backend := NewMockBackend()
	backend.TransactionsFunc = func(ctx context.Context, q api.HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
		return full, nil, nil
	}
	m := newTestManager(backend)
	m.txPages.PageSize = 50

	if err := m.GoToTransactionPage(context.Background(), 9); err != nil {
		t.Fatalf("GoToTransactionPage() error = %v", err)
	}
	items, pages := m.Transactions()
	if pages.CurrentPage != 2 {
		t.Errorf("page = %d, want clamped to last page 2", pages.CurrentPage)
	}
	if len(items) != 10 {
		t.Errorf("items = %d, want the last page's 10", len(items))
	}
}

func TestTotalsExcludeCancelled(t *testing.T) {
	m := newTestManager(NewMockBackend())
	m.transactions = []models.Transaction{
		{ID: "tx-1", TotalAmount: 40_000, Status: models.TransactionStatusPaid},
		{ID: "tx-2", TotalAmount: 25_000, Status: models.TransactionStatusCancelled},
		{ID: "tx-3", TotalAmount: 10_000, Status: models.TransactionStatusPaid},
	}
	m.voided = []models.VoidedOrder{
		{ID: "v1", TotalAmount: 15_000},
		{ID: "v2", TotalAmount: 5_000},
	}

	if got := m.TotalPaidAmount(); got != 50_000 {
		t.Errorf("TotalPaidAmount() = %d, want 50000 (cancelled excluded)", got)
	}
	if got := m.TotalVoidAmount(); got != 20_000 {
		t.Errorf("TotalVoidAmount() = %d, want 20000", got)
	}
}

func TestSubmitCancelTransaction(t *testing.T) {
	backend := NewMockBackend()
	var gotID, gotPIN string
	backend.CancelTransactionFunc = func(ctx context.Context, transactionID, managerPIN, reason string) error {
		gotID, gotPIN = transactionID, managerPIN
		return nil
	}
	m := newTestManager(backend)

	tx := models.Transaction{ID: "tx-9", TotalAmount: 30_000}
	if err := m.OpenCancelTransactionModal(tx); err != nil {
		t.Fatalf("OpenCancelTransactionModal() error = %v", err)
	}
	m.SetCancelDraft("4321", "pelanggan komplain")

	if err := m.SubmitCancelTransaction(context.Background()); err != nil {
		t.Fatalf("SubmitCancelTransaction() error = %v", err)
	}
	if gotID != "tx-9" || gotPIN != "4321" {
		t.Errorf("dispatched (%q, %q), want (tx-9, 4321)", gotID, gotPIN)
	}
	if m.Modals().CancelTransaction {
		t.Error("cancel modal left open after success")
	}
	if backend.Calls("Transactions") != 1 {
		t.Error("transaction history not reloaded after cancellation")
	}
}

func TestSubmitCancelTransactionShortPIN(t *testing.T) {
	backend := NewMockBackend()
	m := newTestManager(backend)
	if err := m.OpenCancelTransactionModal(models.Transaction{ID: "tx-9"}); err != nil {
		t.Fatalf("OpenCancelTransactionModal() error = %v", err)
	}
	m.SetCancelDraft("99", "")

	err := m.SubmitCancelTransaction(context.Background())
	if !IsValidation(err) {
		t.Fatalf("SubmitCancelTransaction() = %v, want validation error", err)
	}
	if backend.Calls("CancelTransaction") != 0 {
		t.Error("short PIN reached the backend")
	}
}
