package cashier

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
)

const dateLayout = "2006-01-02"

// maxHistoryRange is how far past the start date the end date may reach.
const maxHistoryRangeMonths = 3

// HistoryRange returns the current filter dates (YYYY-MM-DD).
func (m *Manager) HistoryRange() (start, end string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.historyStart, m.historyEnd
}

// SetHistoryRange sets the filter dates without applying them.
func (m *Manager) SetHistoryRange(start, end string) {
	m.mu.Lock()
	m.historyStart = start
	m.historyEnd = end
	m.mu.Unlock()
}

// validateHistoryRange enforces the filter constraints locally: both dates
// present, end not before start, and the range at most three months from
// the start date. Violations never reach the network.
func validateHistoryRange(start, end string) error {
	if start == "" || end == "" {
		return validationf("Pilih tanggal mulai dan akhir")
	}
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return validationf("Pilih tanggal mulai dan akhir")
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return validationf("Pilih tanggal mulai dan akhir")
	}
	if endDate.Before(startDate) {
		return validationf("Tanggal akhir harus sama atau setelah tanggal mulai")
	}
	if endDate.After(startDate.AddDate(0, maxHistoryRangeMonths, 0)) {
		return validationf("Rentang tanggal maksimal 3 bulan")
	}
	return nil
}

// ApplyHistoryFilter validates the drafted date range, resets both views to
// page one, and fetches transactions and voided orders in parallel.
func (m *Manager) ApplyHistoryFilter(ctx context.Context) error {
	m.mu.Lock()
	start, end := m.historyStart, m.historyEnd
	m.mu.Unlock()

	if err := validateHistoryRange(start, end); err != nil {
		return err
	}

	m.mu.Lock()
	m.txPages.CurrentPage = 1
	m.voidPages.CurrentPage = 1
	m.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.FetchTransactions(gctx) })
	g.Go(func() error { return m.FetchVoidedOrders(gctx) })
	return g.Wait()
}

// ResetHistoryFilter sets both dates to today and applies the filter.
func (m *Manager) ResetHistoryFilter(ctx context.Context) error {
	today := m.today()
	m.SetHistoryRange(today, today)
	return m.ApplyHistoryFilter(ctx)
}

// FetchTransactions loads the current transaction page. When the server
// omits pagination metadata the full result set is paginated locally.
func (m *Manager) FetchTransactions(ctx context.Context) error {
	// Fetches are not exclusive: a push-triggered reload runs alongside a
	// user-triggered one and the last response wins, as with Refresh.
	m.mu.Lock()
	m.busy.History = true
	m.mu.Unlock()
	defer m.clearBusy(&m.busy.History)

	m.mu.RLock()
	q := api.HistoryQuery{
		Page:      m.txPages.CurrentPage,
		PageSize:  m.txPages.PageSize,
		StartDate: m.historyStart,
		EndDate:   m.historyEnd,
	}
	m.mu.RUnlock()

	items, pagination, err := m.backend.Transactions(ctx, q)
	if err != nil {
		m.logger.Error("failed to fetch transactions", "error", err)
		return fmt.Errorf("gagal memuat riwayat transaksi: %w", err)
	}

	m.mu.Lock()
	if pagination != nil {
		m.transactions = items
		m.txPages = *pagination
	} else {
		m.transactions, m.txPages = models.Paginate(items, m.txPages)
	}
	m.mu.Unlock()
	return nil
}

// FetchVoidedOrders loads the current void-history page, with the same
// local pagination fallback as FetchTransactions.
func (m *Manager) FetchVoidedOrders(ctx context.Context) error {
	m.mu.Lock()
	m.busy.VoidedHistory = true
	m.mu.Unlock()
	defer m.clearBusy(&m.busy.VoidedHistory)

	m.mu.RLock()
	q := api.HistoryQuery{
		Page:      m.voidPages.CurrentPage,
		PageSize:  m.voidPages.PageSize,
		StartDate: m.historyStart,
		EndDate:   m.historyEnd,
	}
	m.mu.RUnlock()

	items, pagination, err := m.backend.VoidedOrders(ctx, q)
	if err != nil {
		m.logger.Error("failed to fetch voided orders", "error", err)
		return fmt.Errorf("gagal memuat histori void: %w", err)
	}

	m.mu.Lock()
	if pagination != nil {
		m.voided = items
		m.voidPages = *pagination
	} else {
		m.voided, m.voidPages = models.Paginate(items, m.voidPages)
	}
	m.mu.Unlock()
	return nil
}

// GoToTransactionPage jumps the transaction history to a page.
func (m *Manager) GoToTransactionPage(ctx context.Context, page int) error {
	m.mu.Lock()
	m.txPages.CurrentPage = page
	m.mu.Unlock()
	return m.FetchTransactions(ctx)
}

// GoToVoidPage jumps the void history to a page.
func (m *Manager) GoToVoidPage(ctx context.Context, page int) error {
	m.mu.Lock()
	m.voidPages.CurrentPage = page
	m.mu.Unlock()
	return m.FetchVoidedOrders(ctx)
}

// OpenCancelTransactionModal opens the cancel form for a transaction.
func (m *Manager) OpenCancelTransactionModal(tx models.Transaction) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	if tx.ID == "" {
		return validationf("Transaksi tidak ditemukan")
	}
	m.mu.Lock()
	m.cancelTarget = &tx
	m.cancelDraft = PINDraft{}
	m.modals.CancelTransaction = true
	m.mu.Unlock()
	return nil
}

// CloseCancelTransactionModal discards the cancel draft and target.
func (m *Manager) CloseCancelTransactionModal() {
	m.mu.Lock()
	m.modals.CancelTransaction = false
	m.cancelTarget = nil
	m.cancelDraft = PINDraft{}
	m.mu.Unlock()
}

// SetCancelDraft updates the cancel form. The PIN is normalized to digits.
func (m *Manager) SetCancelDraft(pin, reason string) {
	m.mu.Lock()
	m.cancelDraft = PINDraft{PIN: NormalizePIN(pin), Reason: reason}
	m.mu.Unlock()
}

// SubmitCancelTransaction cancels the selected transaction under a manager
// PIN and reloads the transaction history.
func (m *Manager) SubmitCancelTransaction(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}

	m.mu.RLock()
	target := m.cancelTarget
	draft := m.cancelDraft
	m.mu.RUnlock()
	if target == nil || target.ID == "" {
		return validationf("Transaksi tidak ditemukan")
	}
	if !validPIN(draft.PIN) {
		return validationf("PIN harus 4 digit")
	}
	if !m.confirmStep(ctx, fmt.Sprintf("Batalkan transaksi nomor %s dengan nominal %d?", target.ID, target.TotalAmount)) {
		return ErrCancelled
	}

	if err := m.setBusy(&m.busy.Cancelling); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Cancelling)

	if err := m.backend.CancelTransaction(ctx, target.ID, draft.PIN, draft.Reason); err != nil {
		m.logger.Error("failed to cancel transaction", "transaction_id", target.ID, "error", err)
		return fmt.Errorf("gagal membatalkan transaksi: %w", err)
	}
	m.CloseCancelTransactionModal()
	return m.FetchTransactions(ctx)
}
