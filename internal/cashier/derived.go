package cashier

import (
	"sort"
	"strings"

	"github.com/posclub/cashier/internal/models"
)

// Derived values: pure functions of the snapshot, recomputed on every read.

// Order returns the order open in the viewing modal, nil when none.
func (m *Manager) Order() *models.OrderDetail {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.order
}

// Remaining is the open order's unpaid balance.
func (m *Manager) Remaining() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.order == nil {
		return 0
	}
	return m.order.Order.Remaining()
}

// PaymentDraftState returns the full-payment draft.
func (m *Manager) PaymentDraftState() PaymentDraft {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payment
}

// FullChange is the change due on a full payment: max(paid - remaining, 0).
func (m *Manager) FullChange() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	change := m.payment.PaidAmount - m.remainingLocked()
	if change < 0 {
		return 0
	}
	return change
}

func (m *Manager) remainingLocked() int64 {
	if m.order == nil {
		return 0
	}
	return m.order.Order.Remaining()
}

// SplitSelection is one line item with its selected split quantity.
type SplitSelection struct {
	Item models.OrderItem
	Qty  int
}

// SplitSelectedItems lists the items with a non-zero selected quantity, in
// order-line order.
func (m *Manager) SplitSelectedItems() []SplitSelection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.splitSelectedLocked()
}

func (m *Manager) splitSelectedLocked() []SplitSelection {
	if m.order == nil {
		return nil
	}
	var out []SplitSelection
	for _, item := range m.order.Items {
		if qty := m.split.Selections[item.ID]; qty > 0 {
			out = append(out, SplitSelection{Item: item, Qty: qty})
		}
	}
	return out
}

// SplitTotal is the extended price of the split selection.
func (m *Manager) SplitTotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.splitTotalLocked()
}

func (m *Manager) splitTotalLocked() int64 {
	var total int64
	for _, sel := range m.splitSelectedLocked() {
		total += int64(sel.Qty) * sel.Item.Price
	}
	return total
}

// SplitExceedsRemaining reports whether the selection's subtotal would
// overshoot the order's remaining balance.
func (m *Manager) SplitExceedsRemaining() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.splitTotalLocked() > m.remainingLocked()
}

// SplitChange is the change due on a split payment: max(paid - subtotal, 0).
func (m *Manager) SplitChange() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	change := m.split.PaidAmount - m.splitTotalLocked()
	if change < 0 {
		return 0
	}
	return change
}

// SplitDraftState returns the split-payment draft.
func (m *Manager) SplitDraftState() SplitDraft {
	m.mu.RLock()
	defer m.mu.RUnlock()
	draft := m.split
	selections := make(map[string]int, len(draft.Selections))
	for id, qty := range draft.Selections {
		selections[id] = qty
	}
	draft.Selections = selections
	return draft
}

// TodayStats returns today's net revenue and transaction count.
func (m *Manager) TodayStats() (revenue int64, transactions int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.todayRevenue, m.todayTxCount
}

// AvgTransaction is today's revenue divided by today's transaction count,
// zero when there are no transactions.
func (m *Manager) AvgTransaction() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.todayTxCount == 0 {
		return 0
	}
	return m.todayRevenue / int64(m.todayTxCount)
}

// Tables returns the full table occupancy snapshot.
func (m *Manager) Tables() []models.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tables
}

// SetTableSearch sets the table-number filter applied by PendingTables.
func (m *Manager) SetTableSearch(query string) {
	m.mu.Lock()
	m.tableSearch = query
	m.mu.Unlock()
}

// PendingTables lists tables with an unpaid, unmerged active order,
// filtered by the table search query when one is set.
func (m *Manager) PendingTables() []models.Table {
	m.mu.RLock()
	defer m.mu.RUnlock()
	query := strings.ToLower(strings.TrimSpace(m.tableSearch))
	var out []models.Table
	for _, table := range m.tables {
		if !table.AwaitingPayment() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(table.TableNumber), query) {
			continue
		}
		out = append(out, table)
	}
	return out
}

// ShiftState returns the shift snapshot.
func (m *Manager) ShiftState() models.ShiftState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shiftState
}

// ShiftOpen reports whether a shift is open.
func (m *Manager) ShiftOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shiftState.Open()
}

// CurrentShift returns the open shift, nil when closed.
func (m *Manager) CurrentShift() *models.Shift {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shiftState.OpenShift
}

// DisplayCashMovements returns the open shift's drawer movements, falling
// back to the last closed shift's when no shift is open.
func (m *Manager) DisplayCashMovements() models.CashMovements {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.shiftState.OpenShift != nil {
		return m.shiftState.OpenShift.CashMovements
	}
	if m.shiftState.LastClosedShift != nil {
		return m.shiftState.LastClosedShift.CashMovements
	}
	return models.CashMovements{}
}

// CashMovementHistory returns the movements selected by the history modal's
// type (in/out) and source (current/last) toggles, with their total.
func (m *Manager) CashMovementHistory() ([]models.CashMovement, int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var movements models.CashMovements
	switch {
	case m.historySrc == "last" && m.shiftState.LastClosedShift != nil:
		movements = m.shiftState.LastClosedShift.CashMovements
	case m.historySrc != "last" && m.shiftState.OpenShift != nil:
		movements = m.shiftState.OpenShift.CashMovements
	}
	if m.historyType == models.CashMovementOut {
		return movements.CashOut, movements.TotalOut
	}
	return movements.CashIn, movements.TotalIn
}

// CloseShiftGrandTotal is net sales plus drawer-ins minus drawer-outs for
// the open shift.
func (m *Manager) CloseShiftGrandTotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shiftState.OpenShift.GrandTotal()
}

// CurrentUserID resolves the acting cashier: the session identity when
// present, otherwise whoever opened the shift.
func (m *Manager) CurrentUserID() string {
	if user := m.session.User(); user != nil {
		return user.ID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.shiftState.OpenShift != nil {
		return m.shiftState.OpenShift.OpenedBy
	}
	return ""
}

// CashierUsers returns the cashier directory.
func (m *Manager) CashierUsers() []models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cashierUsers
}

// HandoverCandidates lists cashiers the shift can be handed to: everyone
// but the acting cashier, sorted by display name.
func (m *Manager) HandoverCandidates() []models.User {
	currentID := m.CurrentUserID()
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.User
	for _, user := range m.cashierUsers {
		if user.ID != currentID {
			out = append(out, user)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].DisplayName() < out[j].DisplayName()
	})
	return out
}

// Transactions returns the transaction history page with its pagination.
func (m *Manager) Transactions() ([]models.Transaction, models.Pagination) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transactions, m.txPages
}

// VoidedOrders returns the void history page with its pagination.
func (m *Manager) VoidedOrders() ([]models.VoidedOrder, models.Pagination) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.voided, m.voidPages
}

// TotalPaidAmount sums the current transaction page, excluding cancelled
// entries.
func (m *Manager) TotalPaidAmount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, tx := range m.transactions {
		if !tx.Cancelled() {
			total += tx.TotalAmount
		}
	}
	return total
}

// TotalVoidAmount sums the current void-history page.
func (m *Manager) TotalVoidAmount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var total int64
	for _, v := range m.voided {
		total += v.TotalAmount
	}
	return total
}

// OutletConfig returns the receipt outlet identity.
func (m *Manager) OutletConfig() models.OutletConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outletConfig
}
