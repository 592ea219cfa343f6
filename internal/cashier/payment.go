package cashier

import (
	"context"
	"fmt"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
)

// SetPaymentMethod selects the full-payment method.
func (m *Manager) SetPaymentMethod(method string) {
	m.mu.Lock()
	m.payment.Method = method
	m.mu.Unlock()
}

// SetPaidAmount sets the tendered amount for a full payment.
func (m *Manager) SetPaidAmount(amount int64) {
	if amount < 0 {
		amount = 0
	}
	m.mu.Lock()
	m.payment.PaidAmount = amount
	m.mu.Unlock()
}

// SetExactAmount sets the tendered amount to the remaining balance.
func (m *Manager) SetExactAmount() {
	m.mu.Lock()
	m.payment.PaidAmount = m.remainingLocked()
	m.mu.Unlock()
}

// ProcessPayment settles the open order in full after confirmation. A paid
// amount below the remaining balance is rejected locally.
func (m *Manager) ProcessPayment(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID, err := m.openOrderID()
	if err != nil {
		return err
	}

	m.mu.RLock()
	draft := m.payment
	remaining := m.remainingLocked()
	m.mu.RUnlock()

	if !models.ValidPaymentMethod(draft.Method) {
		return validationf("Pilih metode pembayaran terlebih dahulu")
	}
	if remaining <= 0 {
		return validationf("Tagihan sudah lunas")
	}
	paid := draft.PaidAmount
	if paid <= 0 {
		paid = remaining
	}
	if paid < remaining {
		return validationf("Jumlah bayar kurang dari total tagihan")
	}
	if !m.confirmStep(ctx, fmt.Sprintf("Proses pembayaran %d dengan %s?", remaining, models.PaymentMethodLabel(draft.Method))) {
		return ErrCancelled
	}

	if err := m.setBusy(&m.busy.Payment); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Payment)

	if err := m.backend.ProcessPayment(ctx, orderID, draft.Method, paid); err != nil {
		m.logger.Error("payment failed", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal memproses pembayaran: %w", err)
	}

	m.logger.Info("payment processed", "order_id", orderID, "method", draft.Method, "paid", paid)
	m.CloseOrderModal()
	return m.Refresh(ctx)
}

// OpenSplitPaymentModal opens the split-payment form with an empty
// selection.
func (m *Manager) OpenSplitPaymentModal() error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	m.mu.Lock()
	m.split = newSplitDraft()
	m.modals.SplitPayment = true
	m.mu.Unlock()
	return nil
}

// CloseSplitPaymentModal discards the split draft.
func (m *Manager) CloseSplitPaymentModal() {
	m.mu.Lock()
	m.modals.SplitPayment = false
	m.split = newSplitDraft()
	m.mu.Unlock()
}

// SetSplitPaymentMethod selects the split-payment method.
func (m *Manager) SetSplitPaymentMethod(method string) {
	m.mu.Lock()
	m.split.Method = method
	m.mu.Unlock()
}

// SetSplitNote sets the note sent with the split payment.
func (m *Manager) SetSplitNote(note string) {
	m.mu.Lock()
	m.split.Note = note
	m.mu.Unlock()
}

// SetSplitPaidAmount sets the tendered amount for the split. The form keeps
// it at least the selection subtotal, so it never drops below by typing.
func (m *Manager) SetSplitPaidAmount(amount int64) {
	if amount < 0 {
		amount = 0
	}
	m.mu.Lock()
	if total := m.splitTotalLocked(); amount < total {
		amount = total
	}
	m.split.PaidAmount = amount
	m.mu.Unlock()
}

// SetSplitItemQty selects qty units of an item for the split, clamped to
// [0, item qty]. Zero removes the selection.
func (m *Manager) SetSplitItemQty(item models.OrderItem, qty int) {
	if qty < 0 {
		qty = 0
	}
	if qty > item.Qty {
		qty = item.Qty
	}
	m.mu.Lock()
	if qty > 0 {
		m.split.Selections[item.ID] = qty
	} else {
		delete(m.split.Selections, item.ID)
	}
	// Keep the tendered amount covering the selection.
	if total := m.splitTotalLocked(); m.split.PaidAmount < total {
		m.split.PaidAmount = total
	}
	m.mu.Unlock()
}

// AdjustSplitItemQty nudges an item's selected quantity by delta.
func (m *Manager) AdjustSplitItemQty(item models.OrderItem, delta int) {
	m.mu.RLock()
	current := m.split.Selections[item.ID]
	m.mu.RUnlock()
	m.SetSplitItemQty(item, current+delta)
}

// ProcessSplitPayment settles the selected items. The selection subtotal
// must not exceed the remaining balance, and the tendered amount must cover
// the subtotal; both are checked before any network call.
func (m *Manager) ProcessSplitPayment(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID, err := m.openOrderID()
	if err != nil {
		return err
	}

	m.mu.RLock()
	draft := m.split
	selected := m.splitSelectedLocked()
	splitTotal := m.splitTotalLocked()
	remaining := m.remainingLocked()
	m.mu.RUnlock()

	if !models.ValidPaymentMethod(draft.Method) {
		return validationf("Pilih metode pembayaran terlebih dahulu")
	}
	if splitTotal <= 0 {
		return validationf("Pilih item yang akan dibayar")
	}
	if splitTotal > remaining {
		return validationf("Jumlah pembayaran melebihi sisa tagihan")
	}
	paid := draft.PaidAmount
	if paid <= 0 {
		paid = splitTotal
	}
	if paid < splitTotal {
		return validationf("Jumlah bayar kurang dari total split")
	}

	if err := m.setBusy(&m.busy.Payment); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Payment)

	items := make([]api.SplitItem, 0, len(selected))
	for _, sel := range selected {
		items = append(items, api.SplitItem{ItemID: sel.Item.ID, Qty: sel.Qty})
	}
	req := api.SplitPaymentRequest{
		Items:         items,
		Amount:        splitTotal,
		PaymentMethod: draft.Method,
		Note:          draft.Note,
		PaidAmount:    paid,
	}
	if err := m.backend.ProcessSplitPayment(ctx, orderID, req); err != nil {
		m.logger.Error("split payment failed", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal memproses pembayaran: %w", err)
	}

	m.logger.Info("split payment processed", "order_id", orderID, "amount", splitTotal, "items", len(items))
	m.CloseSplitPaymentModal()
	m.CloseOrderModal()
	return m.Refresh(ctx)
}

// PrintBill queues the open order's pre-payment bill after confirmation.
func (m *Manager) PrintBill(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID, err := m.openOrderID()
	if err != nil {
		return err
	}

	m.mu.RLock()
	var tableNumber string
	if m.order != nil && m.order.Order != nil {
		tableNumber = m.order.Order.TableNumber
	}
	m.mu.RUnlock()
	if !m.confirmStep(ctx, fmt.Sprintf("Cetak bill untuk meja %s?", tableNumber)) {
		return ErrCancelled
	}

	if err := m.setBusy(&m.busy.Printing); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Printing)

	if err := m.backend.PrintBill(ctx, orderID); err != nil {
		m.logger.Error("print bill failed", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal cetak bill: %w", err)
	}
	return nil
}
