package cashier

import (
	"context"
	"fmt"

	"github.com/posclub/cashier/internal/models"
)

// ViewOrder opens the order modal for a table and loads its order. On
// failure the modal is closed again and the snapshot stays empty.
func (m *Manager) ViewOrder(ctx context.Context, table models.Table) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID := table.PendingOrderID()
	if orderID == "" {
		return ErrNoOrder
	}
	if err := m.setBusy(&m.busy.OrderDetail); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.OrderDetail)

	m.mu.Lock()
	m.modals.Order = true
	m.payment = newPaymentDraft()
	m.mu.Unlock()

	detail, err := m.backend.OrderDetail(ctx, orderID)
	if err != nil {
		m.mu.Lock()
		m.modals.Order = false
		m.order = nil
		m.mu.Unlock()
		return fmt.Errorf("gagal memuat detail order: %w", err)
	}

	m.mu.Lock()
	m.order = detail
	m.payment.PaidAmount = detail.Order.Remaining()
	m.mu.Unlock()
	return nil
}

// CloseOrderModal closes the order view and invalidates its snapshot.
func (m *Manager) CloseOrderModal() {
	m.mu.Lock()
	m.modals.Order = false
	m.modals.SplitPayment = false
	m.modals.Discount = false
	m.modals.Void = false
	m.order = nil
	m.payment = newPaymentDraft()
	m.split = newSplitDraft()
	m.mu.Unlock()
}

// refetchOrder reloads the open order and resets the full-payment default
// to the fresh remaining balance.
func (m *Manager) refetchOrder(ctx context.Context, orderID string) error {
	detail, err := m.backend.OrderDetail(ctx, orderID)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.order = detail
	m.payment.PaidAmount = detail.Order.Remaining()
	m.mu.Unlock()
	return nil
}

func (m *Manager) openOrderID() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.order == nil || m.order.Order == nil || m.order.Order.ID == "" {
		return "", ErrNoOrder
	}
	return m.order.Order.ID, nil
}

// OpenDiscountModal opens the discount form with a fresh draft.
func (m *Manager) OpenDiscountModal() error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	if _, err := m.openOrderID(); err != nil {
		return err
	}
	m.mu.Lock()
	m.discount = newDiscountDraft()
	m.modals.Discount = true
	m.mu.Unlock()
	return nil
}

// CloseDiscountModal discards the discount draft.
func (m *Manager) CloseDiscountModal() {
	m.mu.Lock()
	m.modals.Discount = false
	m.discount = newDiscountDraft()
	m.mu.Unlock()
}

// SetDiscountDraft updates the discount form. Percentage values are capped
// at 100 as typed, matching the form's input handling.
func (m *Manager) SetDiscountDraft(chargeType string, value int64) {
	if chargeType != DiscountFixed {
		chargeType = DiscountPercentage
	}
	if value < 0 {
		value = 0
	}
	if chargeType == DiscountPercentage && value > 100 {
		value = 100
	}
	m.mu.Lock()
	m.discount = DiscountDraft{ChargeType: chargeType, Value: value}
	m.mu.Unlock()
}

// SubmitDiscount applies the drafted discount, then re-fetches the order so
// the remaining balance and payment default reflect server truth. The modal
// stays open on failure.
func (m *Manager) SubmitDiscount(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID, err := m.openOrderID()
	if err != nil {
		return err
	}

	m.mu.RLock()
	draft := m.discount
	m.mu.RUnlock()
	if draft.Value <= 0 {
		return validationf("Nilai diskon harus lebih dari 0")
	}
	if draft.ChargeType == DiscountPercentage && draft.Value > 100 {
		return validationf("Diskon maksimum 100%")
	}

	if err := m.setBusy(&m.busy.Discount); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Discount)

	if err := m.backend.ApplyDiscount(ctx, orderID, draft.ChargeType, draft.Value); err != nil {
		m.logger.Error("failed to apply discount", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal menerapkan diskon: %w", err)
	}
	if err := m.refetchOrder(ctx, orderID); err != nil {
		return fmt.Errorf("gagal memuat detail order: %w", err)
	}
	m.CloseDiscountModal()
	return m.Refresh(ctx)
}

// SubmitCompliment waives the order's full amount after confirmation.
// Declining the confirmation is a no-op, not an error.
func (m *Manager) SubmitCompliment(ctx context.Context) error {
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
	if !m.confirmStep(ctx, fmt.Sprintf("Kompliment order meja %s?", tableNumber)) {
		return ErrCancelled
	}

	if err := m.setBusy(&m.busy.Compliment); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Compliment)

	if err := m.backend.ApplyCompliment(ctx, orderID); err != nil {
		m.logger.Error("failed to apply compliment", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal melakukan kompliment: %w", err)
	}
	m.CloseOrderModal()
	return m.Refresh(ctx)
}

// OpenVoidModal opens the void form with empty PIN and reason.
func (m *Manager) OpenVoidModal() error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	if _, err := m.openOrderID(); err != nil {
		return err
	}
	m.mu.Lock()
	m.voidDraft = PINDraft{}
	m.modals.Void = true
	m.mu.Unlock()
	return nil
}

// CloseVoidModal discards the void draft.
func (m *Manager) CloseVoidModal() {
	m.mu.Lock()
	m.modals.Void = false
	m.voidDraft = PINDraft{}
	m.mu.Unlock()
}

// SetVoidDraft updates the void form. The PIN is normalized to digits.
func (m *Manager) SetVoidDraft(pin, reason string) {
	m.mu.Lock()
	m.voidDraft = PINDraft{PIN: NormalizePIN(pin), Reason: reason}
	m.mu.Unlock()
}

// SubmitVoidOrder voids the open order under a manager PIN. The PIN field
// is deliberately not cleared on a generic failure so the manager can
// correct and resubmit.
func (m *Manager) SubmitVoidOrder(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID, err := m.openOrderID()
	if err != nil {
		return err
	}

	m.mu.RLock()
	draft := m.voidDraft
	var tableNumber string
	if m.order != nil && m.order.Order != nil {
		tableNumber = m.order.Order.TableNumber
	}
	m.mu.RUnlock()
	if !validPIN(draft.PIN) {
		return validationf("PIN harus 4 digit")
	}
	if !m.confirmStep(ctx, fmt.Sprintf("Void order %s?", tableNumber)) {
		return ErrCancelled
	}

	if err := m.setBusy(&m.busy.Voiding); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Voiding)

	if err := m.backend.VoidOrder(ctx, orderID, draft.PIN, draft.Reason); err != nil {
		m.logger.Error("failed to void order", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal void order: %w", err)
	}
	m.CloseVoidModal()
	m.CloseOrderModal()
	return m.Refresh(ctx)
}

// OpenItemsModal opens the item-edit view for a table's order.
func (m *Manager) OpenItemsModal(ctx context.Context, table models.Table) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	orderID := table.PendingOrderID()
	if orderID == "" {
		return ErrNoOrder
	}
	if err := m.setBusy(&m.busy.Items); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Items)

	m.mu.Lock()
	m.modals.Items = true
	m.itemsOrder = nil
	m.mu.Unlock()

	detail, err := m.backend.OrderDetail(ctx, orderID)
	if err != nil {
		m.mu.Lock()
		m.modals.Items = false
		m.mu.Unlock()
		return fmt.Errorf("gagal memuat item order: %w", err)
	}
	m.mu.Lock()
	m.itemsOrder = detail
	m.mu.Unlock()
	return nil
}

// CloseItemsModal closes the item-edit view.
func (m *Manager) CloseItemsModal() {
	m.mu.Lock()
	m.modals.Items = false
	m.itemsOrder = nil
	m.mu.Unlock()
}

// ItemsOrder returns the snapshot shown in the item-edit view.
func (m *Manager) ItemsOrder() *models.OrderDetail {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemsOrder
}

// ItemUpdating reports whether a quantity change for the item is in flight.
func (m *Manager) ItemUpdating(itemID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.itemUpdating[itemID]
}

// AdjustItemQty changes one pending item's quantity by delta. Items the
// kitchen already started are rejected with a warning; dropping to zero
// removes the item and requires confirmation.
func (m *Manager) AdjustItemQty(ctx context.Context, item models.OrderItem, delta int) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}

	m.mu.RLock()
	var orderID string
	if m.itemsOrder != nil && m.itemsOrder.Order != nil {
		orderID = m.itemsOrder.Order.ID
	}
	inFlight := m.itemUpdating[item.ID]
	m.mu.RUnlock()
	if orderID == "" {
		return ErrNoOrder
	}
	if !item.CanEdit() {
		return validationf("Item sudah diproses kitchen")
	}
	if inFlight {
		return ErrBusy
	}

	nextQty := item.Qty + delta
	if nextQty < 0 || nextQty == item.Qty {
		return nil
	}
	if nextQty == 0 {
		if !m.confirmStep(ctx, fmt.Sprintf("Hapus %s dari pesanan?", item.ProductName)) {
			return ErrCancelled
		}
	}

	m.mu.Lock()
	m.itemUpdating[item.ID] = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.itemUpdating, item.ID)
		m.mu.Unlock()
	}()

	if err := m.backend.UpdateItemQty(ctx, item.ID, nextQty); err != nil {
		m.logger.Error("failed to update item qty", "item_id", item.ID, "error", err)
		return fmt.Errorf("gagal mengubah jumlah item: %w", err)
	}

	detail, err := m.backend.OrderDetail(ctx, orderID)
	if err != nil {
		return fmt.Errorf("gagal memuat item order: %w", err)
	}
	m.mu.Lock()
	m.itemsOrder = detail
	m.mu.Unlock()
	return m.fetchTables(ctx)
}
