package cashier

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/posclub/cashier/internal/models"
)

// OpenReceiptDetail opens the receipt view for a transaction, fetching the
// underlying order together with the outlet config. A missing outlet config
// is tolerated; a missing order closes the view again.
func (m *Manager) OpenReceiptDetail(ctx context.Context, tx models.Transaction) error {
	if tx.ID == "" {
		return validationf("Transaksi tidak ditemukan")
	}
	if err := m.setBusy(&m.busy.Receipt); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Receipt)

	m.mu.Lock()
	m.receiptTx = &tx
	m.receiptOrder = nil
	m.modals.Receipt = true
	m.mu.Unlock()

	orderID := tx.OrderID
	if orderID == "" {
		orderID = tx.ID
	}

	var detail *models.OrderDetail
	var outlet *models.OutletConfig
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = m.backend.OrderDetail(gctx, orderID)
		return err
	})
	g.Go(func() error {
		cfg, err := m.backend.OutletConfig(gctx)
		if err == nil {
			outlet = cfg
		}
		// Receipt still renders with the cached outlet identity.
		return nil
	})
	if err := g.Wait(); err != nil {
		m.mu.Lock()
		m.modals.Receipt = false
		m.receiptTx = nil
		m.mu.Unlock()
		return fmt.Errorf("gagal memuat detail struk: %w", err)
	}

	m.mu.Lock()
	m.receiptOrder = detail
	if outlet != nil {
		if outlet.OutletName == "" {
			outlet.OutletName = m.outletConfig.OutletName
		}
		m.outletConfig = *outlet
	}
	m.mu.Unlock()
	return nil
}

// CloseReceiptModal closes the receipt view and drops its snapshot.
func (m *Manager) CloseReceiptModal() {
	m.mu.Lock()
	m.modals.Receipt = false
	m.receiptTx = nil
	m.receiptOrder = nil
	m.mu.Unlock()
}

// ReceiptOrder returns the order shown in the receipt view.
func (m *Manager) ReceiptOrder() *models.OrderDetail {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receiptOrder
}

// ReceiptSubtotal sums the receipt's line items.
func (m *Manager) ReceiptSubtotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receiptSubtotalLocked()
}

func (m *Manager) receiptSubtotalLocked() int64 {
	if m.receiptOrder == nil {
		return 0
	}
	var subtotal int64
	for _, item := range m.receiptOrder.Items {
		subtotal += item.Subtotal()
	}
	return subtotal
}

// ReceiptTotal resolves the receipt's total: the order's total when loaded,
// else the transaction amount, else the item subtotal.
func (m *Manager) ReceiptTotal() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receiptTotalLocked()
}

func (m *Manager) receiptTotalLocked() int64 {
	if m.receiptOrder != nil && m.receiptOrder.Order != nil {
		if total := m.receiptOrder.Order.Total(); total > 0 {
			return total
		}
	}
	if m.receiptTx != nil && m.receiptTx.TotalAmount > 0 {
		return m.receiptTx.TotalAmount
	}
	return m.receiptSubtotalLocked()
}

// ReceiptPaidAmount resolves the amount tendered: the sum of recorded
// payments when present, else the transaction's paid amount, else the total.
func (m *Manager) ReceiptPaidAmount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.receiptPaidLocked()
}

func (m *Manager) receiptPaidLocked() int64 {
	if m.receiptOrder != nil && len(m.receiptOrder.Payments) > 0 {
		var paid int64
		for _, p := range m.receiptOrder.Payments {
			paid += p.Amount
		}
		return paid
	}
	if m.receiptTx != nil && m.receiptTx.PaidAmount != nil {
		return *m.receiptTx.PaidAmount
	}
	return m.receiptTotalLocked()
}

// ReceiptChange is the change handed back. Only cash payments give change.
func (m *Manager) ReceiptChange() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	method := ""
	if m.receiptOrder != nil && len(m.receiptOrder.Payments) > 0 {
		method = m.receiptOrder.Payments[0].PaymentMethod
	} else if m.receiptTx != nil {
		method = m.receiptTx.PaymentMethod
	}
	if method != models.PaymentMethodCash {
		return 0
	}
	change := m.receiptPaidLocked() - m.receiptTotalLocked()
	if change < 0 {
		return 0
	}
	return change
}

// ReprintReceipt queues the receipt shown in the receipt view for printing
// again.
func (m *Manager) ReprintReceipt(ctx context.Context) error {
	m.mu.RLock()
	tx := m.receiptTx
	m.mu.RUnlock()
	if tx == nil {
		return validationf("Transaksi tidak ditemukan")
	}
	orderID := tx.OrderID
	if orderID == "" {
		orderID = tx.ID
	}

	if err := m.setBusy(&m.busy.Reprinting); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Reprinting)

	if err := m.backend.ReprintReceipt(ctx, orderID); err != nil {
		m.logger.Error("failed to reprint receipt", "order_id", orderID, "error", err)
		return fmt.Errorf("gagal mencetak ulang struk: %w", err)
	}
	return nil
}

// FetchOutletConfig refreshes the receipt outlet identity.
func (m *Manager) FetchOutletConfig(ctx context.Context) error {
	cfg, err := m.backend.OutletConfig(ctx)
	if err != nil {
		m.logger.Error("failed to fetch outlet config", "error", err)
		return err
	}
	m.mu.Lock()
	if cfg.OutletName == "" {
		cfg.OutletName = m.outletConfig.OutletName
	}
	m.outletConfig = *cfg
	m.mu.Unlock()
	return nil
}
