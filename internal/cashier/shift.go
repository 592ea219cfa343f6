package cashier

import (
	"context"
	"fmt"
	"strings"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/models"
)

// OpenOpenShiftModal opens the open-shift form, defaulting the opening cash
// to the last closed shift's carry-over.
func (m *Manager) OpenOpenShiftModal() {
	m.mu.Lock()
	var opening *int64
	if last := m.shiftState.LastClosedShift; last != nil && last.CarryOverCash > 0 {
		carryOver := last.CarryOverCash
		opening = &carryOver
	}
	m.openingCash = OpeningCashDraft{Amount: opening}
	m.modals.OpenShift = true
	m.mu.Unlock()
}

// CloseOpenShiftModal discards the opening-cash draft.
func (m *Manager) CloseOpenShiftModal() {
	m.mu.Lock()
	m.modals.OpenShift = false
	m.openingCash = OpeningCashDraft{}
	m.mu.Unlock()
}

// SetOpeningCash sets the drafted opening cash. Nil defers to the server.
func (m *Manager) SetOpeningCash(amount *int64) {
	m.mu.Lock()
	m.openingCash = OpeningCashDraft{Amount: amount}
	m.mu.Unlock()
}

// SubmitOpenShift opens a cashier shift.
func (m *Manager) SubmitOpenShift(ctx context.Context) error {
	if m.ShiftOpen() {
		return validationf("Shift kasir sudah terbuka")
	}
	if err := m.setBusy(&m.busy.Shift); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Shift)

	m.mu.RLock()
	opening := m.openingCash.Amount
	m.mu.RUnlock()

	if err := m.backend.OpenShift(ctx, opening); err != nil {
		m.logger.Error("failed to open shift", "error", err)
		return fmt.Errorf("gagal membuka shift kasir: %w", err)
	}
	m.logger.Info("shift opened")
	m.CloseOpenShiftModal()
	return m.FetchShiftState(ctx)
}

// OpenCloseShiftModal opens the close-shift summary.
func (m *Manager) OpenCloseShiftModal() error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	m.mu.Lock()
	m.modals.CloseShift = true
	m.mu.Unlock()
	return nil
}

// CloseCloseShiftModal closes the close-shift summary.
func (m *Manager) CloseCloseShiftModal() {
	m.mu.Lock()
	m.modals.CloseShift = false
	m.mu.Unlock()
}

// SubmitCloseShift closes the open shift, declaring its per-method sales
// totals back to the server.
func (m *Manager) SubmitCloseShift(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return err
	}
	if err := m.setBusy(&m.busy.Shift); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Shift)

	m.mu.RLock()
	shift := m.shiftState.OpenShift
	m.mu.RUnlock()
	// A concurrent refresh may have closed the shift since the guard.
	if shift == nil {
		return ErrShiftClosed
	}
	summary := shift.SalesSummary

	if err := m.backend.CloseShift(ctx, summary); err != nil {
		m.logger.Error("failed to close shift", "error", err)
		return fmt.Errorf("gagal menutup shift kasir: %w", err)
	}
	m.logger.Info("shift closed")
	m.CloseCloseShiftModal()
	return m.FetchShiftState(ctx)
}

// FetchCashierUsers replaces the cashier directory snapshot.
func (m *Manager) FetchCashierUsers(ctx context.Context) error {
	if err := m.setBusy(&m.busy.CashierUsers); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.CashierUsers)

	users, err := m.backend.CashierUsers(ctx)
	if err != nil {
		m.logger.Error("failed to fetch cashier users", "error", err)
		return fmt.Errorf("gagal memuat daftar kasir: %w", err)
	}
	m.mu.Lock()
	m.cashierUsers = users
	m.mu.Unlock()
	return nil
}

// OpenHandoverModal starts the handover flow: re-verifies the shift is
// still open against fresh server state, loads the cashier directory, and
// opens the target-selection modal with a clean draft.
func (m *Manager) OpenHandoverModal(ctx context.Context) error {
	m.mu.Lock()
	m.handover = HandoverDraft{}
	m.modals.HandoverPIN = false
	m.mu.Unlock()

	if err := m.FetchShiftState(ctx); err != nil {
		return fmt.Errorf("gagal memuat data shift kasir: %w", err)
	}
	if !m.ShiftOpen() {
		return validationf("Tidak ada shift kasir yang terbuka")
	}
	if err := m.FetchCashierUsers(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.modals.Handover = true
	m.mu.Unlock()
	return nil
}

// CloseHandoverModal abandons the handover flow.
func (m *Manager) CloseHandoverModal() {
	m.mu.Lock()
	m.modals.Handover = false
	m.modals.HandoverPIN = false
	m.handover = HandoverDraft{}
	m.mu.Unlock()
}

// SetHandoverTarget selects the incoming cashier.
func (m *Manager) SetHandoverTarget(cashierID string) {
	m.mu.Lock()
	m.handover.NextCashierID = cashierID
	m.mu.Unlock()
}

// SetHandoverPINs updates both PIN fields, normalized to digits.
func (m *Manager) SetHandoverPINs(currentPIN, nextPIN string) {
	m.mu.Lock()
	m.handover.CurrentPIN = NormalizePIN(currentPIN)
	m.handover.NextPIN = NormalizePIN(nextPIN)
	m.mu.Unlock()
}

// OpenHandoverPINModal advances from target selection to PIN entry,
// clearing any previously typed PINs.
func (m *Manager) OpenHandoverPINModal() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.handover.NextCashierID == "" {
		return validationf("Pilih kasir tujuan")
	}
	m.handover.CurrentPIN = ""
	m.handover.NextPIN = ""
	m.modals.Handover = false
	m.modals.HandoverPIN = true
	return nil
}

// CloseHandoverPINModal steps back to target selection, dropping the PINs.
func (m *Manager) CloseHandoverPINModal() {
	m.mu.Lock()
	m.modals.HandoverPIN = false
	m.modals.Handover = true
	m.handover.CurrentPIN = ""
	m.handover.NextPIN = ""
	m.mu.Unlock()
}

// Markers the server embeds in a handover 401 message to say which PIN was
// wrong. The localized prose forms are what the original backend sends.
func handoverPINField(message string) (current, next bool) {
	lower := strings.ToLower(message)
	current = strings.Contains(lower, "current_pin") || strings.Contains(lower, "kasir saat ini")
	next = strings.Contains(lower, "next_pin") || strings.Contains(lower, "kasir tujuan")
	return current, next
}

// SubmitHandover transfers the open shift to the selected cashier. On
// success the server may return the incoming cashier's session, which is
// installed as the active identity. A 401 naming the offending PIN clears
// only that field and keeps the flow open; the session survives.
func (m *Manager) SubmitHandover(ctx context.Context) error {
	if err := m.requireShiftOpen(); err != nil {
		return validationf("Tidak ada shift kasir yang terbuka")
	}

	m.mu.RLock()
	draft := m.handover
	shift := m.shiftState.OpenShift
	m.mu.RUnlock()
	if shift == nil {
		return validationf("Tidak ada shift kasir yang terbuka")
	}
	summary := shift.SalesSummary

	if draft.NextCashierID == "" {
		return validationf("Pilih kasir tujuan")
	}
	if draft.NextCashierID == m.CurrentUserID() {
		return validationf("Kasir tujuan harus berbeda")
	}
	if !validPIN(draft.CurrentPIN) || !validPIN(draft.NextPIN) {
		return validationf("PIN harus 4 digit")
	}

	if err := m.setBusy(&m.busy.Shift); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.Shift)

	req := api.HandoverRequest{
		NextCashierID:     draft.NextCashierID,
		CurrentCashierPIN: draft.CurrentPIN,
		NextCashierPIN:    draft.NextPIN,
		ClosingCash:       summary.Cash,
		ClosingCard:       summary.Card,
		ClosingQRIS:       summary.QRIS,
		ClosingTransfer:   summary.Transfer,
	}
	result, err := m.backend.HandoverShift(ctx, req)
	if err != nil {
		if api.IsUnauthorized(err) {
			message := api.ServerMessage(err, "gagal melakukan serah terima kasir")
			clearCurrent, clearNext := handoverPINField(message)
			m.mu.Lock()
			if clearCurrent {
				m.handover.CurrentPIN = ""
			}
			if clearNext {
				m.handover.NextPIN = ""
			}
			m.mu.Unlock()
			return fmt.Errorf("serah terima ditolak: %w", err)
		}
		m.logger.Error("failed to handover shift", "error", err)
		return fmt.Errorf("gagal melakukan serah terima kasir: %w", err)
	}

	if result.Auth != nil && result.Auth.Token != "" {
		user := result.Auth.User
		m.session.Install(result.Auth.Token, &user)
	}
	m.logger.Info("shift handed over", "next_cashier_id", draft.NextCashierID)

	m.mu.Lock()
	m.modals.Handover = false
	m.modals.HandoverPIN = false
	m.handover = HandoverDraft{}
	m.mu.Unlock()
	return m.FetchShiftState(ctx)
}

// OpenCashMovementModal opens the drawer in/out form for the given type.
func (m *Manager) OpenCashMovementModal(movementType string) {
	m.mu.Lock()
	m.movement = newCashMovementDraft(movementType)
	m.modals.CashMovement = true
	m.mu.Unlock()
}

// CloseCashMovementModal discards the movement draft.
func (m *Manager) CloseCashMovementModal() {
	m.mu.Lock()
	m.modals.CashMovement = false
	m.movement = newCashMovementDraft(models.CashMovementIn)
	m.mu.Unlock()
}

// SetCashMovementDraft updates the movement form.
func (m *Manager) SetCashMovementDraft(draft CashMovementDraft) {
	if draft.Type != models.CashMovementOut {
		draft.Type = models.CashMovementIn
	}
	m.mu.Lock()
	m.movement = draft
	m.mu.Unlock()
}

// SubmitCashMovement records a drawer movement. A name is always required;
// a note is required for money out; the amount must be positive.
func (m *Manager) SubmitCashMovement(ctx context.Context) error {
	m.mu.RLock()
	draft := m.movement
	m.mu.RUnlock()

	name := strings.TrimSpace(draft.Name)
	note := strings.TrimSpace(draft.Note)
	if name == "" {
		return validationf("Nama harus diisi")
	}
	if draft.Type == models.CashMovementOut && note == "" {
		return validationf("Keterangan harus diisi")
	}
	if draft.Amount <= 0 {
		return validationf("Nominal harus diisi")
	}

	if err := m.setBusy(&m.busy.CashMovement); err != nil {
		return err
	}
	defer m.clearBusy(&m.busy.CashMovement)

	req := api.CashMovementRequest{
		Type:   draft.Type,
		Name:   name,
		Note:   note,
		Amount: draft.Amount,
	}
	if err := m.backend.RecordCashMovement(ctx, req); err != nil {
		m.logger.Error("failed to record cash movement", "type", draft.Type, "error", err)
		return fmt.Errorf("gagal menyimpan uang masuk/keluar: %w", err)
	}
	m.CloseCashMovementModal()
	return m.FetchShiftState(ctx)
}

// OpenCashMovementHistoryModal opens the movement-history view filtered by
// type (in/out) and source shift (current/last).
func (m *Manager) OpenCashMovementHistoryModal(movementType, source string) {
	if movementType != models.CashMovementOut {
		movementType = models.CashMovementIn
	}
	if source != "last" {
		source = "current"
	}
	m.mu.Lock()
	m.historyType = movementType
	m.historySrc = source
	m.modals.CashMovementHistory = true
	m.mu.Unlock()
}

// CloseCashMovementHistoryModal closes the movement-history view.
func (m *Manager) CloseCashMovementHistoryModal() {
	m.mu.Lock()
	m.modals.CashMovementHistory = false
	m.mu.Unlock()
}
