package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/posclub/cashier/internal/models"
)

// LoginResult is the token+identity pair issued at login or handover.
type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates a cashier. A 401 here never tears down the session.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"username": username, "password": password}
	if err := c.post(ctx, "/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the authenticated user's identity.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if _, err := c.get(ctx, "/auth/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Tables lists all tables with their occupancy state.
func (c *Client) Tables(ctx context.Context) ([]models.Table, error) {
	query := url.Values{"page_size": {"1000"}}
	var tables []models.Table
	if _, err := c.get(ctx, "/tables", query, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// OrderDetail fetches the full view of one order.
func (c *Client) OrderDetail(ctx context.Context, orderID string) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if _, err := c.get(ctx, "/orders/"+orderID, nil, &detail); err != nil {
		return nil, err
	}
	if detail.Items == nil {
		detail.Items = []models.OrderItem{}
	}
	return &detail, nil
}

// Analytics fetches the sales rollup for a date range (YYYY-MM-DD, inclusive).
// The server nests the rollup under an "analytics" key on some versions and
// returns it flat on others; both shapes are accepted.
func (c *Client) Analytics(ctx context.Context, startDate, endDate string) (*models.Analytics, error) {
	query := url.Values{"start_date": {startDate}, "end_date": {endDate}}
	var raw json.RawMessage
	if _, err := c.get(ctx, "/orders/analytics", query, &raw); err != nil {
		return nil, err
	}
	var nested struct {
		Analytics *models.Analytics `json:"analytics"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Analytics != nil {
		return nested.Analytics, nil
	}
	var flat models.Analytics
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode analytics: %w", err)
	}
	return &flat, nil
}

// HistoryQuery selects a page of cashier history.
type HistoryQuery struct {
	Page      int
	PageSize  int
	StartDate string
	EndDate   string
}

func (q HistoryQuery) values() url.Values {
	return url.Values{
		"page":       {strconv.Itoa(q.Page)},
		"page_size":  {strconv.Itoa(q.PageSize)},
		"start_date": {q.StartDate},
		"end_date":   {q.EndDate},
	}
}

// Transactions lists completed transactions. The returned pagination is nil
// when the server omitted it, in which case the caller paginates locally.
func (c *Client) Transactions(ctx context.Context, q HistoryQuery) ([]models.Transaction, *models.Pagination, error) {
	var items []models.Transaction
	pagination, err := c.get(ctx, "/transactions", q.values(), &items)
	if err != nil {
		return nil, nil, err
	}
	return items, pagination, nil
}

// VoidedOrders lists voided orders for the history view.
func (c *Client) VoidedOrders(ctx context.Context, q HistoryQuery) ([]models.VoidedOrder, *models.Pagination, error) {
	var items []models.VoidedOrder
	pagination, err := c.get(ctx, "/orders/voided", q.values(), &items)
	if err != nil {
		return nil, nil, err
	}
	return items, pagination, nil
}

// ApplyDiscount applies a percentage or fixed discount to an order.
func (c *Client) ApplyDiscount(ctx context.Context, orderID, chargeType string, value int64) error {
	body := map[string]any{"charge_type": chargeType, "value": value}
	return c.post(ctx, "/orders/"+orderID+"/discount", body, nil)
}

// ApplyCompliment waives the order's full amount.
func (c *Client) ApplyCompliment(ctx context.Context, orderID string) error {
	return c.post(ctx, "/orders/"+orderID+"/compliment", nil, nil)
}

// ProcessPayment settles an order in full.
func (c *Client) ProcessPayment(ctx context.Context, orderID, method string, paidAmount int64) error {
	body := map[string]any{"payment_method": method, "paid_amount": paidAmount}
	return c.post(ctx, "/orders/"+orderID+"/payment", body, nil)
}

// SplitItem selects a quantity of one line item for a split payment.
type SplitItem struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

// SplitPaymentRequest settles a subset of an order's items.
type SplitPaymentRequest struct {
	Items         []SplitItem `json:"items"`
	Amount        int64       `json:"amount"`
	PaymentMethod string      `json:"payment_method"`
	Note          string      `json:"note,omitempty"`
	PaidAmount    int64       `json:"paid_amount"`
}

// ProcessSplitPayment settles part of an order against selected items.
func (c *Client) ProcessSplitPayment(ctx context.Context, orderID string, req SplitPaymentRequest) error {
	return c.post(ctx, "/orders/"+orderID+"/split-payment", req, nil)
}

// UpdateItemQty changes a pending item's quantity; zero removes the item.
func (c *Client) UpdateItemQty(ctx context.Context, itemID string, qty int) error {
	return c.put(ctx, "/orders/items/"+itemID+"/qty", map[string]int{"qty": qty}, nil)
}

// VoidOrder voids an unpaid order under a manager PIN.
func (c *Client) VoidOrder(ctx context.Context, orderID, managerPIN, reason string) error {
	body := map[string]string{"manager_pin": managerPIN, "reason": reason}
	return c.post(ctx, "/orders/"+orderID+"/void", body, nil)
}

// CancelTransaction cancels a completed transaction under a manager PIN.
func (c *Client) CancelTransaction(ctx context.Context, transactionID, managerPIN, reason string) error {
	body := map[string]string{"manager_pin": managerPIN, "reason": reason}
	return c.post(ctx, "/transactions/"+transactionID+"/cancel", body, nil)
}

// ShiftState fetches the open and last-closed shift.
func (c *Client) ShiftState(ctx context.Context) (*models.ShiftState, error) {
	var state models.ShiftState
	if _, err := c.get(ctx, "/cashier/shifts/state", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// OpenShift opens a shift. A nil openingCash lets the server default it.
func (c *Client) OpenShift(ctx context.Context, openingCash *int64) error {
	return c.post(ctx, "/cashier/shifts/open", map[string]any{"opening_cash": openingCash}, nil)
}

// CloseShift closes the open shift, declaring the counted per-method totals.
func (c *Client) CloseShift(ctx context.Context, summary models.SalesSummary) error {
	body := map[string]any{
		"closing_cash":     summary.Cash,
		"closing_card":     summary.Card,
		"closing_qris":     summary.QRIS,
		"closing_transfer": summary.Transfer,
	}
	return c.post(ctx, "/cashier/shifts/close", body, nil)
}

// HandoverRequest transfers the open shift to another cashier. Both PINs are
// verified server-side; a 401 on this path is recoverable and does not tear
// the session down.
type HandoverRequest struct {
	NextCashierID     string `json:"next_cashier_id"`
	CurrentCashierPIN string `json:"current_cashier_pin"`
	NextCashierPIN    string `json:"next_cashier_pin"`
	ClosingCash       int64  `json:"closing_cash"`
	ClosingCard       int64  `json:"closing_card"`
	ClosingQRIS       int64  `json:"closing_qris"`
	ClosingTransfer   int64  `json:"closing_transfer"`
}

// HandoverResult optionally carries the incoming cashier's fresh session.
type HandoverResult struct {
	Auth *LoginResult `json:"auth,omitempty"`
}

// HandoverShift performs the shift handover.
func (c *Client) HandoverShift(ctx context.Context, req HandoverRequest) (*HandoverResult, error) {
	var result HandoverResult
	if err := c.post(ctx, "/cashier/shifts/handover", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CashMovementRequest records money moved in or out of the drawer.
type CashMovementRequest struct {
	Type   string `json:"type"`
	Name   string `json:"name"`
	Note   string `json:"note,omitempty"`
	Amount int64  `json:"amount"`
}

// RecordCashMovement appends a drawer movement to the open shift.
func (c *Client) RecordCashMovement(ctx context.Context, req CashMovementRequest) error {
	return c.post(ctx, "/cashier/shifts/movements", req, nil)
}

// CashierUsers lists cashier accounts eligible for handover.
func (c *Client) CashierUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if _, err := c.get(ctx, "/cashier/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// PrintBill queues the pre-payment bill for printing.
func (c *Client) PrintBill(ctx context.Context, orderID string) error {
	return c.post(ctx, "/print/bill/"+orderID, nil, nil)
}

// ReprintReceipt queues a paid order's receipt for reprinting.
func (c *Client) ReprintReceipt(ctx context.Context, orderID string) error {
	return c.post(ctx, "/print/reprint/"+orderID, nil, nil)
}

// OutletConfig fetches the outlet identity used on receipts.
func (c *Client) OutletConfig(ctx context.Context) (*models.OutletConfig, error) {
	var cfg models.OutletConfig
	if _, err := c.get(ctx, "/config/outlet", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
