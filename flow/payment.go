package flow

import (
	"github.com/google/uuid"
)

// AuthorizationStatus represents the current status of an authorization
type AuthorizationStatus string

const (
	StatusApproved AuthorizationStatus = "approved"
	StatusDenied   AuthorizationStatus = "denied"
	StatusPending  AuthorizationStatus = "pending"
)

// Card represents the card details of a card-based authorization. A card is
// either identified by its literal number or by an opaque token issued by the
// checkout platform, never both.
type Card struct {
	Holder      string `json:"holder,omitempty"`
	Number      string `json:"number,omitempty"`
	Token       string `json:"token,omitempty"`
	ExpireMonth string `json:"expireMonth,omitempty"`
	ExpireYear  string `json:"expireYear,omitempty"`
	CSC         string `json:"csc,omitempty"`
}

// Tokenized reports whether the card carries a token instead of a literal number
func (c *Card) Tokenized() bool {
	return c != nil && c.Token != "" && c.Number == ""
}

// AuthorizationRequest contains all information the checkout platform sends for
// a single payment attempt. Requests are immutable once created; the connector
// only echoes their fields into response and correlation records.
type AuthorizationRequest struct {
	PaymentID               string  `json:"paymentId" validate:"required"`
	Reference               string  `json:"reference,omitempty"`
	OrderID                 string  `json:"orderId,omitempty"`
	TransactionID           string  `json:"transactionId,omitempty"`
	PaymentMethod           string  `json:"paymentMethod,omitempty"`
	PaymentMethodCustomCode string  `json:"paymentMethodCustomCode,omitempty"`
	Value                   float64 `json:"value" validate:"gte=0"`
	Currency                string  `json:"currency,omitempty"`
	Card                    *Card   `json:"card,omitempty"`
	ReturnURL               string  `json:"returnUrl,omitempty"`
	CallbackURL             string  `json:"callbackUrl,omitempty"`
	MerchantName            string  `json:"merchantName,omitempty"`
}

// bank invoice payment methods recognized by the classifier
var bankInvoiceMethods = map[string]bool{
	"BankInvoice":     true,
	"Boleto Bancário": true,
}

// BankInvoice reports whether the request matches the bank-invoice shape
func (r AuthorizationRequest) BankInvoice() bool {
	return bankInvoiceMethods[r.PaymentMethod]
}

// AuthorizationResponse is the outcome of processing an authorization request.
// A first pending response may later be superseded by a terminal approved or
// denied response for the same payment id.
type AuthorizationResponse struct {
	PaymentID       string              `json:"paymentId"`
	Status          AuthorizationStatus `json:"status"`
	AuthorizationID string              `json:"authorizationId,omitempty"`
	NSU             string              `json:"nsu,omitempty"`
	TID             string              `json:"tid,omitempty"`
	Code            string              `json:"code,omitempty"`
	Message         string              `json:"message,omitempty"`
	DelayToCancel   int                 `json:"delayToCancel,omitempty"`
	PaymentURL      string              `json:"paymentUrl,omitempty"`
	RedirectURL     string              `json:"redirectUrl,omitempty"`
	PaymentAppData  *PaymentAppData     `json:"paymentAppData,omitempty"`
}

// Terminal reports whether the response supersedes any pending state
func (r AuthorizationResponse) Terminal() bool {
	return r.Status == StatusApproved || r.Status == StatusDenied
}

// PaymentAppData is the opaque bundle handed to an external payment app. The
// payload is an AppPayload serialized as JSON.
type PaymentAppData struct {
	AppName string `json:"appName"`
	Payload string `json:"payload"`
}

// WalletData carries the crypto settlement hints embedded in the payment-app payload
type WalletData struct {
	WalletAddress  string `json:"walletAddress"`
	CryptoCurrency string `json:"cryptoCurrency"`
	NetworkID      string `json:"networkId"`
}

// AppPayload is the parsed contents of PaymentAppData.Payload. TransactionID is
// the correlation id the external app echoes back through the confirmation
// webhooks; it is distinct from the payment id.
type AppPayload struct {
	TransactionID     string     `json:"transactionId"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
	ApprovePaymentURL string     `json:"approvePaymentUrl"`
	DenyPaymentURL    string     `json:"denyPaymentUrl"`
	Wallet            WalletData `json:"web3pagoData"`
}

// CancellationRequest asks the connector to cancel a previous authorization
type CancellationRequest struct {
	PaymentID       string `json:"paymentId" validate:"required"`
	RequestID       string `json:"requestId,omitempty"`
	AuthorizationID string `json:"authorizationId,omitempty"`
}

// CancellationResponse is the outcome of a cancellation request
type CancellationResponse struct {
	PaymentID      string `json:"paymentId"`
	CancellationID string `json:"cancellationId,omitempty"`
	Code           string `json:"code,omitempty"`
	Message        string `json:"message,omitempty"`
}

// RefundRequest asks the connector to refund a settled payment
type RefundRequest struct {
	PaymentID string  `json:"paymentId" validate:"required"`
	RequestID string  `json:"requestId,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// RefundResponse is the outcome of a refund request
type RefundResponse struct {
	PaymentID string  `json:"paymentId"`
	RefundID  string  `json:"refundId,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Code      string  `json:"code,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// SettlementRequest asks the connector to capture an approved authorization
type SettlementRequest struct {
	PaymentID string  `json:"paymentId" validate:"required"`
	RequestID string  `json:"requestId,omitempty"`
	Value     float64 `json:"value,omitempty"`
}

// SettlementResponse is the outcome of a settlement request
type SettlementResponse struct {
	PaymentID string  `json:"paymentId"`
	SettleID  string  `json:"settleId,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Code      string  `json:"code,omitempty"`
	Message   string  `json:"message,omitempty"`
}

// NewID returns a fresh opaque identifier for authorization artifacts
func NewID() string {
	return uuid.NewString()
}

// Approve builds a terminal approved response for the request
func Approve(req AuthorizationRequest, authorizationID, nsu, tid string) AuthorizationResponse {
	return AuthorizationResponse{
		PaymentID:       req.PaymentID,
		Status:          StatusApproved,
		AuthorizationID: authorizationID,
		NSU:             nsu,
		TID:             tid,
	}
}

// Deny builds a terminal denied response for the request
func Deny(req AuthorizationRequest, tid string) AuthorizationResponse {
	return AuthorizationResponse{
		PaymentID: req.PaymentID,
		Status:    StatusDenied,
		TID:       tid,
		Message:   "Payment denied",
	}
}

// Pending builds a non-terminal response announcing a later final outcome
func Pending(req AuthorizationRequest, tid string, delayToCancel int) AuthorizationResponse {
	return AuthorizationResponse{
		PaymentID:     req.PaymentID,
		Status:        StatusPending,
		TID:           tid,
		DelayToCancel: delayToCancel,
	}
}

// ApproveCancellation builds a successful cancellation response
func ApproveCancellation(req CancellationRequest, cancellationID string) CancellationResponse {
	return CancellationResponse{
		PaymentID:      req.PaymentID,
		CancellationID: cancellationID,
		Message:        "Cancellation approved",
	}
}

// DenyRefund builds the fixed manual-refund outcome
func DenyRefund(req RefundRequest) RefundResponse {
	return RefundResponse{
		PaymentID: req.PaymentID,
		Value:     req.Value,
		Code:      "refund-manually",
		Message:   "Refunds must be handled manually by the merchant",
	}
}

// DenySettlement builds the fixed settlement denial outcome
func DenySettlement(req SettlementRequest) SettlementResponse {
	return SettlementResponse{
		PaymentID: req.PaymentID,
		Value:     req.Value,
		Code:      "settle-denied",
		Message:   "Settlement is performed by the external payment app",
	}
}
