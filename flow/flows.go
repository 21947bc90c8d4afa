package flow

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Flow names an authorization resolution strategy
type Flow string

const (
	FlowAuthorize     Flow = "Authorize"
	FlowDenied        Flow = "Denied"
	FlowCancel        Flow = "Cancel"
	FlowAsyncApproved Flow = "AsyncApproved"
	FlowAsyncDenied   Flow = "AsyncDenied"
	FlowBankInvoice   Flow = "BankInvoice"
	FlowRedirect      Flow = "Redirect"
	FlowPaymentApp    Flow = "PaymentApp"
)

// delayToCancel hints, advisory for the calling platform
const (
	asyncDelayToCancel = 1000
	// the external app needs a human to act, give it minutes
	paymentAppDelayToCancel = 300000
)

const (
	paymentAppName     = "basiliclabs.basilic-web3pago"
	defaultAppCurrency = "USD"
)

// Outcome is the result of running a flow. Response is returned to the caller
// immediately; Deferred, when set, is delivered later through the retry
// callback, superseding Response for the same payment id.
type Outcome struct {
	Response AuthorizationResponse
	Deferred *AuthorizationResponse
}

// FlowFunc resolves an authorization request into an Outcome
type FlowFunc func(req AuthorizationRequest) Outcome

// Registry holds the immutable flow table. Build it once at startup with
// NewRegistry and share it freely; it is safe for concurrent use.
type Registry struct {
	baseURL string
	flows   map[Flow]FlowFunc
}

// NewRegistry builds the flow table. baseURL is the public URL of this
// connector, used to parameterize invoice, redirect and payment-app URLs.
func NewRegistry(baseURL string) *Registry {
	r := &Registry{baseURL: baseURL}
	r.flows = map[Flow]FlowFunc{
		FlowAuthorize:     approved,
		FlowDenied:        denied,
		FlowCancel:        approved,
		FlowAsyncApproved: asyncApproved,
		FlowAsyncDenied:   asyncDenied,
		FlowBankInvoice:   r.bankInvoice,
		FlowRedirect:      r.redirect,
		FlowPaymentApp:    r.paymentApp,
	}
	return r
}

// Execute classifies the request, runs the selected flow and delivers the
// deferred response, when the flow produced one, through retry exactly once.
func (r *Registry) Execute(req AuthorizationRequest, retry func(AuthorizationResponse)) AuthorizationResponse {
	out := r.flows[Classify(req)](req)
	if out.Deferred != nil && retry != nil {
		retry(*out.Deferred)
	}
	return out.Response
}

func approved(req AuthorizationRequest) Outcome {
	return Outcome{Response: Approve(req, NewID(), NewID(), NewID())}
}

func denied(req AuthorizationRequest) Outcome {
	return Outcome{Response: Deny(req, NewID())}
}

func asyncApproved(req AuthorizationRequest) Outcome {
	final := Approve(req, NewID(), NewID(), NewID())
	return Outcome{
		Response: Pending(req, NewID(), asyncDelayToCancel),
		Deferred: &final,
	}
}

func asyncDenied(req AuthorizationRequest) Outcome {
	final := Deny(req, NewID())
	return Outcome{
		Response: Pending(req, NewID(), asyncDelayToCancel),
		Deferred: &final,
	}
}

func (r *Registry) bankInvoice(req AuthorizationRequest) Outcome {
	final := Approve(req, NewID(), NewID(), NewID())
	resp := Pending(req, NewID(), asyncDelayToCancel)
	resp.PaymentURL = fmt.Sprintf("%s/invoice/%s", r.baseURL, NewID())
	return Outcome{Response: resp, Deferred: &final}
}

func (r *Registry) redirect(req AuthorizationRequest) Outcome {
	final := Approve(req, NewID(), NewID(), NewID())
	resp := Pending(req, NewID(), asyncDelayToCancel)
	resp.RedirectURL = fmt.Sprintf("%s/redirect/%s", r.baseURL, NewID())
	return Outcome{Response: resp, Deferred: &final}
}

// paymentApp hands the decision to an external payment app. There is no
// deferred branch; the final outcome arrives out of band through the
// approve-payment/deny-payment webhooks, keyed by the generated transaction id.
// Persisting the transaction id against the request is the caller's job.
func (r *Registry) paymentApp(req AuthorizationRequest) Outcome {
	transactionID := NewID()

	currency := req.Currency
	if currency == "" {
		currency = defaultAppCurrency
	}

	payload, _ := sonic.MarshalString(AppPayload{
		TransactionID:     transactionID,
		Amount:            req.Value,
		Currency:          currency,
		ApprovePaymentURL: fmt.Sprintf("%s/approve-payment/%s", r.baseURL, transactionID),
		DenyPaymentURL:    fmt.Sprintf("%s/deny-payment/%s", r.baseURL, transactionID),
		Wallet:            WalletData{CryptoCurrency: "ETH", NetworkID: "1"},
	})

	resp := Pending(req, NewID(), paymentAppDelayToCancel)
	resp.PaymentAppData = &PaymentAppData{
		AppName: paymentAppName,
		Payload: payload,
	}
	return Outcome{Response: resp}
}

// ParseAppPayload decodes the payload of a payment-app response
func ParseAppPayload(payload string) (AppPayload, error) {
	var p AppPayload
	if err := sonic.UnmarshalString(payload, &p); err != nil {
		return AppPayload{}, fmt.Errorf("failed to parse payment app payload: %w", err)
	}
	return p, nil
}
