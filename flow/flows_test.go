package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://connector.example.com"

func execute(t *testing.T, req AuthorizationRequest) (AuthorizationResponse, []AuthorizationResponse) {
	t.Helper()

	var deferred []AuthorizationResponse
	resp := NewRegistry(testBaseURL).Execute(req, func(r AuthorizationResponse) {
		deferred = append(deferred, r)
	})
	return resp, deferred
}

func TestExecute_ImmediateApprove(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p1", Card: &Card{Number: "4444333322221111"}}

	resp, deferred := execute(t, req)

	assert.Equal(t, "p1", resp.PaymentID)
	assert.Equal(t, StatusApproved, resp.Status)
	assert.NotEmpty(t, resp.AuthorizationID)
	assert.NotEmpty(t, resp.NSU)
	assert.NotEmpty(t, resp.TID)
	assert.Empty(t, deferred, "immediate approve never defers")
}

func TestExecute_ImmediateDeny(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p1", Card: &Card{Number: "4444333322221112"}}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusDenied, resp.Status)
	assert.Empty(t, resp.AuthorizationID)
	assert.NotEmpty(t, resp.TID)
	assert.Empty(t, deferred)
}

func TestExecute_AsyncApproved(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p2", Card: &Card{Number: "4222222222222224"}}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, asyncDelayToCancel, resp.DelayToCancel)
	assert.NotEmpty(t, resp.TID)

	require.Len(t, deferred, 1)
	assert.Equal(t, "p2", deferred[0].PaymentID)
	assert.Equal(t, StatusApproved, deferred[0].Status)
	assert.NotEmpty(t, deferred[0].AuthorizationID)
}

func TestExecute_AsyncDenied(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p2", Card: &Card{Number: "4222222222222225"}}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusPending, resp.Status)
	require.Len(t, deferred, 1)
	assert.Equal(t, StatusDenied, deferred[0].Status)
}

func TestExecute_BankInvoice(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p3", PaymentMethod: "BankInvoice"}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Contains(t, resp.PaymentURL, testBaseURL+"/invoice/")
	assert.Equal(t, asyncDelayToCancel, resp.DelayToCancel)

	require.Len(t, deferred, 1)
	assert.Equal(t, StatusApproved, deferred[0].Status)
}

func TestExecute_Redirect(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p4", Card: &Card{Token: "tok-1"}}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Contains(t, resp.RedirectURL, testBaseURL+"/redirect/")

	require.Len(t, deferred, 1)
	assert.Equal(t, StatusApproved, deferred[0].Status)
}

func TestExecute_PaymentApp(t *testing.T) {
	req := AuthorizationRequest{
		PaymentID:     "p5",
		PaymentMethod: "Promissories",
		Value:         125.50,
		Currency:      "ARS",
	}

	resp, deferred := execute(t, req)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Equal(t, paymentAppDelayToCancel, resp.DelayToCancel)
	assert.Empty(t, deferred, "the final outcome arrives via webhook, not retry")

	require.NotNil(t, resp.PaymentAppData)
	assert.Equal(t, paymentAppName, resp.PaymentAppData.AppName)

	payload, err := ParseAppPayload(resp.PaymentAppData.Payload)
	require.NoError(t, err)
	assert.NotEmpty(t, payload.TransactionID)
	assert.Equal(t, 125.50, payload.Amount)
	assert.Equal(t, "ARS", payload.Currency)
	assert.Equal(t, testBaseURL+"/approve-payment/"+payload.TransactionID, payload.ApprovePaymentURL)
	assert.Equal(t, testBaseURL+"/deny-payment/"+payload.TransactionID, payload.DenyPaymentURL)
}

func TestExecute_PaymentApp_DefaultCurrency(t *testing.T) {
	resp, _ := execute(t, AuthorizationRequest{PaymentID: "p5", PaymentMethod: "Promissories"})

	payload, err := ParseAppPayload(resp.PaymentAppData.Payload)
	require.NoError(t, err)
	assert.Equal(t, "USD", payload.Currency)
}

func TestExecute_NilRetry(t *testing.T) {
	req := AuthorizationRequest{PaymentID: "p2", Card: &Card{Number: "4222222222222224"}}

	assert.NotPanics(t, func() {
		NewRegistry(testBaseURL).Execute(req, nil)
	})
}

func TestParseAppPayload_Invalid(t *testing.T) {
	_, err := ParseAppPayload("{not json")
	assert.Error(t, err)
}

func TestTerminal(t *testing.T) {
	assert.True(t, AuthorizationResponse{Status: StatusApproved}.Terminal())
	assert.True(t, AuthorizationResponse{Status: StatusDenied}.Terminal())
	assert.False(t, AuthorizationResponse{Status: StatusPending}.Terminal())
}

func TestFixedOutcomes(t *testing.T) {
	cancel := ApproveCancellation(CancellationRequest{PaymentID: "p1"}, NewID())
	assert.Equal(t, "p1", cancel.PaymentID)
	assert.NotEmpty(t, cancel.CancellationID)

	refund := DenyRefund(RefundRequest{PaymentID: "p1", Value: 10})
	assert.Equal(t, "refund-manually", refund.Code)
	assert.Empty(t, refund.RefundID)

	settle := DenySettlement(SettlementRequest{PaymentID: "p1", Value: 10})
	assert.Equal(t, "settle-denied", settle.Code)
	assert.Empty(t, settle.SettleID)
}
