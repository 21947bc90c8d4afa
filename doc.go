// Package pagoconnect is a payment-gateway connector that sits between an
// e-commerce checkout platform and an external payment processor.
//
// # Overview
//
// The connector receives authorization, cancellation, refund and settlement
// requests, resolves each authorization through a deterministic flow table
// keyed by certification test values, and persists enough state to correlate a
// later out-of-band confirmation back to the original request.
//
// # Architecture
//
// The request flow follows this pattern:
//
//	┌─────────────────┐    ┌─────────────────┐    ┌─────────────────┐
//	│                 │    │                 │    │                 │
//	│    Checkout     │◄──►│   pagoconnect   │◄──►│    External     │
//	│    Platform     │    │   (connector)   │    │   Payment App   │
//	│                 │    │                 │    │                 │
//	└─────────────────┘    └─────────────────┘    └─────────────────┘
//
// An authorization is classified into exactly one flow: immediate approve or
// deny, asynchronous approve or deny, bank invoice, redirect, or external
// payment app. Asynchronous flows answer with a pending response and deliver
// the final outcome through the platform callback. Payment-app flows park the
// request in the correlation store until the app confirms or denies it through
// the webhook endpoints:
//
//	POST /approve-payment/{transactionId}
//	POST /deny-payment/{transactionId}
//
// Authorization results are persisted per payment id, so replaying an already
// resolved authorization returns the stored outcome unchanged.
package pagoconnect
