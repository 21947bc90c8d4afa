package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/basiliclabs/pagoconnect/handler"
	"github.com/basiliclabs/pagoconnect/infra/response"
)

// Routes wires the gateway endpoints and the confirmation webhooks. Anything
// else answers the fixed 404 body the payment app protocol expects.
func Routes(r chi.Router, payment *handler.PaymentHandler, reconcile *handler.ReconcileHandler) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, "Service is healthy", map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", payment.Authorize)
		r.Post("/{paymentID}/cancellations", payment.Cancel)
		r.Post("/{paymentID}/refunds", payment.Refund)
		r.Post("/{paymentID}/settlements", payment.Settle)
	})

	// confirmation webhooks called by the external payment app
	r.Post("/approve-payment/{transactionID}", reconcile.ApprovePayment)
	r.Post("/deny-payment/{transactionID}", reconcile.DenyPayment)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = response.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found"})
	})
}
