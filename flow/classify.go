package flow

// payment methods routed straight to the external payment app
const (
	methodPromissories = "Promissories"
	customCodeWeb3Pago = "Web3Pago"
)

// cardFlows maps the certification test card numbers to their flows. Any other
// card, including tokenized cards whose number is not visible, goes through the
// redirect flow.
var cardFlows = map[string]Flow{
	"4444333322221111": FlowAuthorize,
	"4444333322221112": FlowDenied,
	"4222222222222224": FlowAsyncApproved,
	"4222222222222225": FlowAsyncDenied,
}

// Classify selects exactly one flow for the request. The decision is
// deterministic: identical requests always classify to the same flow.
func Classify(req AuthorizationRequest) Flow {
	if req.PaymentMethod == methodPromissories || req.PaymentMethodCustomCode == customCodeWeb3Pago {
		return FlowPaymentApp
	}

	if req.BankInvoice() {
		return FlowBankInvoice
	}

	if req.Card != nil {
		number := req.Card.Number
		if req.Card.Tokenized() {
			number = ""
		}

		if f, ok := cardFlows[number]; ok {
			return f
		}
		return FlowRedirect
	}

	return FlowAuthorize
}
