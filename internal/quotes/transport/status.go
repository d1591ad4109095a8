package transport

import "climstore_backend/platform/fsm"

// StatusMachine is the single source of truth for quote status transitions.
// A quote must be sent before it can be accepted; accepted and cancelled are
// terminal.
var StatusMachine = fsm.New("quote", map[string][]string{
	string(QuoteStatusDraft):     {string(QuoteStatusSent), string(QuoteStatusCancelled)},
	string(QuoteStatusSent):      {string(QuoteStatusAccepted), string(QuoteStatusCancelled)},
	string(QuoteStatusAccepted):  {},
	string(QuoteStatusCancelled): {},
})

// ValidInstallment reports whether s names one of the three installments.
func ValidInstallment(s string) bool {
	switch Installment(s) {
	case InstallmentDeposit, InstallmentInstallation, InstallmentFinal:
		return true
	}
	return false
}

// ValidPaymentState reports whether s is a known installment payment state.
func ValidPaymentState(s string) bool {
	switch s {
	case PaymentStateUnpaid, PaymentStatePending, PaymentStatePaid:
		return true
	}
	return false
}
