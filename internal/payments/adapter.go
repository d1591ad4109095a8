package payments

import (
	"context"

	quotesservice "climstore_backend/internal/quotes/service"
	quotestransport "climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/apperr"

	"github.com/google/uuid"
)

// quoteLedgerAdapter backs the payment service's quote port with the quotes
// module service.
type quoteLedgerAdapter struct {
	quotes *quotesservice.Service
}

func (a *quoteLedgerAdapter) InstallmentAmount(ctx context.Context, quoteID uuid.UUID, installment string) (int64, error) {
	quote, err := a.quotes.GetByID(ctx, quoteID)
	if err != nil {
		return 0, err
	}
	switch quotestransport.Installment(installment) {
	case quotestransport.InstallmentDeposit:
		return quote.DepositCents, nil
	case quotestransport.InstallmentInstallation:
		return quote.InstallationPaymentCents, nil
	case quotestransport.InstallmentFinal:
		return quote.FinalPaymentCents, nil
	}
	return 0, apperr.Validation("unknown installment " + installment)
}

func (a *quoteLedgerAdapter) SetInstallmentState(ctx context.Context, quoteID uuid.UUID, installment, state string) error {
	_, err := a.quotes.UpdatePaymentStatus(ctx, quoteID, installment, state)
	return err
}
