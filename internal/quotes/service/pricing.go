package service

import "climstore_backend/internal/quotes/transport"

// Installment split in percent of the quote total.
const (
	depositPercent      = 40
	installationPercent = 30
)

// Installments are the three payment tranches of a quote. The amounts always
// sum to the total: deposit and installation are rounded to the nearest cent
// and the final payment takes the remainder.
type Installments struct {
	DepositCents      int64
	InstallationCents int64
	FinalCents        int64
}

// ComputeTotal returns the quote total in cents: product price plus the price
// of every selected option.
func ComputeTotal(cfg *transport.ProductConfiguration) int64 {
	total := cfg.PriceCents
	for _, opt := range cfg.Options {
		total += opt.PriceCents
	}
	return total
}

// ComputeInstallments splits a total into the 40/30/30 payment schedule.
func ComputeInstallments(totalCents int64) Installments {
	deposit := (totalCents*depositPercent + 50) / 100
	installation := (totalCents*installationPercent + 50) / 100
	return Installments{
		DepositCents:      deposit,
		InstallationCents: installation,
		FinalCents:        totalCents - deposit - installation,
	}
}
