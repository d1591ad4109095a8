// Package service contains the quote business logic: pricing, lifecycle and
// installment payment tracking.
package service

import (
	"context"
	"fmt"
	"time"

	"climstore_backend/internal/events"
	"climstore_backend/internal/quotes/repository"
	"climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/apperr"
	"climstore_backend/platform/logger"
	"climstore_backend/platform/phone"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Service implements the quote use cases.
type Service struct {
	repo   repository.Repository
	bus    events.Bus
	logger *logger.Logger
}

// New creates a new quote service.
func New(repo repository.Repository, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, bus: bus, logger: log}
}

// Create prices the configuration, assigns a quote number and persists the
// quote in draft status with all three installments unpaid.
func (s *Service) Create(ctx context.Context, req *transport.CreateQuoteRequest) (*transport.QuoteResponse, error) {
	quoteNumber, err := s.repo.NextQuoteNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("assign quote number: %w", err)
	}

	total := ComputeTotal(req.ProductConfiguration)
	split := ComputeInstallments(total)

	now := time.Now().UTC()
	quote := &repository.Quote{
		ID:                        uuid.New(),
		QuoteNumber:               quoteNumber,
		Status:                    string(transport.QuoteStatusDraft),
		CustomerName:              req.CustomerInfo.Name,
		CustomerEmail:             req.CustomerInfo.Email,
		CustomerPhone:             phone.NormalizeE164(req.CustomerInfo.Phone),
		CustomerAddress:           req.CustomerInfo.Address,
		CustomerPostalCode:        req.CustomerInfo.PostalCode,
		CustomerCity:              req.CustomerInfo.City,
		ProductID:                 req.ProductConfiguration.ProductID,
		ProductName:               req.ProductConfiguration.ProductName,
		ProductType:               req.ProductConfiguration.ProductType,
		ProductPriceCents:         req.ProductConfiguration.PriceCents,
		TotalPriceCents:           total,
		DepositCents:              split.DepositCents,
		InstallationPaymentCents:  split.InstallationCents,
		FinalPaymentCents:         split.FinalCents,
		DepositStatus:             transport.PaymentStateUnpaid,
		InstallationPaymentStatus: transport.PaymentStateUnpaid,
		FinalPaymentStatus:        transport.PaymentStateUnpaid,
		InstallationDate:          req.InstallationDate,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	options := buildOptions(quote.ID, req.ProductConfiguration.Options, now)
	if err := s.repo.CreateWithOptions(ctx, quote, options); err != nil {
		return nil, fmt.Errorf("create quote: %w", err)
	}

	s.publish(ctx, events.QuoteCreated{
		BaseEvent:       events.NewBaseEvent(),
		QuoteID:         quote.ID,
		QuoteNumber:     quote.QuoteNumber,
		CustomerName:    quote.CustomerName,
		CustomerEmail:   quote.CustomerEmail,
		TotalPriceCents: quote.TotalPriceCents,
	})

	return toResponse(quote, options), nil
}

// GetByID returns a quote with its selected options.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	options, err := s.repo.GetOptionsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(quote, options), nil
}

// List returns quotes matching the filters, newest first.
func (s *Service) List(ctx context.Context, req *transport.ListQuotesRequest) (*transport.QuoteListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	params := repository.ListParams{Limit: limit, Offset: offset}
	if req.Status != "" {
		if !transport.StatusMachine.Known(req.Status) {
			return nil, apperr.Validation(fmt.Sprintf("unknown status %q", req.Status))
		}
		params.Status = &req.Status
	}
	params.From = req.From
	if req.To != nil {
		// The "to" filter is inclusive of the whole day.
		end := req.To.AddDate(0, 0, 1)
		params.To = &end
	}

	quotes, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	resp := &transport.QuoteListResponse{
		Quotes: make([]transport.QuoteResponse, 0, len(quotes)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i := range quotes {
		options, err := s.repo.GetOptionsByQuoteID(ctx, quotes[i].ID)
		if err != nil {
			return nil, err
		}
		resp.Quotes = append(resp.Quotes, *toResponse(&quotes[i], options))
	}
	return resp, nil
}

// Update modifies the customer or product details of a quote that is still in
// draft or sent status. A new product configuration recomputes the pricing and
// the installment schedule.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *transport.UpdateQuoteRequest) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if transport.StatusMachine.IsTerminal(quote.Status) {
		return nil, apperr.Conflict(fmt.Sprintf("quote %s can no longer be edited", quote.QuoteNumber))
	}

	if req.CustomerInfo != nil {
		quote.CustomerName = req.CustomerInfo.Name
		quote.CustomerEmail = req.CustomerInfo.Email
		quote.CustomerPhone = phone.NormalizeE164(req.CustomerInfo.Phone)
		quote.CustomerAddress = req.CustomerInfo.Address
		quote.CustomerPostalCode = req.CustomerInfo.PostalCode
		quote.CustomerCity = req.CustomerInfo.City
	}

	var options []repository.QuoteOption
	replaceOptions := false
	if req.ProductConfiguration != nil {
		quote.ProductID = req.ProductConfiguration.ProductID
		quote.ProductName = req.ProductConfiguration.ProductName
		quote.ProductType = req.ProductConfiguration.ProductType
		quote.ProductPriceCents = req.ProductConfiguration.PriceCents

		total := ComputeTotal(req.ProductConfiguration)
		split := ComputeInstallments(total)
		quote.TotalPriceCents = total
		quote.DepositCents = split.DepositCents
		quote.InstallationPaymentCents = split.InstallationCents
		quote.FinalPaymentCents = split.FinalCents

		options = buildOptions(quote.ID, req.ProductConfiguration.Options, time.Now().UTC())
		replaceOptions = true
	}

	if req.InstallationDate != nil {
		quote.InstallationDate = req.InstallationDate
	}
	quote.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateWithOptions(ctx, quote, options, replaceOptions); err != nil {
		return nil, err
	}

	if !replaceOptions {
		options, err = s.repo.GetOptionsByQuoteID(ctx, id)
		if err != nil {
			return nil, err
		}
	}
	return toResponse(quote, options), nil
}

// ChangeStatus moves a quote through its lifecycle. Transitions are validated
// against the status machine and written with a compare-and-set so concurrent
// changes cannot skip a state.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, newStatus string) (*transport.QuoteResponse, error) {
	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := transport.StatusMachine.Transition(quote.Status, newStatus); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, quote.Status, newStatus)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apperr.Conflict("quote status changed concurrently, retry")
	}

	oldStatus := quote.Status
	quote.Status = newStatus
	quote.UpdatedAt = time.Now().UTC()

	s.publish(ctx, events.QuoteStatusChanged{
		BaseEvent:       events.NewBaseEvent(),
		QuoteID:         quote.ID,
		QuoteNumber:     quote.QuoteNumber,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
		CustomerName:    quote.CustomerName,
		CustomerEmail:   quote.CustomerEmail,
		TotalPriceCents: quote.TotalPriceCents,
	})

	options, err := s.repo.GetOptionsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(quote, options), nil
}

// UpdatePaymentStatus sets the payment state of one installment. The write is
// idempotent, so webhook retries that re-apply the same state are harmless.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, installment, status string) (*transport.QuoteResponse, error) {
	if !transport.ValidInstallment(installment) {
		return nil, apperr.Validation(fmt.Sprintf("unknown installment %q", installment))
	}
	if !transport.ValidPaymentState(status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown payment state %q", status))
	}

	quote, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePaymentStatus(ctx, id, installment, status); err != nil {
		return nil, err
	}

	setInstallmentState(quote, installment, status)
	quote.UpdatedAt = time.Now().UTC()

	s.publish(ctx, events.QuotePaymentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		QuoteID:       quote.ID,
		QuoteNumber:   quote.QuoteNumber,
		Installment:   installment,
		Status:        status,
		AmountCents:   InstallmentAmount(quote, installment),
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
	})

	options, err := s.repo.GetOptionsByQuoteID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toResponse(quote, options), nil
}

// InstallmentAmount returns the cent amount of one installment of a quote.
func InstallmentAmount(quote *repository.Quote, installment string) int64 {
	switch transport.Installment(installment) {
	case transport.InstallmentDeposit:
		return quote.DepositCents
	case transport.InstallmentInstallation:
		return quote.InstallationPaymentCents
	case transport.InstallmentFinal:
		return quote.FinalPaymentCents
	}
	return 0
}

func setInstallmentState(quote *repository.Quote, installment, status string) {
	switch transport.Installment(installment) {
	case transport.InstallmentDeposit:
		quote.DepositStatus = status
	case transport.InstallmentInstallation:
		quote.InstallationPaymentStatus = status
	case transport.InstallmentFinal:
		quote.FinalPaymentStatus = status
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, event)
}

func buildOptions(quoteID uuid.UUID, selections []transport.OptionSelection, now time.Time) []repository.QuoteOption {
	options := make([]repository.QuoteOption, 0, len(selections))
	for i, sel := range selections {
		options = append(options, repository.QuoteOption{
			ID:         uuid.New(),
			QuoteID:    quoteID,
			OptionID:   sel.OptionID,
			OptionName: sel.OptionName,
			OptionType: sel.OptionType,
			PriceCents: sel.PriceCents,
			SortOrder:  i,
			CreatedAt:  now,
		})
	}
	return options
}

func toResponse(quote *repository.Quote, options []repository.QuoteOption) *transport.QuoteResponse {
	selections := make([]transport.OptionSelection, 0, len(options))
	for _, o := range options {
		selections = append(selections, transport.OptionSelection{
			OptionID:   o.OptionID,
			OptionName: o.OptionName,
			OptionType: o.OptionType,
			PriceCents: o.PriceCents,
		})
	}

	return &transport.QuoteResponse{
		ID:          quote.ID,
		QuoteNumber: quote.QuoteNumber,
		Status:      transport.QuoteStatus(quote.Status),
		CustomerInfo: transport.CustomerInfo{
			Name:       quote.CustomerName,
			Email:      quote.CustomerEmail,
			Phone:      quote.CustomerPhone,
			Address:    quote.CustomerAddress,
			PostalCode: quote.CustomerPostalCode,
			City:       quote.CustomerCity,
		},
		ProductConfiguration: transport.ProductConfiguration{
			ProductID:   quote.ProductID,
			ProductName: quote.ProductName,
			ProductType: quote.ProductType,
			PriceCents:  quote.ProductPriceCents,
			Options:     selections,
		},
		TotalPriceCents:          quote.TotalPriceCents,
		DepositCents:             quote.DepositCents,
		InstallationPaymentCents: quote.InstallationPaymentCents,
		FinalPaymentCents:        quote.FinalPaymentCents,
		PaymentStatus: transport.PaymentStatus{
			Deposit:             quote.DepositStatus,
			InstallationPayment: quote.InstallationPaymentStatus,
			FinalPayment:        quote.FinalPaymentStatus,
		},
		InstallationDate: quote.InstallationDate,
		CreatedAt:        quote.CreatedAt,
		UpdatedAt:        quote.UpdatedAt,
	}
}
