// Package transport defines the request/response DTOs for the catalog module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// Product is an air-conditioning unit in the catalog.
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	PowerKW     float64   `json:"powerKw"`
	EnergyClass string    `json:"energyClass"`
	PriceCents  int64     `json:"priceCents"`
	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Option is an installation option (refrigerant line sets and the like).
type Option struct {
	ID             uuid.UUID `json:"id"`
	Type           string    `json:"type"`
	Name           string    `json:"name"`
	LengthM        float64   `json:"lengthM"`
	CompatibleWith []string  `json:"compatibleWith"`
	PriceCents     int64     `json:"priceCents"`
}

// ConfigureRequest is the payload for POST /api/configure.
type ConfigureRequest struct {
	ProductID uuid.UUID   `json:"productId" validate:"required"`
	OptionIDs []uuid.UUID `json:"optionIds"`
}

// ConfigureResponse is the price preview for a configuration.
type ConfigureResponse struct {
	Product                  Product  `json:"product"`
	Options                  []Option `json:"options"`
	TotalPriceCents          int64    `json:"totalPriceCents"`
	DepositCents             int64    `json:"depositCents"`
	InstallationPaymentCents int64    `json:"installationPaymentCents"`
	FinalPaymentCents        int64    `json:"finalPaymentCents"`
}
