package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeArchiver struct {
	stored map[string][]byte
	fail   bool
}

func (f *fakeArchiver) Store(ctx context.Context, name string, doc []byte) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	if f.stored == nil {
		f.stored = make(map[string][]byte)
	}
	f.stored[name] = doc
	return nil
}

func sampleQuote() *transport.QuoteResponse {
	return &transport.QuoteResponse{
		ID:          uuid.New(),
		QuoteNumber: "DEV-2026-0042",
		Status:      transport.QuoteStatusSent,
		CustomerInfo: transport.CustomerInfo{
			Name:       "Marie Dubois",
			Email:      "marie@example.fr",
			Address:    "12 rue des Lilas",
			PostalCode: "75011",
			City:       "Paris",
		},
		ProductConfiguration: transport.ProductConfiguration{
			ProductID:   "clim-5kw",
			ProductName: "Climatiseur réversible 5kW",
			PriceCents:  89900,
			Options: []transport.OptionSelection{
				{OptionID: "wifi", OptionName: "Module WiFi", PriceCents: 9900},
			},
		},
		TotalPriceCents:          99800,
		DepositCents:             39920,
		InstallationPaymentCents: 29940,
		FinalPaymentCents:        29940,
		CreatedAt:                time.Now().UTC(),
		UpdatedAt:                time.Now().UTC(),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	gen := NewGenerator("https://climstore.example", nil, logger.New("test"))

	doc, err := gen.Render(context.Background(), sampleQuote())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF: %q", doc[:8])
	}
}

func TestRenderArchives(t *testing.T) {
	archiver := &fakeArchiver{}
	gen := NewGenerator("https://climstore.example", archiver, logger.New("test"))

	if _, err := gen.Render(context.Background(), sampleQuote()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := archiver.stored["DEV-2026-0042.pdf"]; !ok {
		t.Errorf("document not archived, stored = %v", len(archiver.stored))
	}
}

func TestRenderSurvivesArchiveFailure(t *testing.T) {
	gen := NewGenerator("https://climstore.example", &fakeArchiver{fail: true}, logger.New("test"))

	doc, err := gen.Render(context.Background(), sampleQuote())
	if err != nil {
		t.Fatalf("Render with failing archiver: %v", err)
	}
	if len(doc) == 0 {
		t.Error("empty document")
	}
}
