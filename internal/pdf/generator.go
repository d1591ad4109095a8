// Package pdf renders quote documents for download and archiving.
package pdf

import (
	"bytes"
	"context"
	"fmt"

	"climstore_backend/internal/quotes/transport"
	"climstore_backend/platform/logger"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Archiver stores rendered documents out of band. Archiving is best effort:
// the download never fails because the archive store is down.
type Archiver interface {
	Store(ctx context.Context, name string, doc []byte) error
}

// Generator renders quote PDFs.
type Generator struct {
	baseURL  string
	archiver Archiver
	logger   *logger.Logger
}

// NewGenerator creates a quote PDF generator. The archiver may be nil.
func NewGenerator(baseURL string, archiver Archiver, log *logger.Logger) *Generator {
	return &Generator{baseURL: baseURL, archiver: archiver, logger: log}
}

// Render produces the PDF for a quote: customer block, configuration lines,
// the three-installment schedule and a QR code pointing at the payment page.
func (g *Generator) Render(ctx context.Context, quote *transport.QuoteResponse) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	tr := doc.UnicodeTranslatorFromDescriptor("")
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(120, 10, tr("Devis "+quote.QuoteNumber))
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 10, quote.CreatedAt.Format("02/01/2006"), "", 1, "R", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, tr("Client"), "", 1, "", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	customer := quote.CustomerInfo
	for _, line := range []string{
		customer.Name,
		customer.Address,
		fmt.Sprintf("%s %s", customer.PostalCode, customer.City),
		customer.Email,
		customer.Phone,
	} {
		if line == "" || line == " " {
			continue
		}
		doc.CellFormat(0, 5, tr(line), "", 1, "", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(130, 7, tr("Désignation"), "B", 0, "", false, 0, "")
	doc.CellFormat(0, 7, tr("Prix"), "B", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 10)

	cfg := quote.ProductConfiguration
	doc.CellFormat(130, 6, tr(cfg.ProductName), "", 0, "", false, 0, "")
	doc.CellFormat(0, 6, euros(cfg.PriceCents), "", 1, "R", false, 0, "")
	for _, opt := range cfg.Options {
		doc.CellFormat(130, 6, tr("  "+opt.OptionName), "", 0, "", false, 0, "")
		doc.CellFormat(0, 6, euros(opt.PriceCents), "", 1, "R", false, 0, "")
	}

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(130, 8, tr("Total TTC"), "T", 0, "", false, 0, "")
	doc.CellFormat(0, 8, euros(quote.TotalPriceCents), "T", 1, "R", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, tr("Échéancier de règlement"), "", 1, "", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	schedule := []struct {
		label string
		cents int64
	}{
		{"Acompte à la commande (40 %)", quote.DepositCents},
		{"À l'installation (30 %)", quote.InstallationPaymentCents},
		{"Solde à la mise en service (30 %)", quote.FinalPaymentCents},
	}
	for _, row := range schedule {
		doc.CellFormat(130, 6, tr(row.label), "", 0, "", false, 0, "")
		doc.CellFormat(0, 6, euros(row.cents), "", 1, "R", false, 0, "")
	}

	if err := g.addPaymentQR(doc, quote); err != nil {
		// The document is still valid without the QR code.
		g.logger.Error("payment QR generation failed", "quote_id", quote.ID, "error", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote pdf: %w", err)
	}
	rendered := buf.Bytes()

	if g.archiver != nil {
		name := fmt.Sprintf("%s.pdf", quote.QuoteNumber)
		if err := g.archiver.Store(ctx, name, rendered); err != nil {
			g.logger.Error("archive quote pdf failed", "quote_id", quote.ID, "error", err)
		}
	}

	return rendered, nil
}

func (g *Generator) addPaymentQR(doc *gofpdf.Fpdf, quote *transport.QuoteResponse) error {
	paymentURL := fmt.Sprintf("%s/payment/%s", g.baseURL, quote.ID)
	png, err := qrcode.Encode(paymentURL, qrcode.Medium, 256)
	if err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader("payment-qr", opts, bytes.NewReader(png))

	doc.Ln(8)
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 5, doc.UnicodeTranslatorFromDescriptor("")("Régler l'acompte en ligne :"), "", 1, "", false, 0, "")
	doc.ImageOptions("payment-qr", doc.GetX(), doc.GetY(), 30, 30, false, opts, 0, "")
	return doc.Error()
}

func euros(cents int64) string {
	return fmt.Sprintf("%d,%02d EUR", cents/100, cents%100)
}
