// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/cafe-backend/internal/config"
	"github.com/your-org/cafe-backend/internal/domain/order"
)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(receiptTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	if cfg.Receipt.WkhtmltopdfBin != "" {
		wkhtmltopdf.SetPath(cfg.Receipt.WkhtmltopdfBin)
	}
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedAt      string
	CafeName      string
	Currency      string
	Order         *order.OrderSnapshot
}

// GenerateReceipt renders the order snapshot as a one-page PDF receipt
func (s *Service) GenerateReceipt(snap *order.OrderSnapshot) (*bytes.Buffer, error) {
	htmlContent, err := s.generateHTML(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA5)
	pdfg.Grayscale.Set(true)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from template
func (s *Service) generateHTML(snap *order.OrderSnapshot) (string, error) {
	data := ReceiptData{
		ReceiptNumber: fmt.Sprintf("R-%06d", snap.ID),
		IssuedAt:      snap.CreatedAt.In(time.UTC).Format("02.01.2006 15:04 MST"),
		CafeName:      s.config.Receipt.CafeName,
		Currency:      s.config.Receipt.Currency,
		Order:         snap,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: "DejaVu Sans", Arial, sans-serif; margin: 0; padding: 24px; color: #222; }
        h1 { font-size: 22px; margin: 0 0 4px 0; }
        .meta { color: #666; font-size: 12px; margin-bottom: 16px; }
        table { width: 100%; border-collapse: collapse; font-size: 13px; }
        th { text-align: left; border-bottom: 2px solid #222; padding: 6px 4px; }
        td { border-bottom: 1px dashed #bbb; padding: 6px 4px; }
        .num { text-align: right; }
        .total td { border: none; font-weight: bold; font-size: 15px; padding-top: 12px; }
        .footer { margin-top: 24px; text-align: center; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <h1>{{.CafeName}}</h1>
    <div class="meta">
        Receipt {{.ReceiptNumber}} &middot; {{.IssuedAt}}<br>
        Order #{{.Order.ID}} &middot; {{.Order.DeliveryMethodName}} &middot; {{.Order.StatusName}}
    </div>
    <table>
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Sum</th></tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">{{money .UnitPrice}}</td>
                <td class="num">{{money .LineTotal}}</td>
            </tr>
            {{end}}
            <tr class="total">
                <td colspan="3">Total</td>
                <td class="num">{{money .Order.TotalPrice}} {{.Currency}}</td>
            </tr>
        </tbody>
    </table>
    <div class="footer">Thank you for your order!</div>
</body>
</html>
`
