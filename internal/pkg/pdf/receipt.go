// internal/pkg/pdf/receipt.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/pokemart/storefront/internal/domain/order"
)

// Generator renders order receipts as PDF
type Generator struct {
	appName string
}

// NewGenerator creates a new PDF generator
func NewGenerator(appName string) *Generator {
	return &Generator{appName: appName}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 40px; color: #222; }
h1 { font-size: 22px; }
table { width: 100%; border-collapse: collapse; margin-top: 20px; }
th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
.total { font-weight: bold; font-size: 16px; }
.meta { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h1>{{.AppName}} - Receipt</h1>
<p class="meta">Order #{{.OrderID}} &middot; {{.Date}} &middot; Status: {{.Status}}</p>
<table>
<tr><th>Item</th><th>Qty</th><th>Unit</th><th>Amount</th></tr>
{{range .Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "$%.2f" .UnitPrice}}</td><td>{{printf "$%.2f" .Amount}}</td></tr>
{{end}}
<tr><td colspan="3" class="total">Total</td><td class="total">{{printf "$%.2f" .Total}}</td></tr>
</table>
</body>
</html>
`))

type receiptData struct {
	AppName string
	OrderID uint
	Date    string
	Status  string
	Items   []receiptItem
	Total   float64
}

type receiptItem struct {
	Name      string
	Quantity  int
	UnitPrice float64
	Amount    float64
}

// GenerateReceipt renders a PDF receipt for an order with its items loaded
func (g *Generator) GenerateReceipt(o *order.Order) ([]byte, error) {
	data := receiptData{
		AppName: g.appName,
		OrderID: o.ID,
		Date:    o.CreatedAt.Format(time.DateOnly),
		Status:  o.Status,
		Total:   float64(o.TotalAmount) / 100,
	}
	for _, item := range o.Items {
		data.Items = append(data.Items, receiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Amount:    float64(item.UnitPrice*int64(item.Quantity)) / 100,
		})
	}

	var html bytes.Buffer
	if err := receiptTemplate.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to render receipt template: %w", err)
	}

	generator, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	page := wkhtmltopdf.NewPageReader(bytes.NewReader(html.Bytes()))
	page.EnableLocalFileAccess.Set(false)
	generator.AddPage(page)
	generator.PageSize.Set(wkhtmltopdf.PageSizeA4)

	if err := generator.Create(); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return generator.Bytes(), nil
}
