package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"bawabati-api/internal/models"

	"github.com/rs/zerolog"
)

// PriceFormatter renders a monetary amount in a currency. Satisfied by
// CurrencyService.
type PriceFormatter interface {
	FormatPrice(ctx context.Context, amount float64, code string) string
}

type InvoiceService struct {
	formatter PriceFormatter
	logger    zerolog.Logger
	tmpl      *template.Template
}

func NewInvoiceService(formatter PriceFormatter, logger zerolog.Logger) *InvoiceService {
	return &InvoiceService{
		formatter: formatter,
		logger:    logger,
		tmpl:      template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

type invoiceView struct {
	Order    models.Order
	Items    []invoiceItemView
	Customer models.InvoiceParty
	Vendor   models.InvoiceParty
	Driver   *models.InvoiceParty
	Subtotal string
	Delivery string
	Tax      string
	Discount string
	Total    string
	Date     string
}

type invoiceItemView struct {
	ProductName string
	Quantity    int
	UnitPrice   string
	Total       string
}

// Render produces the printable bilingual invoice document.
func (s *InvoiceService) Render(ctx context.Context, data *models.InvoiceData) ([]byte, error) {
	code := data.Order.CurrencyCode

	view := invoiceView{
		Order:    data.Order,
		Customer: data.Customer,
		Vendor:   data.Vendor,
		Driver:   data.Driver,
		Subtotal: s.formatter.FormatPrice(ctx, data.Order.Subtotal, code),
		Delivery: s.formatter.FormatPrice(ctx, data.Order.DeliveryFee, code),
		Tax:      s.formatter.FormatPrice(ctx, data.Order.Tax, code),
		Discount: s.formatter.FormatPrice(ctx, data.Order.Discount, code),
		Total:    s.formatter.FormatPrice(ctx, data.Order.Total, code),
		Date:     data.Order.CreatedAt.Format("2006-01-02 15:04"),
	}

	for _, item := range data.Items {
		view.Items = append(view.Items, invoiceItemView{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   s.formatter.FormatPrice(ctx, item.UnitPrice, code),
			Total:       s.formatter.FormatPrice(ctx, item.Total, code),
		})
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, view); err != nil {
		s.logger.Error().Err(err).Int("order_id", data.Order.ID).Msg("Error rendering invoice")
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}

	return buf.Bytes(), nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html lang="ar" dir="rtl">
<head>
<meta charset="utf-8">
<title>فاتورة #{{.Order.ID}} — Invoice</title>
<style>
body { font-family: "Segoe UI", Tahoma, sans-serif; margin: 2rem; color: #222; }
.header { display: flex; justify-content: space-between; border-bottom: 2px solid #0a7d4f; padding-bottom: 1rem; }
.brand { font-size: 1.6rem; font-weight: bold; color: #0a7d4f; }
.parties { display: flex; gap: 2rem; margin: 1.5rem 0; }
.party { flex: 1; }
.party h3 { margin-bottom: .25rem; font-size: .95rem; color: #555; }
table { width: 100%; border-collapse: collapse; margin-top: 1rem; }
th, td { padding: .5rem .75rem; border-bottom: 1px solid #ddd; text-align: right; }
th { background: #f4f7f5; }
.totals { margin-top: 1rem; width: 40%; margin-right: auto; }
.totals td { border: none; }
.totals .grand td { font-weight: bold; border-top: 2px solid #0a7d4f; }
.footer { margin-top: 2rem; font-size: .85rem; color: #777; text-align: center; }
</style>
</head>
<body>
<div class="header">
	<div class="brand">بوابتي — Bawabati</div>
	<div>
		<div>فاتورة / Invoice #{{.Order.ID}}</div>
		<div>{{.Date}}</div>
		<div>الحالة / Status: {{.Order.Status}}</div>
	</div>
</div>
<div class="parties">
	<div class="party">
		<h3>العميل / Customer</h3>
		<div>{{.Customer.FullName}}</div>
		<div>{{.Customer.Email}}</div>
		{{if .Order.DeliveryAddress}}<div>{{.Order.DeliveryAddress}}</div>{{end}}
	</div>
	<div class="party">
		<h3>البائع / Vendor</h3>
		<div>{{.Vendor.FullName}}</div>
		<div>{{.Vendor.Email}}</div>
	</div>
	{{if .Driver}}
	<div class="party">
		<h3>السائق / Driver</h3>
		<div>{{.Driver.FullName}}</div>
		<div>{{.Driver.Email}}</div>
	</div>
	{{end}}
</div>
<table>
	<thead>
		<tr><th>المنتج / Item</th><th>الكمية / Qty</th><th>السعر / Price</th><th>الإجمالي / Total</th></tr>
	</thead>
	<tbody>
	{{range .Items}}
		<tr><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Total}}</td></tr>
	{{end}}
	</tbody>
</table>
<table class="totals">
	<tr><td>المجموع الفرعي / Subtotal</td><td>{{.Subtotal}}</td></tr>
	<tr><td>رسوم التوصيل / Delivery</td><td>{{.Delivery}}</td></tr>
	<tr><td>الضريبة / Tax</td><td>{{.Tax}}</td></tr>
	<tr><td>الخصم / Discount</td><td>{{.Discount}}</td></tr>
	<tr class="grand"><td>الإجمالي / Total</td><td>{{.Total}}</td></tr>
</table>
<div class="footer">شكراً لتسوقكم معنا — Thank you for shopping with us</div>
</body>
</html>
`
