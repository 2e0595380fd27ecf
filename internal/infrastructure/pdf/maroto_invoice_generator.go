// Package pdf renders the printable sales invoice.
//
// A4 page layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Mill name + GST  │  Invoice No + Date/Time          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MILL: Address / Phone / Email                               │
//	│  BILL TO: Customer name + address + phone                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLE: Qty (kg) | Product | Price/kg | Line Total           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALS: Subtotal / Discount / GST / TOTAL DUE               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Payment status + terms + prepared by                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/kmgmill/ricemill-api/internal/application/billing"
	"github.com/kmgmill/ricemill-api/internal/domain/entity"
)

// ── Color palette ─────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 27, Green: 94, Blue: 32}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ billing.InvoicePDFGenerator = (*MarotoInvoiceGenerator)(nil)

// MarotoInvoiceGenerator renders invoices with Maroto v2.
type MarotoInvoiceGenerator struct {
	currency string
}

func NewMarotoInvoiceGenerator(currency string) *MarotoInvoiceGenerator {
	if currency == "" {
		currency = "LKR"
	}
	return &MarotoInvoiceGenerator{currency: currency}
}

// Generate renders the invoice and returns the PDF bytes.
func (g *MarotoInvoiceGenerator) Generate(inv *entity.Invoice) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(inv.MillDetails.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.millRow(inv.MillDetails))
	m.AddRows(g.billToRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.itemRows(inv.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range g.footerRows(inv) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Sections ──────────────────────────────────────────────────────────────────

// headerRow: mill name + GST (left), invoice number + date (right).
func (g *MarotoInvoiceGenerator) headerRow(inv *entity.Invoice) core.Row {
	date := inv.InvoiceDate.Format("02/01/2006")
	if inv.InvoiceTime != "" {
		date += " " + inv.InvoiceTime
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(inv.MillDetails.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("GST: "+nonEmpty(inv.MillDetails.GST, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("SALES INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoInvoiceGenerator) millRow(d entity.MillDetails) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("FROM", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Address: %s   |   Phone: %s   |   Email: %s",
				nonEmpty(d.Address, "—"),
				nonEmpty(d.Phone, "—"),
				nonEmpty(d.Email, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func (g *MarotoInvoiceGenerator) billToRow(inv *entity.Invoice) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.CustomerName, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Address: %s   |   Phone: %s   |   Order: %s",
				nonEmpty(inv.CustomerAddress, "—"),
				nonEmpty(inv.CustomerPhone, "—"),
				nonEmpty(inv.OrderNumber, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty (kg)", 2, align.Center),
		h("Product", 5, align.Left),
		h("Price/kg", 2, align.Right),
		h("Line Total", 3, align.Right),
	)
}

func (g *MarotoInvoiceGenerator) itemRows(items []entity.OrderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				it.QtyKg.StringFixed(2),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				it.TotalPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: discount and tax lines only appear when nonzero.
func (g *MarotoInvoiceGenerator) totalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	labels := []core.Component{label("Subtotal:")}
	values := []core.Component{value(g.money(inv.Subtotal.StringFixed(2)))}
	if !inv.DiscountAmount.IsZero() {
		labels = append(labels, label(fmt.Sprintf("Discount (%s%%):", inv.DiscountPercent.StringFixed(1))))
		values = append(values, value("-"+g.money(inv.DiscountAmount.StringFixed(2))))
	}
	if !inv.TaxAmount.IsZero() {
		labels = append(labels, label(fmt.Sprintf("GST (%s%%):", inv.TaxPercent.StringFixed(1))))
		values = append(values, value(g.money(inv.TaxAmount.StringFixed(2))))
	}
	labels = append(labels, text.New("TOTAL DUE:", props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 2,
	}))
	values = append(values, text.New(g.money(inv.TotalAmount.StringFixed(2)), props.Text{
		Style: fontstyle.Bold, Size: 10, Align: align.Right,
		Color: colorPrimary, Right: 1,
	}))

	return row.New(30).Add(
		col.New(4),
		col.New(4).Add(labels...),
		col.New(4).Add(values...),
	)
}

func (g *MarotoInvoiceGenerator) footerRows(inv *entity.Invoice) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Payment status: %s   |   Paid: %s   |   Outstanding: %s",
				string(inv.PaymentStatus),
				g.money(inv.AmountPaid().StringFixed(2)),
				g.money(inv.Outstanding().StringFixed(2)),
			), props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Color: colorPrimary}),
		)),
	}

	if inv.PaymentTerms != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Terms: "+inv.PaymentTerms, props.Text{Size: 7.5, Top: 1, Color: colorGray}),
		)))
	}
	if inv.Notes != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Notes: "+inv.Notes, props.Text{Size: 7.5, Top: 1, Color: colorGray}),
		)))
	}

	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Prepared by: %s   |   Due date: %s",
			nonEmpty(inv.PreparedByName, "—"),
			inv.DueDate.Format("02/01/2006"),
		), props.Text{Size: 7.5, Top: 2, Color: colorGray}),
	)))

	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func (g *MarotoInvoiceGenerator) money(s string) string {
	return g.currency + " " + s
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
