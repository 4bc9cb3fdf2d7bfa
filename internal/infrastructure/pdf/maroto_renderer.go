// Package pdf exporta la ficha de stock y el inventario de material a PDF (Maroto v2).
//
// Layout A4 común:
//
//	┌─────────────────────────────────────────────────────┐
//	│  TÍTULO                          │  Fecha de edición │
//	│  Cabecera (consumible / servicio, clase, año)        │
//	│  ──────────────────────────────────────────────────  │
//	│  TABLA                                                │
//	│  ──────────────────────────────────────────────────  │
//	│  TOTALES (inventario)                                 │
//	└─────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Materiel-api/internal/application/dto"
	"github.com/jhoicas/Materiel-api/internal/application/reporting"
	"github.com/jhoicas/Materiel-api/internal/domain/entity"
)

var _ reporting.PDFRenderer = (*MarotoRenderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorLight   = &props.Color{Red: 230, Green: 236, Blue: 243}
)

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoRenderer implementa reporting.PDFRenderer.
type MarotoRenderer struct {
	author string
	now    func() time.Time
}

// NewMarotoRenderer construye el renderer; author va en los metadatos del PDF.
func NewMarotoRenderer(author string) *MarotoRenderer {
	return &MarotoRenderer{author: author, now: time.Now}
}

func (g *MarotoRenderer) newDocument(title string, landscape bool) core.Maroto {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(g.author, true)
	if landscape {
		b = b.WithOrientation(orientation.Horizontal)
	}
	return maroto.New(b.Build())
}

func generate(m core.Maroto, what string) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar %s: %w", what, err)
	}
	return doc.GetBytes(), nil
}

// StockTracePDF ficha de stock: cabecera del consumible y movimientos con saldo corrido.
func (g *MarotoRenderer) StockTracePDF(trace *dto.StockTraceDTO) ([]byte, error) {
	m := g.newDocument("Fiche de stock", false)

	m.AddRows(titleRow("FICHE DE STOCK", g.now()))
	m.AddRows(infoRow(
		"Consommable : "+trace.Header.Name,
		"Unité : "+nonEmpty(trace.Header.Unit, "-"),
		"Classe : "+trace.Header.Class,
		"Stock initial : "+strconv.Itoa(trace.Opening),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(headerRow([]cell{
		{"Date", 2, align.Left},
		{"Service", 4, align.Left},
		{"Existants", 1, align.Right},
		{"Entrées", 2, align.Right},
		{"Sorties", 2, align.Right},
		{"Restes", 1, align.Right},
	}))
	for _, r := range trace.Rows {
		m.AddRows(bodyRow([]cell{
			{r.Date.Format("02/01/2006"), 2, align.Left},
			{r.Service, 4, align.Left},
			{formatQty(r.Existing), 1, align.Right},
			{blankZero(r.Entries), 2, align.Right},
			{blankZero(r.Exits), 2, align.Right},
			{formatQty(r.Balance), 1, align.Right},
		}))
	}
	if len(trace.Rows) == 0 {
		m.AddRows(emptyRow("Aucun mouvement"))
	}
	return generate(m, "fiche de stock")
}

// InventoryPDF inventario de material de un servicio: una columna por estado más TOTAL.
func (g *MarotoRenderer) InventoryPDF(inv *dto.InventoryDTO) ([]byte, error) {
	m := g.newDocument(inv.Header.Title, true)

	m.AddRows(titleRow(inv.Header.Title, g.now()))
	m.AddRows(infoRow(
		"Service : "+inv.Header.Service,
		"Classe : "+inv.Header.Class,
		"Année : "+inv.Header.Year,
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	head := []cell{{"Désignation", 3, align.Left}, {"Classe", 2, align.Left}}
	for _, c := range entity.Conditions {
		head = append(head, cell{string(c), 1, align.Center})
	}
	head = append(head, cell{"TOTAL", 2, align.Right})
	m.AddRows(headerRow(head))

	for _, it := range inv.Items {
		cells := []cell{{it.Designation, 3, align.Left}, {it.Class, 2, align.Left}}
		for _, c := range entity.Conditions {
			cells = append(cells, cell{formatQty(it.Conditions[string(c)]), 1, align.Center})
		}
		cells = append(cells, cell{formatQty(it.Total), 2, align.Right})
		m.AddRows(bodyRow(cells))
	}
	if len(inv.Items) == 0 {
		m.AddRows(emptyRow("Aucun lot pour ce service"))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	totals := []cell{{"TOTAL", 5, align.Left}}
	for _, c := range entity.Conditions {
		totals = append(totals, cell{formatQty(inv.Totals[string(c)]), 1, align.Center})
	}
	totals = append(totals, cell{formatQty(inv.Totals["TOTAL"]), 2, align.Right})
	m.AddRows(totalRow(totals))

	return generate(m, "inventaire")
}

// ── Secciones ─────────────────────────────────────────────────────────────────

type cell struct {
	value string
	size  int
	align align.Type
}

func titleRow(title string, now time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Édité le "+now.Format("02/01/2006"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 4,
		})),
	)
}

func infoRow(parts ...string) core.Row {
	r := row.New(8)
	size := 12 / len(parts)
	for _, p := range parts {
		r.Add(col.New(size).Add(text.New(p, props.Text{Size: 9, Top: 1})))
	}
	return r
}

func headerRow(cells []cell) core.Row {
	r := row.New(8).WithStyle(&props.Cell{BackgroundColor: colorLight})
	for _, c := range cells {
		r.Add(col.New(c.size).Add(text.New(c.value, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func bodyRow(cells []cell) core.Row {
	r := row.New(6)
	for _, c := range cells {
		r.Add(col.New(c.size).Add(text.New(c.value, props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return r
}

func totalRow(cells []cell) core.Row {
	r := row.New(8)
	for _, c := range cells {
		r.Add(col.New(c.size).Add(text.New(c.value, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: c.align, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return r
}

func emptyRow(msg string) core.Row {
	return row.New(10).Add(col.New(12).Add(text.New(msg, props.Text{
		Size: 8, Align: align.Center, Color: colorGray, Top: 3,
	})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func blankZero(n int) string {
	if n == 0 {
		return ""
	}
	return formatQty(n)
}

// formatQty separa miles con espacio: 1500 → "1 500", -2000 → "-2 000".
func formatQty(n int) string {
	s := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
