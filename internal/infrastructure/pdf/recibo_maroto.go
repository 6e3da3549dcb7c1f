// Package pdf implementa la generación del recibo de cobranza imprimible.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Academia + contacto  │  N° Recibo + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALUMNO: Apellido, Nombre + DNI                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Valor | Importe cobrado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL COBRADO + medio de pago + observaciones              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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

	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 128, Green: 0, Blue: 64}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// AcademiaInfo datos fijos de la academia que encabezan cada recibo.
type AcademiaInfo struct {
	Nombre    string
	Direccion string
	Telefono  string
	Email     string
}

// MarotoReciboGenerator implementa cobranza.ReciboPDFGenerator usando Maroto v2.
type MarotoReciboGenerator struct {
	academia AcademiaInfo
}

// NewMarotoReciboGenerator construye el generador.
func NewMarotoReciboGenerator(academia AcademiaInfo) *MarotoReciboGenerator {
	return &MarotoReciboGenerator{academia: academia}
}

// GenerarReciboPDF genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoReciboGenerator) GenerarReciboPDF(
	_ context.Context,
	pago *entity.Pago,
	alumno entity.Alumno,
	detalles []entity.DetallePago,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+pago.NroRecibo, true).
		WithAuthor(g.academia.Nombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(pago))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(alumnoRow(alumno))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(detalles) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(pago))

	if pago.Observaciones != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Observaciones: "+pago.Observaciones, props.Text{
				Size: 8, Color: colorGray, Top: 2,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar recibo: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: academia (izq) y N° Recibo + Fecha (der).
func (g *MarotoReciboGenerator) headerRow(pago *entity.Pago) core.Row {
	fecha := pago.Fecha.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.academia.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Tel: %s   |   %s",
				nonEmpty(g.academia.Direccion, "—"),
				nonEmpty(g.academia.Telefono, "—"),
				nonEmpty(g.academia.Email, "—"),
			), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("RECIBO DE COBRANZA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(pago.NroRecibo, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// alumnoRow: datos del alumno que paga.
func alumnoRow(alumno entity.Alumno) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("ALUMNO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(alumno.NombreCompleto(), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("DNI: %s   |   Email: %s",
				nonEmpty(alumno.DNI, "—"),
				nonEmpty(alumno.Email, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles cobrados.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Concepto", 6, align.Left),
		h("Valor", 2, align.Right),
		h("Importe cobrado", 3, align.Right),
	)
}

// tableDetailRows: una fila por detalle cobrado.
func tableDetailRows(detalles []entity.DetallePago) []core.Row {
	result := make([]core.Row, 0, len(detalles))
	for _, d := range detalles {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				nonEmpty(d.Cuota, "1"),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				d.Descripcion,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(d.Valor.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+formatMoney(d.ACobrar.StringFixed(2)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalRow: total cobrado alineado a la derecha.
func totalRow(pago *entity.Pago) core.Row {
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(
			text.New("TOTAL COBRADO:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 2,
			}),
		),
		col.New(3).Add(
			text.New("$"+formatMoney(pago.Total.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 2,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en la parte entera de un string
// numérico con decimales separados por punto.
// Ej: "25000.00" → "25.000,00"
func formatMoney(s string) string {
	signo := ""
	if len(s) > 0 && s[0] == '-' {
		signo, s = "-", s[1:]
	}
	entero, dec := s, ""
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			entero, dec = s[:i], s[i+1:]
			break
		}
	}
	n := len(entero)
	buf := make([]byte, 0, n+n/3+len(dec)+1)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, entero[i])
	}
	if dec != "" {
		buf = append(buf, ',')
		buf = append(buf, dec...)
	}
	return signo + string(buf)
}
