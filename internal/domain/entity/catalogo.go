package entity

import "github.com/shopspring/decimal"

// Concepto entrada del catálogo de conceptos cobrables (descripción + precio).
type Concepto struct {
	ID          int
	Descripcion string
	Precio      decimal.Decimal
}

// Tipos de arancel de una disciplina.
const (
	ArancelMes   = "mes"
	ArancelClase = "clase"
)

// EtiquetaArancel devuelve la etiqueta visible para el tipo de arancel.
func EtiquetaArancel(tipo string) string {
	switch tipo {
	case ArancelMes:
		return "Mes"
	case ArancelClase:
		return "Clase"
	default:
		return tipo
	}
}

// Disciplina disciplina de danza/música con sus aranceles vigentes.
type Disciplina struct {
	ID          int
	Nombre      string
	PrecioMes   decimal.Decimal
	PrecioClase decimal.Decimal
}

// PrecioArancel devuelve el precio unitario del tipo de arancel pedido.
// Un tipo desconocido devuelve cero; el caso de uso lo rechaza antes.
func (d Disciplina) PrecioArancel(tipo string) decimal.Decimal {
	switch tipo {
	case ArancelMes:
		return d.PrecioMes
	case ArancelClase:
		return d.PrecioClase
	default:
		return decimal.Zero
	}
}

// ArticuloStock artículo vendible (indumentaria, calzado, accesorios).
type ArticuloStock struct {
	ID     int
	Nombre string
	Precio decimal.Decimal
	Stock  int
}

// MedioPago medio de pago con su recargo asociado (puede ser cero).
type MedioPago struct {
	ID      int
	Nombre  string
	Recargo decimal.Decimal
}
