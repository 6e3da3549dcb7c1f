package cobranza

import (
	"github.com/shopspring/decimal"

	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// Totales importes derivados del detalle de una cobranza.
type Totales struct {
	Pendiente decimal.Decimal // Σ pendiente + recargo del medio de pago (si aplica)
	ACobrar   decimal.Decimal // Σ a cobrar; el recargo no entra en esta suma
}

// Igual compara ambos importes con decimal.Equal.
func (t Totales) Igual(otro Totales) bool {
	return t.Pendiente.Equal(otro.Pendiente) && t.ACobrar.Equal(otro.ACobrar)
}

// CalcularTotales recomputa los dos totales del formulario. El recargo se
// suma al total pendiente solo si aplicarRecargo es true (el caller pasa el
// recargo del medio de pago elegido, o cero si no hay medio seleccionado).
// El recargo es informativo sobre el pendiente: nunca se suma al a-cobrar.
func CalcularTotales(items []entity.DetallePago, recargo decimal.Decimal, aplicarRecargo bool) Totales {
	var t Totales
	for _, d := range items {
		t.Pendiente = t.Pendiente.Add(d.Pendiente)
		t.ACobrar = t.ACobrar.Add(d.ACobrar)
	}
	if aplicarRecargo {
		t.Pendiente = t.Pendiente.Add(recargo)
	}
	return t
}
