package cobranza_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ncastellano/cobranza-api/internal/domain/cobranza"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// Propiedad 5: ejemplo concreto del diseño. Detalles 1000/1000 y 500/300,
// recargo del medio de pago 50 aplicado => pendiente 1550, a cobrar 1300.
func TestCalcularTotales_EjemploConRecargo(t *testing.T) {
	items := []entity.DetallePago{
		{Pendiente: d(1000), ACobrar: d(1000)},
		{Pendiente: d(500), ACobrar: d(300)},
	}

	tot := cobranza.CalcularTotales(items, d(50), true)
	assert.True(t, tot.Pendiente.Equal(d(1550)), "1000 + 500 + 50")
	assert.True(t, tot.ACobrar.Equal(d(1300)), "1000 + 300; el recargo no suma acá")
}

func TestCalcularTotales_SinRecargo(t *testing.T) {
	items := []entity.DetallePago{
		{Pendiente: d(1000), ACobrar: d(1000)},
		{Pendiente: d(500), ACobrar: d(300)},
	}

	tot := cobranza.CalcularTotales(items, d(50), false)
	assert.True(t, tot.Pendiente.Equal(d(1500)), "recargo no aplicado")
	assert.True(t, tot.ACobrar.Equal(d(1300)))
}

func TestCalcularTotales_ListaVacia(t *testing.T) {
	tot := cobranza.CalcularTotales(nil, decimal.Zero, false)
	assert.True(t, tot.Pendiente.IsZero())
	assert.True(t, tot.ACobrar.IsZero())
}

// Igual permite al caller saltear escrituras cuando el recálculo no cambió nada.
func TestTotales_Igual(t *testing.T) {
	a := cobranza.Totales{Pendiente: d(100), ACobrar: d(50)}
	b := cobranza.Totales{Pendiente: decimal.NewFromFloat(100.00), ACobrar: d(50)}
	c := cobranza.Totales{Pendiente: d(101), ACobrar: d(50)}

	assert.True(t, a.Igual(b), "comparación por valor, no por representación")
	assert.False(t, a.Igual(c))
}

// La huella cambia con el saldo y es estable para el mismo snapshot.
func TestHuellaDeuda_EstableYSensible(t *testing.T) {
	snap := &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, Descripcion: "Folklore", Saldo: d(1500)},
	}}

	assert.Equal(t, cobranza.HuellaDeuda(snap), cobranza.HuellaDeuda(snap))
	assert.Empty(t, cobranza.HuellaDeuda(nil))

	otro := &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, Descripcion: "Folklore", Saldo: d(900)},
	}}
	assert.NotEqual(t, cobranza.HuellaDeuda(snap), cobranza.HuellaDeuda(otro))
}
