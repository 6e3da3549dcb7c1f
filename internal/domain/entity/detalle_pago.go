package entity

import "github.com/shopspring/decimal"

// Procedencia indica el origen de un detalle de pago. Determina si el
// reconciliador de deuda puede reemplazarlo o eliminarlo.
type Procedencia string

const (
	// ProcAutoMensualidad detalle generado desde el reporte de mensualidades impagas.
	ProcAutoMensualidad Procedencia = "AUTO_MENSUALIDAD"
	// ProcAutoMatricula detalle sintetizado por matrícula impaga.
	ProcAutoMatricula Procedencia = "AUTO_MATRICULA"
	// ProcManualConcepto detalle agregado por el usuario desde el catálogo de conceptos.
	ProcManualConcepto Procedencia = "MANUAL_CONCEPTO"
	// ProcManualArancel detalle agregado por el usuario desde un arancel de disciplina.
	ProcManualArancel Procedencia = "MANUAL_ARANCEL"
	// ProcManualStock detalle agregado por el usuario desde un artículo de stock.
	ProcManualStock Procedencia = "MANUAL_STOCK"
	// ProcAutoDeuda detalle traído del snapshot de deuda sin referencia a
	// mensualidad ni matrícula (conceptos o stock ya persistidos en el backend).
	ProcAutoDeuda Procedencia = "AUTO_DEUDA"
)

// EsManual indica si el detalle fue agregado por el usuario.
func (p Procedencia) EsManual() bool {
	return p == ProcManualConcepto || p == ProcManualArancel || p == ProcManualStock
}

// DetallePago es una línea cobrable dentro de una cobranza.
//
// ID es la identidad asignada por el backend una vez persistido; cero para
// líneas que solo existen en la sesión. MensualidadID, MatriculaID, ArticuloID
// y PagoID son referencias excluyentes: a lo sumo una poblada por línea.
type DetallePago struct {
	ID             int
	Procedencia    Procedencia
	ConceptoID     int    // 0 = sin concepto asociado
	Descripcion    string
	Cuota          string // cantidad o número de cuota, solo display
	Valor          decimal.Decimal // valor nominal antes de bonificación/recargo
	BonificacionID int
	RecargoID      int
	Pendiente      decimal.Decimal // saldo pendiente informado por el backend
	ACobrar        decimal.Decimal // importe a cobrar ahora, editable por el usuario
	Pagado         bool
	EditadoUsuario bool // ACobrar fue modificado a mano; la re-sincronización no lo pisa
	MensualidadID  int
	MatriculaID    int
	ArticuloID     int
	PagoID         int
}

// MismoConcepto indica si dos detalles chocan según la clave de
// de-duplicación (ConceptoID, Descripcion).
func (d DetallePago) MismoConcepto(otro DetallePago) bool {
	if d.ConceptoID != 0 && d.ConceptoID == otro.ConceptoID {
		return true
	}
	return d.Descripcion == otro.Descripcion
}

// Igual compara todos los campos del detalle. Los importes se comparan con
// decimal.Equal para no depender de la representación interna.
func (d DetallePago) Igual(otro DetallePago) bool {
	return d.ID == otro.ID &&
		d.Procedencia == otro.Procedencia &&
		d.ConceptoID == otro.ConceptoID &&
		d.Descripcion == otro.Descripcion &&
		d.Cuota == otro.Cuota &&
		d.Valor.Equal(otro.Valor) &&
		d.BonificacionID == otro.BonificacionID &&
		d.RecargoID == otro.RecargoID &&
		d.Pendiente.Equal(otro.Pendiente) &&
		d.ACobrar.Equal(otro.ACobrar) &&
		d.Pagado == otro.Pagado &&
		d.EditadoUsuario == otro.EditadoUsuario &&
		d.MensualidadID == otro.MensualidadID &&
		d.MatriculaID == otro.MatriculaID &&
		d.ArticuloID == otro.ArticuloID &&
		d.PagoID == otro.PagoID
}
