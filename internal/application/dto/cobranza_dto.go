package dto

import "github.com/shopspring/decimal"

// AbrirCobranzaRequest body para POST /api/cobranzas.
type AbrirCobranzaRequest struct {
	AlumnoID    int `json:"alumno_id"`
	MedioPagoID int `json:"medio_pago_id,omitempty"` // opcional, puede elegirse después
}

// ArancelSeleccion selección de un arancel de disciplina para alta manual.
type ArancelSeleccion struct {
	DisciplinaID int    `json:"disciplina_id"`
	Tipo         string `json:"tipo"` // "mes" | "clase"
	Periodo      string `json:"periodo"`
	Cantidad     int    `json:"cantidad,omitempty"` // default 1
}

// ArticuloSeleccion selección de un artículo de stock para alta manual.
type ArticuloSeleccion struct {
	ArticuloID int `json:"articulo_id"`
	Cantidad   int `json:"cantidad,omitempty"` // default 1
}

// AgregarDetalleRequest body para POST /api/cobranzas/:id/detalles.
// Cada selección poblada agrega un detalle; sin ninguna, la petición es inválida.
type AgregarDetalleRequest struct {
	ConceptoID *int               `json:"concepto_id,omitempty"`
	Arancel    *ArancelSeleccion  `json:"arancel,omitempty"`
	Articulo   *ArticuloSeleccion `json:"articulo,omitempty"`
}

// EditarImporteRequest body para PUT /api/cobranzas/:id/detalles/:idx.
type EditarImporteRequest struct {
	ACobrar decimal.Decimal `json:"a_cobrar"`
}

// ElegirMedioPagoRequest body para PUT /api/cobranzas/:id/medio-pago.
type ElegirMedioPagoRequest struct {
	MedioPagoID int `json:"medio_pago_id"`
}

// RegistrarPagoRequest body para POST /api/cobranzas/:id/pago.
type RegistrarPagoRequest struct {
	MedioPagoID   int    `json:"medio_pago_id,omitempty"` // si va vacío se usa el de la cabecera
	Observaciones string `json:"observaciones,omitempty"`
}

// DetalleResponse línea de detalle en las respuestas de sesión.
type DetalleResponse struct {
	Indice         int             `json:"indice"`
	ID             int             `json:"id,omitempty"`
	Procedencia    string          `json:"procedencia"`
	ConceptoID     int             `json:"concepto_id,omitempty"`
	Descripcion    string          `json:"descripcion"`
	Cuota          string          `json:"cuota,omitempty"`
	Valor          decimal.Decimal `json:"valor"`
	Pendiente      decimal.Decimal `json:"pendiente"`
	ACobrar        decimal.Decimal `json:"a_cobrar"`
	Pagado         bool            `json:"pagado"`
	EditadoUsuario bool            `json:"editado_usuario,omitempty"`
	MensualidadID  int             `json:"mensualidad_id,omitempty"`
	MatriculaID    int             `json:"matricula_id,omitempty"`
	ArticuloID     int             `json:"articulo_id,omitempty"`
	PagoID         int             `json:"pago_id,omitempty"`
}

// SesionResponse estado de la sesión para GET /api/cobranzas/:id y las
// respuestas de toda mutación.
type SesionResponse struct {
	ID             string            `json:"id"`
	AlumnoID       int               `json:"alumno_id"`
	Alumno         string            `json:"alumno"`
	Detalles       []DetalleResponse `json:"detalles"`
	TotalPendiente decimal.Decimal   `json:"total_pendiente"`
	TotalACobrar   decimal.Decimal   `json:"total_a_cobrar"`
	MedioPagoID    int               `json:"medio_pago_id,omitempty"`
	AplicarRecargo bool              `json:"aplicar_recargo"`
	NroRecibo      string            `json:"nro_recibo,omitempty"`
	PagoID         int               `json:"pago_id,omitempty"`
	Advertencias   []string          `json:"advertencias,omitempty"`
}
