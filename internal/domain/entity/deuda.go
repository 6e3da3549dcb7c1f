package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DetalleDeuda línea de deuda pendiente informada por el backend para un alumno.
// Es la forma "server" de un DetallePago todavía no saldado.
type DetalleDeuda struct {
	ID             int // id persistido del detalle
	ConceptoID     int
	Descripcion    string
	Cuota          string
	Valor          decimal.Decimal
	BonificacionID int
	RecargoID      int
	Saldo          decimal.Decimal // importe pendiente, autoritativo
	Pagado         bool
	MensualidadID  int
	MatriculaID    int
	ArticuloID     int
	PagoID         int
}

// DeudaSnapshot fotografía completa de la deuda pendiente de un alumno.
// El reconciliador trabaja siempre sobre un snapshot ya resuelto, nunca
// sobre pedidos en vuelo.
type DeudaSnapshot struct {
	AlumnoID int
	Detalles []DetalleDeuda
}

// ReporteMensualidad fila del reporte de mensualidades impagas.
// Total viene calculado por el backend: Importe - Bonificacion + Recargo.
type ReporteMensualidad struct {
	MensualidadID int
	DisciplinaID  int
	Disciplina    string
	Cuota         string
	Importe       decimal.Decimal
	Bonificacion  decimal.Decimal
	Recargo       decimal.Decimal
	Total         decimal.Decimal
	Saldo         decimal.Decimal // distinto de Total si hubo pagos parciales
}

// EstadoMatricula estado de la matrícula anual de un alumno.
type EstadoMatricula struct {
	ID       int
	AlumnoID int
	Anio     int
	Pagada   bool
}

// Pago cabecera de un pago registrado en el backend.
type Pago struct {
	ID          int
	AlumnoID    int
	NroRecibo   string
	Fecha       time.Time
	MedioPagoID int
	Total       decimal.Decimal
	Observaciones string
}
