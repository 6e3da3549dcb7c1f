package academia

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// Tipos de alambre del core de la academia. Se mantienen separados de las
// entidades para que un cambio de contrato JSON no toque el dominio.

type alumnoWire struct {
	ID       int    `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	DNI      string `json:"dni"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Activo   bool   `json:"activo"`
}

func (w alumnoWire) toEntity() *entity.Alumno {
	return &entity.Alumno{
		ID:       w.ID,
		Nombre:   w.Nombre,
		Apellido: w.Apellido,
		DNI:      w.DNI,
		Email:    w.Email,
		Telefono: w.Telefono,
		Activo:   w.Activo,
	}
}

type detalleDeudaWire struct {
	ID             int             `json:"id"`
	ConceptoID     int             `json:"concepto_id"`
	Descripcion    string          `json:"descripcion"`
	Cuota          string          `json:"cuota"`
	Valor          decimal.Decimal `json:"valor"`
	BonificacionID int             `json:"bonificacion_id"`
	RecargoID      int             `json:"recargo_id"`
	Saldo          decimal.Decimal `json:"saldo"`
	Pagado         bool            `json:"pagado"`
	MensualidadID  int             `json:"mensualidad_id"`
	MatriculaID    int             `json:"matricula_id"`
	ArticuloID     int             `json:"articulo_id"`
	PagoID         int             `json:"pago_id"`
}

type deudaWire struct {
	AlumnoID int                `json:"alumno_id"`
	Detalles []detalleDeudaWire `json:"detalles"`
}

func (w deudaWire) toEntity() *entity.DeudaSnapshot {
	snap := &entity.DeudaSnapshot{AlumnoID: w.AlumnoID, Detalles: make([]entity.DetalleDeuda, 0, len(w.Detalles))}
	for _, d := range w.Detalles {
		snap.Detalles = append(snap.Detalles, entity.DetalleDeuda{
			ID:             d.ID,
			ConceptoID:     d.ConceptoID,
			Descripcion:    d.Descripcion,
			Cuota:          d.Cuota,
			Valor:          d.Valor,
			BonificacionID: d.BonificacionID,
			RecargoID:      d.RecargoID,
			Saldo:          d.Saldo,
			Pagado:         d.Pagado,
			MensualidadID:  d.MensualidadID,
			MatriculaID:    d.MatriculaID,
			ArticuloID:     d.ArticuloID,
			PagoID:         d.PagoID,
		})
	}
	return snap
}

type mensualidadWire struct {
	MensualidadID int             `json:"mensualidad_id"`
	DisciplinaID  int             `json:"disciplina_id"`
	Disciplina    string          `json:"disciplina"`
	Cuota         string          `json:"cuota"`
	Importe       decimal.Decimal `json:"importe"`
	Bonificacion  decimal.Decimal `json:"bonificacion"`
	Recargo       decimal.Decimal `json:"recargo"`
	Total         decimal.Decimal `json:"total"`
	Saldo         decimal.Decimal `json:"saldo"`
}

func (w mensualidadWire) toEntity() entity.ReporteMensualidad {
	return entity.ReporteMensualidad{
		MensualidadID: w.MensualidadID,
		DisciplinaID:  w.DisciplinaID,
		Disciplina:    w.Disciplina,
		Cuota:         w.Cuota,
		Importe:       w.Importe,
		Bonificacion:  w.Bonificacion,
		Recargo:       w.Recargo,
		Total:         w.Total,
		Saldo:         w.Saldo,
	}
}

type matriculaWire struct {
	ID       int  `json:"id"`
	AlumnoID int  `json:"alumno_id"`
	Anio     int  `json:"anio"`
	Pagada   bool `json:"pagada"`
}

type conceptoWire struct {
	ID          int             `json:"id"`
	Descripcion string          `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
}

type medioPagoWire struct {
	ID      int             `json:"id"`
	Nombre  string          `json:"nombre"`
	Recargo decimal.Decimal `json:"recargo"`
}

type disciplinaWire struct {
	ID          int             `json:"id"`
	Nombre      string          `json:"nombre"`
	PrecioMes   decimal.Decimal `json:"precio_mes"`
	PrecioClase decimal.Decimal `json:"precio_clase"`
}

type articuloWire struct {
	ID     int             `json:"id"`
	Nombre string          `json:"nombre"`
	Precio decimal.Decimal `json:"precio"`
	Stock  int             `json:"stock"`
}

type detallePagoWire struct {
	DetalleID      int             `json:"detalle_id,omitempty"`
	ConceptoID     int             `json:"concepto_id,omitempty"`
	Descripcion    string          `json:"descripcion"`
	Cuota          string          `json:"cuota,omitempty"`
	Valor          decimal.Decimal `json:"valor"`
	BonificacionID int             `json:"bonificacion_id,omitempty"`
	RecargoID      int             `json:"recargo_id,omitempty"`
	Importe        decimal.Decimal `json:"importe"`
	MensualidadID  int             `json:"mensualidad_id,omitempty"`
	MatriculaID    int             `json:"matricula_id,omitempty"`
	ArticuloID     int             `json:"articulo_id,omitempty"`
}

type registrarPagoWire struct {
	AlumnoID      int               `json:"alumno_id"`
	Fecha         time.Time         `json:"fecha"`
	MedioPagoID   int               `json:"medio_pago_id"`
	Total         decimal.Decimal   `json:"total"`
	Observaciones string            `json:"observaciones,omitempty"`
	Detalles      []detallePagoWire `json:"detalles"`
}

type pagoWire struct {
	ID            int             `json:"id"`
	AlumnoID      int             `json:"alumno_id"`
	NroRecibo     string          `json:"nro_recibo"`
	Fecha         time.Time       `json:"fecha"`
	MedioPagoID   int             `json:"medio_pago_id"`
	Total         decimal.Decimal `json:"total"`
	Observaciones string          `json:"observaciones"`
}

func (w pagoWire) toEntity() *entity.Pago {
	return &entity.Pago{
		ID:            w.ID,
		AlumnoID:      w.AlumnoID,
		NroRecibo:     w.NroRecibo,
		Fecha:         w.Fecha,
		MedioPagoID:   w.MedioPagoID,
		Total:         w.Total,
		Observaciones: w.Observaciones,
	}
}
