package cobranza

import (
	"context"
	"time"

	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// AcademiaClient puerto de salida hacia la API core de la academia. La
// implementación concreta usa HTTP; para tests se inyecta un mock.
type AcademiaClient interface {
	// GetAlumno trae el alumno por id.
	GetAlumno(ctx context.Context, id int) (*entity.Alumno, error)
	// GetDeuda trae el snapshot de deuda pendiente del alumno.
	GetDeuda(ctx context.Context, alumnoID int) (*entity.DeudaSnapshot, error)
	// GetMensualidadesImpagas trae el reporte de mensualidades impagas
	// filtrado por fecha de inicio y nombre del alumno.
	GetMensualidadesImpagas(ctx context.Context, desde time.Time, nombre string) ([]entity.ReporteMensualidad, error)
	// GetMatricula trae el estado de la matrícula del alumno para el año en curso.
	GetMatricula(ctx context.Context, alumnoID int) (*entity.EstadoMatricula, error)
	// GetConceptos trae el catálogo de conceptos cobrables.
	GetConceptos(ctx context.Context) ([]entity.Concepto, error)
	// GetMediosPago trae los medios de pago con sus recargos.
	GetMediosPago(ctx context.Context) ([]entity.MedioPago, error)
	// GetDisciplina trae una disciplina con sus aranceles.
	GetDisciplina(ctx context.Context, id int) (*entity.Disciplina, error)
	// GetArticulo trae un artículo de stock.
	GetArticulo(ctx context.Context, id int) (*entity.ArticuloStock, error)
	// RegistrarPago registra el pago con su detalle y devuelve la cabecera
	// persistida (id y número de recibo asignados por el core).
	RegistrarPago(ctx context.Context, pago *entity.Pago, detalles []entity.DetallePago) (*entity.Pago, error)
	// EliminarDetalle borra un detalle ya persistido por id.
	EliminarDetalle(ctx context.Context, detalleID int) error
}

// SesionStore almacena las sesiones de cobranza vivas. La implementación en
// memoria descarta cada sesión al cerrarla o al vencer su TTL.
type SesionStore interface {
	Guardar(s *Sesion)
	Obtener(id string) (*Sesion, bool)
	Eliminar(id string)
}
