package cobranza

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ncastellano/cobranza-api/internal/application/dto"
	"github.com/ncastellano/cobranza-api/internal/domain"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
	"github.com/ncastellano/cobranza-api/pkg/logger"
)

// ReciboPDFGenerator puerto de salida para la generación del recibo impreso.
type ReciboPDFGenerator interface {
	GenerarReciboPDF(ctx context.Context, pago *entity.Pago, alumno entity.Alumno, detalles []entity.DetallePago) ([]byte, error)
}

// CobranzaUseCase orquesta las sesiones de cobranza: apertura, refresco
// contra el core, altas y bajas de detalles, totales y registro del pago.
type CobranzaUseCase struct {
	client AcademiaClient
	store  SesionStore
	pdf    ReciboPDFGenerator
	log    *logger.Logger
}

// NewCobranzaUseCase construye el caso de uso.
func NewCobranzaUseCase(client AcademiaClient, store SesionStore, pdf ReciboPDFGenerator, log *logger.Logger) *CobranzaUseCase {
	return &CobranzaUseCase{client: client, store: store, pdf: pdf, log: log}
}

// Abrir crea la sesión de cobranza de un alumno: trae alumno, catálogo y
// medios de pago, y corre la primera sincronización (deuda, mensualidades,
// matrícula). Las fallas de red parciales no abortan la apertura: el dato
// afectado queda vacío y se informa una advertencia, como indica la política
// de errores del formulario.
func (uc *CobranzaUseCase) Abrir(ctx context.Context, alumnoID int) (Vista, []string, error) {
	alumno, err := uc.client.GetAlumno(ctx, alumnoID)
	if err != nil {
		return Vista{}, nil, fmt.Errorf("obtener alumno: %w", err)
	}
	if alumno == nil {
		return Vista{}, nil, domain.ErrNotFound
	}

	conceptos, err := uc.client.GetConceptos(ctx)
	if err != nil {
		return Vista{}, nil, fmt.Errorf("obtener catálogo de conceptos: %w", err)
	}
	medios, err := uc.client.GetMediosPago(ctx)
	if err != nil {
		return Vista{}, nil, fmt.Errorf("obtener medios de pago: %w", err)
	}

	s := NuevaSesion(*alumno, conceptos, medios)
	uc.store.Guardar(s)

	advertencias := uc.refrescar(ctx, s)
	uc.log.Info().
		Str("sesion", s.ID).
		Int("alumno", alumnoID).
		Int("detalles", len(s.Vista().Detalles)).
		Msg("sesión de cobranza abierta")
	return s.Vista(), advertencias, nil
}

// Ver devuelve el estado actual de la sesión.
func (uc *CobranzaUseCase) Ver(id string) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	return s.Vista(), nil
}

// Refrescar vuelve a traer deuda, mensualidades y matrícula y re-aplica la
// reconciliación. La guarda por huella hace que un snapshot idéntico sea un
// no-op; uno nuevo (por ejemplo tras registrar un pago) re-dispara el merge.
func (uc *CobranzaUseCase) Refrescar(ctx context.Context, id string) (Vista, []string, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, nil, domain.ErrSesionNoEncontrada
	}
	advertencias := uc.refrescar(ctx, s)
	return s.Vista(), advertencias, nil
}

// refrescar ejecuta las tres sincronizaciones. Cada fetch fallido se degrada
// a advertencia y deja el dato anterior intacto; nada se propaga como error.
func (uc *CobranzaUseCase) refrescar(ctx context.Context, s *Sesion) []string {
	var advertencias []string
	alumno := s.Alumno()

	snap, err := uc.client.GetDeuda(ctx, s.AlumnoID)
	if err != nil {
		uc.log.Warn().Err(err).Str("sesion", s.ID).Msg("no se pudo obtener la deuda")
		advertencias = append(advertencias, "no se pudo obtener la deuda pendiente")
	} else {
		s.SincronizarDeuda(snap)
	}

	desde := time.Date(time.Now().Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	filas, err := uc.client.GetMensualidadesImpagas(ctx, desde, alumno.NombreCompleto())
	if err != nil {
		uc.log.Warn().Err(err).Str("sesion", s.ID).Msg("no se pudo obtener el reporte de mensualidades")
		advertencias = append(advertencias, "no se pudo obtener el reporte de mensualidades")
	} else {
		s.AgregarMensualidades(filas)
	}

	estado, err := uc.client.GetMatricula(ctx, s.AlumnoID)
	if err != nil {
		uc.log.Warn().Err(err).Str("sesion", s.ID).Msg("no se pudo obtener la matrícula")
		advertencias = append(advertencias, "no se pudo obtener el estado de la matrícula")
	} else if err := s.SincronizarMatricula(estado); err != nil {
		uc.log.Warn().Err(err).Str("sesion", s.ID).Msg("matrícula sin concepto en catálogo")
		advertencias = append(advertencias, err.Error())
	}

	return advertencias
}

// AgregarDetalle agrega detalles manuales a partir de la selección del
// usuario: un concepto del catálogo, un arancel de disciplina por período
// y/o un artículo de stock. Cada selección poblada produce un candidato; si
// alguno duplica un detalle existente no se agrega ninguno.
func (uc *CobranzaUseCase) AgregarDetalle(ctx context.Context, id string, in dto.AgregarDetalleRequest) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}

	var candidatos []entity.DetallePago

	if in.ConceptoID != nil {
		concepto, err := uc.buscarConcepto(s, *in.ConceptoID)
		if err != nil {
			return Vista{}, err
		}
		candidatos = append(candidatos, entity.DetallePago{
			Procedencia: entity.ProcManualConcepto,
			ConceptoID:  concepto.ID,
			Descripcion: concepto.Descripcion,
			Cuota:       "1",
			Valor:       concepto.Precio,
			Pendiente:   concepto.Precio,
			ACobrar:     concepto.Precio,
		})
	}

	if in.Arancel != nil {
		det, err := uc.candidatoArancel(ctx, *in.Arancel)
		if err != nil {
			return Vista{}, err
		}
		candidatos = append(candidatos, det)
	}

	if in.Articulo != nil {
		det, err := uc.candidatoArticulo(ctx, *in.Articulo)
		if err != nil {
			return Vista{}, err
		}
		candidatos = append(candidatos, det)
	}

	if err := s.AgregarManuales(candidatos); err != nil {
		return Vista{}, err
	}
	return s.Vista(), nil
}

func (uc *CobranzaUseCase) buscarConcepto(s *Sesion, conceptoID int) (entity.Concepto, error) {
	for _, c := range s.Conceptos() {
		if c.ID == conceptoID {
			return c, nil
		}
	}
	return entity.Concepto{}, domain.ErrNotFound
}

func (uc *CobranzaUseCase) candidatoArancel(ctx context.Context, sel dto.ArancelSeleccion) (entity.DetallePago, error) {
	if sel.Tipo != entity.ArancelMes && sel.Tipo != entity.ArancelClase {
		return entity.DetallePago{}, domain.ErrInvalidInput
	}
	disciplina, err := uc.client.GetDisciplina(ctx, sel.DisciplinaID)
	if err != nil {
		return entity.DetallePago{}, fmt.Errorf("obtener disciplina: %w", err)
	}
	if disciplina == nil {
		return entity.DetallePago{}, domain.ErrNotFound
	}
	cantidad := sel.Cantidad
	if cantidad <= 0 {
		cantidad = 1
	}
	precio := disciplina.PrecioArancel(sel.Tipo).Mul(decimal.NewFromInt(int64(cantidad)))
	desc := fmt.Sprintf("%s - %s - %s", disciplina.Nombre, entity.EtiquetaArancel(sel.Tipo), sel.Periodo)
	return entity.DetallePago{
		Procedencia: entity.ProcManualArancel,
		Descripcion: desc,
		Cuota:       fmt.Sprint(cantidad),
		Valor:       precio,
		Pendiente:   precio,
		ACobrar:     precio,
	}, nil
}

func (uc *CobranzaUseCase) candidatoArticulo(ctx context.Context, sel dto.ArticuloSeleccion) (entity.DetallePago, error) {
	articulo, err := uc.client.GetArticulo(ctx, sel.ArticuloID)
	if err != nil {
		return entity.DetallePago{}, fmt.Errorf("obtener artículo: %w", err)
	}
	if articulo == nil {
		return entity.DetallePago{}, domain.ErrNotFound
	}
	cantidad := sel.Cantidad
	if cantidad <= 0 {
		cantidad = 1
	}
	precio := articulo.Precio.Mul(decimal.NewFromInt(int64(cantidad)))
	return entity.DetallePago{
		Procedencia: entity.ProcManualStock,
		Descripcion: articulo.Nombre,
		Cuota:       fmt.Sprint(cantidad),
		Valor:       precio,
		Pendiente:   precio,
		ACobrar:     precio,
		ArticuloID:  articulo.ID,
	}, nil
}

// QuitarDetalle elimina el detalle en idx. Si está persistido, primero borra
// en el core; si ese DELETE falla, la lista queda como estaba.
func (uc *CobranzaUseCase) QuitarDetalle(ctx context.Context, id string, idx int) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	err := s.QuitarDetalle(idx, func(detalleID int) error {
		if err := uc.client.EliminarDetalle(ctx, detalleID); err != nil {
			return fmt.Errorf("eliminar detalle %d en el core: %w", detalleID, err)
		}
		return nil
	})
	if err != nil {
		return Vista{}, err
	}
	return s.Vista(), nil
}

// EditarImporte fija el importe a cobrar de un detalle.
func (uc *CobranzaUseCase) EditarImporte(id string, idx int, importe decimal.Decimal) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	if err := s.EditarImporte(idx, importe); err != nil {
		return Vista{}, err
	}
	return s.Vista(), nil
}

// ElegirMedioPago selecciona el medio de pago de la cabecera.
func (uc *CobranzaUseCase) ElegirMedioPago(id string, medioPagoID int) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	if err := s.ElegirMedioPago(medioPagoID); err != nil {
		return Vista{}, err
	}
	return s.Vista(), nil
}

// QuitarRecargo apaga el recargo para la sesión (una sola vía).
func (uc *CobranzaUseCase) QuitarRecargo(id string) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	if err := s.QuitarRecargo(); err != nil {
		return Vista{}, err
	}
	return s.Vista(), nil
}

// RegistrarPago envía al core el pago con los detalles de importe no nulo.
// La sesión bloquea reenvíos mientras hay uno en vuelo y rechaza registrar
// dos veces. Si el core falla, el detalle queda intacto.
func (uc *CobranzaUseCase) RegistrarPago(ctx context.Context, id string, medioPagoID int, observaciones string) (Vista, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return Vista{}, domain.ErrSesionNoEncontrada
	}
	cabecera, detalles, err := s.IniciarPago(medioPagoID, observaciones)
	if err != nil {
		return Vista{}, err
	}
	registrado, err := uc.client.RegistrarPago(ctx, cabecera, detalles)
	if err != nil {
		s.AbortarPago()
		return Vista{}, fmt.Errorf("registrar pago en el core: %w", err)
	}
	s.ConfirmarPago(registrado, detalles)
	uc.log.Info().
		Str("sesion", s.ID).
		Int("pago", registrado.ID).
		Str("recibo", registrado.NroRecibo).
		Str("total", registrado.Total.String()).
		Msg("pago registrado")
	return s.Vista(), nil
}

// ReciboPDF genera el recibo imprimible del pago ya registrado.
func (uc *CobranzaUseCase) ReciboPDF(ctx context.Context, id string) ([]byte, error) {
	s, ok := uc.store.Obtener(id)
	if !ok {
		return nil, domain.ErrSesionNoEncontrada
	}
	pago := s.Pago()
	if pago == nil {
		return nil, domain.ErrPagoNoRegistrado
	}
	return uc.pdf.GenerarReciboPDF(ctx, pago, s.Alumno(), s.DetallesCobrados())
}

// Cerrar descarta la sesión y todo su estado (detalles, removidos, caches).
func (uc *CobranzaUseCase) Cerrar(id string) error {
	if _, ok := uc.store.Obtener(id); !ok {
		return domain.ErrSesionNoEncontrada
	}
	uc.store.Eliminar(id)
	return nil
}
