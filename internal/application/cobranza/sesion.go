package cobranza

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ncastellano/cobranza-api/internal/domain"
	domcobranza "github.com/ncastellano/cobranza-api/internal/domain/cobranza"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// Sesion es el estado de un formulario de cobranza para un alumno: la lista
// ordenada de detalles, el registro de removidos, la guarda de merge por
// snapshot y los flags de cabecera. Es la única dueña de esa lista durante la
// sesión de edición; toda mutación pasa por sus métodos, bajo su lock.
//
// La sesión cachea además el catálogo de conceptos y los medios de pago
// traídos al abrirla, con el mismo ciclo de vida que la sesión (se descartan
// al cerrarla o al vencer el TTL).
type Sesion struct {
	ID       string
	AlumnoID int
	CreadaEn time.Time

	mu             sync.Mutex
	alumno         entity.Alumno
	detalles       []entity.DetallePago
	removidos      *domcobranza.Removidos
	huellaDeuda    string // guarda "un merge por snapshot distinto"
	conceptos      []entity.Concepto
	mediosPago     []entity.MedioPago
	medioPagoID    int
	aplicarRecargo bool
	totales        domcobranza.Totales
	pagoEnCurso    bool
	pago           *entity.Pago
	cobrados       []entity.DetallePago // detalles enviados en el pago registrado
}

// Vista es una copia inmutable del estado de la sesión para serializar.
type Vista struct {
	ID             string
	Alumno         entity.Alumno
	CreadaEn       time.Time
	Detalles       []entity.DetallePago
	Totales        domcobranza.Totales
	MedioPagoID    int
	AplicarRecargo bool
	Pago           *entity.Pago
}

// NuevaSesion crea la sesión para un alumno con el catálogo y los medios de
// pago ya resueltos. El recargo arranca aplicado; solo puede quitarse.
func NuevaSesion(alumno entity.Alumno, conceptos []entity.Concepto, medios []entity.MedioPago) *Sesion {
	return &Sesion{
		ID:             uuid.New().String(),
		AlumnoID:       alumno.ID,
		CreadaEn:       time.Now(),
		alumno:         alumno,
		removidos:      domcobranza.NuevoRemovidos(),
		conceptos:      conceptos,
		mediosPago:     medios,
		aplicarRecargo: true,
	}
}

// Vista devuelve una copia del estado actual.
func (s *Sesion) Vista() Vista {
	s.mu.Lock()
	defer s.mu.Unlock()
	dets := make([]entity.DetallePago, len(s.detalles))
	copy(dets, s.detalles)
	var pago *entity.Pago
	if s.pago != nil {
		p := *s.pago
		pago = &p
	}
	return Vista{
		ID:             s.ID,
		Alumno:         s.alumno,
		CreadaEn:       s.CreadaEn,
		Detalles:       dets,
		Totales:        s.totales,
		MedioPagoID:    s.medioPagoID,
		AplicarRecargo: s.aplicarRecargo,
		Pago:           pago,
	}
}

// Alumno devuelve el alumno de la sesión.
func (s *Sesion) Alumno() entity.Alumno {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alumno
}

// Conceptos devuelve el catálogo cacheado al abrir la sesión.
func (s *Sesion) Conceptos() []entity.Concepto {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conceptos
}

// SincronizarDeuda aplica el merge del snapshot si su huella difiere de la
// del último merge. Renders repetidos con el mismo snapshot no re-disparan
// la reconciliación; un snapshot nuevo sí.
func (s *Sesion) SincronizarDeuda(snap *entity.DeudaSnapshot) bool {
	if snap == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return false
	}
	huella := domcobranza.HuellaDeuda(snap)
	if huella == s.huellaDeuda {
		return false
	}
	next, cambio := domcobranza.MergeDeuda(s.detalles, snap, s.removidos)
	s.huellaDeuda = huella
	if cambio {
		s.detalles = next
		s.recalcularTotales()
	}
	return cambio
}

// AgregarMensualidades corre el generador de mensualidades sobre el reporte.
func (s *Sesion) AgregarMensualidades(filas []entity.ReporteMensualidad) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return false
	}
	next, cambio := domcobranza.AgregarMensualidades(s.detalles, filas, s.removidos)
	if cambio {
		s.detalles = next
		s.recalcularTotales()
	}
	return cambio
}

// SincronizarMatricula corre el generador de matrícula contra el estado
// informado, usando el catálogo cacheado en la sesión.
func (s *Sesion) SincronizarMatricula(estado *entity.EstadoMatricula) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return nil
	}
	next, cambio, err := domcobranza.SincronizarMatricula(s.detalles, estado, s.conceptos, s.removidos)
	if err != nil {
		return err
	}
	if cambio {
		s.detalles = next
		s.recalcularTotales()
	}
	return nil
}

// AgregarManuales agrega detalles manuales de a uno, validando duplicados
// contra la clave (concepto, descripción). Si algún candidato choca, no se
// agrega ninguno y el estado queda intacto.
func (s *Sesion) AgregarManuales(candidatos []entity.DetallePago) error {
	if len(candidatos) == 0 {
		return domain.ErrSinSeleccion
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return domain.ErrPagoEnCurso
	}
	for _, c := range candidatos {
		for _, existente := range s.detalles {
			if existente.MismoConcepto(c) {
				return domain.ErrConceptoDuplicado
			}
		}
	}
	// Dedup también entre los propios candidatos
	for i := range candidatos {
		for j := i + 1; j < len(candidatos); j++ {
			if candidatos[i].MismoConcepto(candidatos[j]) {
				return domain.ErrConceptoDuplicado
			}
		}
	}
	s.detalles = append(s.detalles, candidatos...)
	s.recalcularTotales()
	return nil
}

// QuitarDetalle elimina el detalle en idx. Para detalles ya persistidos se
// invoca primero eliminar(id) contra el backend; si falla, la lista queda
// intacta y se devuelve el error. Al quitar un detalle auto-generado se
// registran sus ids para que la re-sincronización no lo reintroduzca.
func (s *Sesion) QuitarDetalle(idx int, eliminar func(id int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return domain.ErrPagoEnCurso
	}
	if idx < 0 || idx >= len(s.detalles) {
		return domain.ErrDetalleInexistente
	}
	det := s.detalles[idx]
	if det.ID != 0 && eliminar != nil {
		if err := eliminar(det.ID); err != nil {
			return err
		}
	}
	if !det.Procedencia.EsManual() {
		s.removidos.RegistrarDetalle(det.ID)
		s.removidos.RegistrarMensualidad(det.MensualidadID)
		s.removidos.RegistrarMatricula(det.MatriculaID)
	}
	s.detalles = append(s.detalles[:idx], s.detalles[idx+1:]...)
	s.recalcularTotales()
	return nil
}

// EditarImporte fija el importe a cobrar del detalle en idx. Rechaza
// importes negativos o mayores al pendiente. Si el importe vuelve a
// coincidir con el pendiente, el detalle deja de contar como editado.
func (s *Sesion) EditarImporte(idx int, importe decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return domain.ErrPagoEnCurso
	}
	if idx < 0 || idx >= len(s.detalles) {
		return domain.ErrDetalleInexistente
	}
	if importe.IsNegative() {
		return domain.ErrImporteInvalido
	}
	det := &s.detalles[idx]
	if importe.GreaterThan(det.Pendiente) {
		return domain.ErrImporteInvalido
	}
	det.ACobrar = importe
	det.EditadoUsuario = !importe.Equal(det.Pendiente)
	s.recalcularTotales()
	return nil
}

// ElegirMedioPago selecciona el medio de pago de la cabecera.
func (s *Sesion) ElegirMedioPago(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return domain.ErrPagoEnCurso
	}
	if id != 0 && s.buscarMedio(id) == nil {
		return domain.ErrNotFound
	}
	s.medioPagoID = id
	s.recalcularTotales()
	return nil
}

// QuitarRecargo apaga el recargo del medio de pago para esta sesión.
// Es de una sola vía: no hay acción para volver a aplicarlo.
func (s *Sesion) QuitarRecargo() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pagoEnCurso {
		return domain.ErrPagoEnCurso
	}
	if !s.aplicarRecargo {
		return nil
	}
	s.aplicarRecargo = false
	s.recalcularTotales()
	return nil
}

// IniciarPago toma el lock de envío de la sesión y devuelve la cabecera y
// los detalles a cobrar (filtrados los de importe cero). Un segundo intento
// mientras hay uno en vuelo devuelve ErrPagoEnCurso; una sesión ya pagada,
// ErrPagoYaRegistrado. Mientras el envío está en vuelo la sesión queda
// congelada: todos los mutadores devuelven ErrPagoEnCurso y las
// sincronizaciones son no-op, así ConfirmarPago marca exactamente las líneas
// que se enviaron. El caller debe cerrar con ConfirmarPago o AbortarPago.
func (s *Sesion) IniciarPago(medioPagoID int, observaciones string) (*entity.Pago, []entity.DetallePago, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pago != nil {
		return nil, nil, domain.ErrPagoYaRegistrado
	}
	if s.pagoEnCurso {
		return nil, nil, domain.ErrPagoEnCurso
	}
	if medioPagoID == 0 {
		medioPagoID = s.medioPagoID
	}
	var aCobrar []entity.DetallePago
	total := decimal.Zero
	for _, det := range s.detalles {
		if det.ACobrar.IsZero() {
			continue
		}
		aCobrar = append(aCobrar, det)
		total = total.Add(det.ACobrar)
	}
	if len(aCobrar) == 0 {
		return nil, nil, domain.ErrSinDetallesACobrar
	}
	s.pagoEnCurso = true
	cabecera := &entity.Pago{
		AlumnoID:      s.AlumnoID,
		Fecha:         time.Now(),
		MedioPagoID:   medioPagoID,
		Total:         total,
		Observaciones: observaciones,
	}
	return cabecera, aCobrar, nil
}

// ConfirmarPago registra el resultado del backend: estampa número de recibo,
// guarda los detalles cobrados para el recibo, marca pagadas las líneas y
// suelta el lock de envío.
func (s *Sesion) ConfirmarPago(p *entity.Pago, cobrados []entity.DetallePago) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagoEnCurso = false
	s.pago = p
	s.cobrados = make([]entity.DetallePago, len(cobrados))
	copy(s.cobrados, cobrados)
	for i := range s.detalles {
		det := &s.detalles[i]
		if det.ACobrar.IsZero() {
			continue
		}
		det.Pagado = true
		det.PagoID = p.ID
		det.Pendiente = det.Pendiente.Sub(det.ACobrar)
		if det.Pendiente.IsNegative() {
			det.Pendiente = decimal.Zero
		}
		det.ACobrar = decimal.Zero
	}
	s.recalcularTotales()
}

// DetallesCobrados devuelve las líneas tal como se enviaron en el pago.
func (s *Sesion) DetallesCobrados() []entity.DetallePago {
	s.mu.Lock()
	defer s.mu.Unlock()
	dets := make([]entity.DetallePago, len(s.cobrados))
	copy(dets, s.cobrados)
	return dets
}

// AbortarPago suelta el lock de envío sin tocar el detalle (el backend falló).
func (s *Sesion) AbortarPago() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pagoEnCurso = false
}

// Pago devuelve la cabecera registrada, o nil si todavía no hay pago.
func (s *Sesion) Pago() *entity.Pago {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pago == nil {
		return nil
	}
	p := *s.pago
	return &p
}

// recalcularTotales recomputa los totales derivados. La escritura se saltea
// cuando el valor no cambió, para que los lectores no vean updates triviales.
// Se llama con el lock tomado.
func (s *Sesion) recalcularTotales() {
	recargo := decimal.Zero
	aplicar := false
	if s.aplicarRecargo && s.medioPagoID != 0 {
		if medio := s.buscarMedio(s.medioPagoID); medio != nil {
			recargo = medio.Recargo
			aplicar = true
		}
	}
	nuevos := domcobranza.CalcularTotales(s.detalles, recargo, aplicar)
	if !nuevos.Igual(s.totales) {
		s.totales = nuevos
	}
}

func (s *Sesion) buscarMedio(id int) *entity.MedioPago {
	for i := range s.mediosPago {
		if s.mediosPago[i].ID == id {
			return &s.mediosPago[i]
		}
	}
	return nil
}
