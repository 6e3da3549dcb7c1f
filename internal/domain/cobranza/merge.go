// Package cobranza implementa la lógica pura de reconciliación de una
// cobranza: el merge del snapshot de deuda del backend contra el detalle en
// memoria, los generadores automáticos (mensualidades y matrícula) y el
// cálculo de totales. Ninguna función de este paquete hace red ni muta sus
// argumentos; todas devuelven la lista resultante y un flag de cambio para
// que el caller evite escrituras redundantes.
package cobranza

import "github.com/ncastellano/cobranza-api/internal/domain/entity"

// indiceDetalles índices de búsqueda sobre la lista vigente, por cada
// referencia con la que una línea del snapshot puede coincidir. La clave de
// de-duplicación es la misma que usa DetallePago.MismoConcepto: concepto o,
// a falta de referencia, la descripción.
type indiceDetalles struct {
	porID             map[int]int
	porMensualidad    map[int]int
	porMatricula      map[int]int
	porConcepto       map[int]int
	porArticulo       map[int]int
	porDescripcion    map[string]int
	manualConConcepto map[int]struct{}
	manualConDesc     map[string]struct{}
}

func indexar(items []entity.DetallePago) *indiceDetalles {
	ix := &indiceDetalles{
		porID:             make(map[int]int),
		porMensualidad:    make(map[int]int),
		porMatricula:      make(map[int]int),
		porConcepto:       make(map[int]int),
		porArticulo:       make(map[int]int),
		porDescripcion:    make(map[string]int),
		manualConConcepto: make(map[int]struct{}),
		manualConDesc:     make(map[string]struct{}),
	}
	for i, d := range items {
		ix.agregar(i, d)
	}
	return ix
}

func (ix *indiceDetalles) agregar(i int, d entity.DetallePago) {
	if d.ID != 0 {
		ix.porID[d.ID] = i
	}
	if d.MensualidadID != 0 {
		ix.porMensualidad[d.MensualidadID] = i
	}
	if d.MatriculaID != 0 {
		ix.porMatricula[d.MatriculaID] = i
	}
	if d.ConceptoID != 0 {
		ix.porConcepto[d.ConceptoID] = i
		if d.Procedencia.EsManual() {
			ix.manualConConcepto[d.ConceptoID] = struct{}{}
		}
	}
	if d.ArticuloID != 0 {
		ix.porArticulo[d.ArticuloID] = i
	}
	if d.Descripcion != "" {
		ix.porDescripcion[d.Descripcion] = i
		if d.Procedencia.EsManual() {
			ix.manualConDesc[d.Descripcion] = struct{}{}
		}
	}
}

// esDeManual indica si la línea entrante choca con un detalle manual
// existente según la clave de de-duplicación (concepto o descripción).
func (ix *indiceDetalles) esDeManual(l entity.DetalleDeuda) bool {
	if l.ConceptoID != 0 {
		if _, ok := ix.manualConConcepto[l.ConceptoID]; ok {
			return true
		}
	}
	_, ok := ix.manualConDesc[l.Descripcion]
	return ok
}

// posicion devuelve el índice del detalle vigente que representa a la línea
// entrante, probando id persistido, mensualidad, matrícula, concepto y
// artículo en ese orden, con la descripción como último recurso. El fallback
// por descripción se saltea para líneas con referencia a mensualidad o
// matrícula: dos cuotas de la misma disciplina comparten descripción y no
// deben colapsar. -1 si ninguna referencia coincide.
func (ix *indiceDetalles) posicion(l entity.DetalleDeuda) int {
	if l.ID != 0 {
		if i, ok := ix.porID[l.ID]; ok {
			return i
		}
	}
	if l.MensualidadID != 0 {
		if i, ok := ix.porMensualidad[l.MensualidadID]; ok {
			return i
		}
	}
	if l.MatriculaID != 0 {
		if i, ok := ix.porMatricula[l.MatriculaID]; ok {
			return i
		}
	}
	if l.ConceptoID != 0 {
		if i, ok := ix.porConcepto[l.ConceptoID]; ok {
			return i
		}
	}
	if l.ArticuloID != 0 {
		if i, ok := ix.porArticulo[l.ArticuloID]; ok {
			return i
		}
	}
	if l.MensualidadID == 0 && l.MatriculaID == 0 {
		if i, ok := ix.porDescripcion[l.Descripcion]; ok {
			return i
		}
	}
	return -1
}

// MergeDeuda reconcilia el detalle actual contra un snapshot de deuda.
//
// Reglas:
//   - snapshot nil: no-op (no se vacía el detalle existente);
//   - cada línea del snapshot no removida en la sesión y sin choque con un
//     detalle manual aparece exactamente una vez;
//   - los detalles manuales se preservan textuales, traiga lo que traiga el
//     snapshot; una línea entrante que coincide con un manual por concepto o
//     por descripción se descarta;
//   - una línea entrante que coincide con un detalle auto existente lo
//     reemplaza en su posición (sin duplicar), preservando ACobrar si el
//     usuario lo editó;
//   - las líneas nuevas se agregan al final, en el orden del snapshot.
//
// Es idempotente: aplicarla dos veces con el mismo snapshot deja la lista
// igual y devuelve cambio=false en la segunda pasada.
func MergeDeuda(prev []entity.DetallePago, snap *entity.DeudaSnapshot, removidos *Removidos) ([]entity.DetallePago, bool) {
	if snap == nil {
		return prev, false
	}

	next := make([]entity.DetallePago, len(prev))
	copy(next, prev)
	ix := indexar(next)

	cambio := false
	for _, linea := range snap.Detalles {
		if removidos != nil && removidos.TieneDetalle(linea.ID) {
			continue
		}
		if ix.esDeManual(linea) {
			continue // el detalle manual gana
		}
		entrante := desdeDeuda(linea)

		if i := ix.posicion(linea); i >= 0 {
			actual := next[i]
			if actual.Procedencia.EsManual() {
				continue // nunca pisar un manual
			}
			if actual.EditadoUsuario {
				entrante.ACobrar = actual.ACobrar
				entrante.EditadoUsuario = true
			}
			if !actual.Igual(entrante) {
				next[i] = entrante
				ix.agregar(i, entrante)
				cambio = true
			}
			continue
		}

		next = append(next, entrante)
		ix.agregar(len(next)-1, entrante)
		cambio = true
	}
	if !cambio {
		return prev, false
	}
	return next, true
}

// desdeDeuda mapea una línea del snapshot a la forma DetallePago.
// ACobrar arranca igual al saldo; el merge lo preserva si el usuario lo editó.
func desdeDeuda(d entity.DetalleDeuda) entity.DetallePago {
	return entity.DetallePago{
		ID:             d.ID,
		Procedencia:    procedenciaDeuda(d),
		ConceptoID:     d.ConceptoID,
		Descripcion:    d.Descripcion,
		Cuota:          d.Cuota,
		Valor:          d.Valor,
		BonificacionID: d.BonificacionID,
		RecargoID:      d.RecargoID,
		Pendiente:      d.Saldo,
		ACobrar:        d.Saldo,
		Pagado:         d.Pagado,
		MensualidadID:  d.MensualidadID,
		MatriculaID:    d.MatriculaID,
		ArticuloID:     d.ArticuloID,
		PagoID:         d.PagoID,
	}
}

// procedenciaDeuda deduce la procedencia de una línea del backend según su
// referencia: mensualidad, matrícula o deuda genérica (conceptos y stock ya
// persistidos). Las tres son reemplazables por re-sincronización.
func procedenciaDeuda(d entity.DetalleDeuda) entity.Procedencia {
	switch {
	case d.MensualidadID != 0:
		return entity.ProcAutoMensualidad
	case d.MatriculaID != 0:
		return entity.ProcAutoMatricula
	default:
		return entity.ProcAutoDeuda
	}
}
