package cobranza

import (
	"strings"

	"github.com/ncastellano/cobranza-api/internal/domain"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// AgregarMensualidades deriva un detalle por cada fila del reporte de
// mensualidades impagas que todavía no figura en la lista. Las filas cuya
// mensualidad ya está presente (cualquier procedencia) o fue removida en la
// sesión se saltean. Los detalles nuevos se agregan al final; el orden de
// los existentes no se toca.
func AgregarMensualidades(prev []entity.DetallePago, filas []entity.ReporteMensualidad, removidos *Removidos) ([]entity.DetallePago, bool) {
	if len(filas) == 0 {
		return prev, false
	}

	presentes := make(map[int]struct{}, len(prev))
	for _, d := range prev {
		if d.MensualidadID != 0 {
			presentes[d.MensualidadID] = struct{}{}
		}
	}

	next := prev
	cambio := false
	for _, fila := range filas {
		if fila.MensualidadID == 0 {
			continue
		}
		if _, ok := presentes[fila.MensualidadID]; ok {
			continue
		}
		if removidos != nil && removidos.TieneMensualidad(fila.MensualidadID) {
			continue
		}
		// El saldo manda si difiere del total calculado (pagos parciales).
		pendiente := fila.Total
		if !fila.Saldo.IsZero() {
			pendiente = fila.Saldo
		}
		if !cambio {
			next = make([]entity.DetallePago, len(prev))
			copy(next, prev)
		}
		next = append(next, entity.DetallePago{
			Procedencia:   entity.ProcAutoMensualidad,
			Descripcion:   fila.Disciplina,
			Cuota:         fila.Cuota,
			Valor:         fila.Importe,
			Pendiente:     pendiente,
			ACobrar:       fila.Total,
			MensualidadID: fila.MensualidadID,
		})
		presentes[fila.MensualidadID] = struct{}{}
		cambio = true
	}
	if !cambio {
		return prev, false
	}
	return next, true
}

// SincronizarMatricula mantiene el detalle sintetizado de matrícula en línea
// con el estado informado por el backend:
//
//   - matrícula impaga y sin detalle presente: sintetiza exactamente uno,
//     valuado con el concepto del catálogo cuya descripción contiene
//     "matricula" (insensible a mayúsculas y acentos);
//   - catálogo sin ese concepto: devuelve ErrMatriculaSinConcepto y no
//     inserta un detalle a precio cero;
//   - matrícula pagada: elimina el detalle sintetizado si quedó alguno.
func SincronizarMatricula(prev []entity.DetallePago, estado *entity.EstadoMatricula, conceptos []entity.Concepto, removidos *Removidos) ([]entity.DetallePago, bool, error) {
	if estado == nil {
		return prev, false, nil
	}

	if estado.Pagada {
		next := prev[:0:0]
		for _, d := range prev {
			if d.Procedencia != entity.ProcAutoMatricula {
				next = append(next, d)
			}
		}
		if len(next) == len(prev) {
			return prev, false, nil
		}
		return next, true, nil
	}

	for _, d := range prev {
		if d.Procedencia == entity.ProcAutoMatricula {
			return prev, false, nil // ya está
		}
	}
	if removidos != nil && removidos.TieneMatricula(estado.ID) {
		return prev, false, nil
	}

	concepto, ok := BuscarConceptoMatricula(conceptos)
	if !ok {
		return prev, false, domain.ErrMatriculaSinConcepto
	}

	next := make([]entity.DetallePago, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, entity.DetallePago{
		Procedencia: entity.ProcAutoMatricula,
		ConceptoID:  concepto.ID,
		Descripcion: "Matrícula",
		Valor:       concepto.Precio,
		Pendiente:   concepto.Precio,
		ACobrar:     concepto.Precio,
		MatriculaID: estado.ID,
	})
	return next, true, nil
}

// BuscarConceptoMatricula busca en el catálogo el concepto de matrícula por
// substring "matricula", plegando mayúsculas y acentos ("MATRÍCULA",
// "Matricula 2026" y "matrícula anual" califican).
func BuscarConceptoMatricula(conceptos []entity.Concepto) (entity.Concepto, bool) {
	for _, c := range conceptos {
		if strings.Contains(plegar(c.Descripcion), "matricula") {
			return c, true
		}
	}
	return entity.Concepto{}, false
}
