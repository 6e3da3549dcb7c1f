package cobranza

import (
	"fmt"
	"hash/fnv"

	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// HuellaDeuda calcula una huella estable del snapshot de deuda. La sesión la
// usa como guarda "un merge por snapshot distinto": si la huella no cambió,
// la re-sincronización es un no-op; un snapshot nuevo (por ejemplo tras
// registrar un pago) produce otra huella y vuelve a disparar el merge.
func HuellaDeuda(snap *entity.DeudaSnapshot) string {
	if snap == nil {
		return ""
	}
	h := fnv.New64a()
	fmt.Fprintf(h, "a%d;", snap.AlumnoID)
	for _, d := range snap.Detalles {
		fmt.Fprintf(h, "%d|%d|%s|%s|%s|%t;",
			d.ID, d.ConceptoID, d.Descripcion, d.Saldo.String(), d.Valor.String(), d.Pagado)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
