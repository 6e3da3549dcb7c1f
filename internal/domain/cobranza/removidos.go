package cobranza

// Removidos registra, dentro de una sesión de cobranza, los detalles
// auto-generados que el usuario quitó a mano. El reconciliador y los
// generadores los consultan para no resucitarlos. El registro vive lo que
// vive la sesión: se descarta al cerrarla.
type Removidos struct {
	detalles      map[int]struct{} // ids persistidos de detalles quitados
	mensualidades map[int]struct{} // ids de mensualidad de filas quitadas
	matriculas    map[int]struct{} // ids de matrícula quitados
}

// NuevoRemovidos crea un registro vacío.
func NuevoRemovidos() *Removidos {
	return &Removidos{
		detalles:      make(map[int]struct{}),
		mensualidades: make(map[int]struct{}),
		matriculas:    make(map[int]struct{}),
	}
}

// RegistrarDetalle marca un id de detalle persistido como removido.
func (r *Removidos) RegistrarDetalle(id int) {
	if id != 0 {
		r.detalles[id] = struct{}{}
	}
}

// RegistrarMensualidad marca un id de mensualidad como removido.
func (r *Removidos) RegistrarMensualidad(id int) {
	if id != 0 {
		r.mensualidades[id] = struct{}{}
	}
}

// RegistrarMatricula marca un id de matrícula como removido.
func (r *Removidos) RegistrarMatricula(id int) {
	if id != 0 {
		r.matriculas[id] = struct{}{}
	}
}

// TieneDetalle indica si el id de detalle fue removido en esta sesión.
func (r *Removidos) TieneDetalle(id int) bool {
	_, ok := r.detalles[id]
	return ok
}

// TieneMensualidad indica si la mensualidad fue removida en esta sesión.
func (r *Removidos) TieneMensualidad(id int) bool {
	_, ok := r.mensualidades[id]
	return ok
}

// TieneMatricula indica si la matrícula fue removida en esta sesión.
func (r *Removidos) TieneMatricula(id int) bool {
	_, ok := r.matriculas[id]
	return ok
}
