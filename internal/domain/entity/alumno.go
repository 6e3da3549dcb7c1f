package entity

// Alumno representa un alumno de la academia (solo los campos que la cobranza necesita).
type Alumno struct {
	ID       int
	Nombre   string
	Apellido string
	DNI      string
	Email    string
	Telefono string
	Activo   bool
}

// NombreCompleto devuelve "Apellido, Nombre" para mostrar en el recibo.
func (a Alumno) NombreCompleto() string {
	if a.Apellido == "" {
		return a.Nombre
	}
	return a.Apellido + ", " + a.Nombre
}
