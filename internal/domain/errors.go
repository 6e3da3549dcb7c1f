package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrSesionNoEncontrada   = errors.New("sesión de cobranza no encontrada o expirada")
	ErrSinSeleccion         = errors.New("no se seleccionó concepto, arancel ni artículo")
	ErrConceptoDuplicado    = errors.New("el concepto ya figura en el detalle")
	ErrMatriculaSinConcepto = errors.New("no existe un concepto 'matrícula' en el catálogo")
	ErrImporteInvalido      = errors.New("el importe a cobrar es inválido")
	ErrDetalleInexistente   = errors.New("el detalle indicado no existe")
	ErrPagoEnCurso          = errors.New("ya hay un registro de pago en curso para esta sesión")
	ErrPagoYaRegistrado     = errors.New("la cobranza ya tiene un pago registrado")
	ErrPagoNoRegistrado     = errors.New("la cobranza todavía no tiene un pago registrado")
	ErrSinDetallesACobrar   = errors.New("no hay detalles con importe a cobrar")
)
