package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	appcobranza "github.com/ncastellano/cobranza-api/internal/application/cobranza"
	"github.com/ncastellano/cobranza-api/internal/application/dto"
	"github.com/ncastellano/cobranza-api/internal/domain"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
)

// CobranzaHandler maneja las peticiones HTTP de las sesiones de cobranza (protegido).
type CobranzaHandler struct {
	uc *appcobranza.CobranzaUseCase
}

// NewCobranzaHandler construye el handler.
func NewCobranzaHandler(uc *appcobranza.CobranzaUseCase) *CobranzaHandler {
	return &CobranzaHandler{uc: uc}
}

// Abrir abre una sesión de cobranza para un alumno.
// POST /api/cobranzas
func (h *CobranzaHandler) Abrir(c *fiber.Ctx) error {
	var in dto.AbrirCobranzaRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.AlumnoID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "alumno_id requerido"})
	}
	vista, advertencias, err := h.uc.Abrir(c.Context(), in.AlumnoID)
	if err != nil {
		return errorJSON(c, err)
	}
	if in.MedioPagoID != 0 {
		if vista, err = h.uc.ElegirMedioPago(vista.ID, in.MedioPagoID); err != nil {
			return errorJSON(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(sesionResponse(vista, advertencias))
}

// Ver devuelve el estado actual de la sesión.
// GET /api/cobranzas/:id
func (h *CobranzaHandler) Ver(c *fiber.Ctx) error {
	vista, err := h.uc.Ver(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, nil))
}

// Refrescar re-sincroniza deuda, mensualidades y matrícula contra el core.
// POST /api/cobranzas/:id/refrescar
func (h *CobranzaHandler) Refrescar(c *fiber.Ctx) error {
	vista, advertencias, err := h.uc.Refrescar(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, advertencias))
}

// AgregarDetalle agrega detalles manuales (concepto, arancel y/o artículo).
// POST /api/cobranzas/:id/detalles
func (h *CobranzaHandler) AgregarDetalle(c *fiber.Ctx) error {
	var in dto.AgregarDetalleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vista, err := h.uc.AgregarDetalle(c.Context(), c.Params("id"), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sesionResponse(vista, nil))
}

// EditarImporte fija el importe a cobrar del detalle en :idx.
// PUT /api/cobranzas/:id/detalles/:idx
func (h *CobranzaHandler) EditarImporte(c *fiber.Ctx) error {
	idx, err := strconv.Atoi(c.Params("idx"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	var in dto.EditarImporteRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vista, err := h.uc.EditarImporte(c.Params("id"), idx, in.ACobrar)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, nil))
}

// QuitarDetalle elimina el detalle en :idx (borrando primero en el core si está persistido).
// DELETE /api/cobranzas/:id/detalles/:idx
func (h *CobranzaHandler) QuitarDetalle(c *fiber.Ctx) error {
	idx, err := strconv.Atoi(c.Params("idx"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "índice inválido"})
	}
	vista, err := h.uc.QuitarDetalle(c.Context(), c.Params("id"), idx)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, nil))
}

// ElegirMedioPago selecciona el medio de pago de la cabecera.
// PUT /api/cobranzas/:id/medio-pago
func (h *CobranzaHandler) ElegirMedioPago(c *fiber.Ctx) error {
	var in dto.ElegirMedioPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vista, err := h.uc.ElegirMedioPago(c.Params("id"), in.MedioPagoID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, nil))
}

// QuitarRecargo apaga el recargo del medio de pago para la sesión.
// POST /api/cobranzas/:id/quitar-recargo
func (h *CobranzaHandler) QuitarRecargo(c *fiber.Ctx) error {
	vista, err := h.uc.QuitarRecargo(c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sesionResponse(vista, nil))
}

// RegistrarPago registra el pago en el core con los detalles de importe no nulo.
// POST /api/cobranzas/:id/pago
func (h *CobranzaHandler) RegistrarPago(c *fiber.Ctx) error {
	var in dto.RegistrarPagoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	vista, err := h.uc.RegistrarPago(c.Context(), c.Params("id"), in.MedioPagoID, in.Observaciones)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sesionResponse(vista, nil))
}

// Recibo devuelve el PDF del recibo del pago ya registrado.
// GET /api/cobranzas/:id/recibo
func (h *CobranzaHandler) Recibo(c *fiber.Ctx) error {
	pdf, err := h.uc.ReciboPDF(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", "recibo-"+c.Params("id")+".pdf"))
	return c.Send(pdf)
}

// Cerrar descarta la sesión.
// DELETE /api/cobranzas/:id
func (h *CobranzaHandler) Cerrar(c *fiber.Ctx) error {
	if err := h.uc.Cerrar(c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// errorJSON traduce los errores de dominio a códigos HTTP.
func errorJSON(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrSesionNoEncontrada):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SESSION_NOT_FOUND", Message: "sesión no encontrada o vencida"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDetalleInexistente):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "DETALLE_NOT_FOUND", Message: "el detalle no existe"})
	case errors.Is(err, domain.ErrSinSeleccion):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hay que seleccionar un concepto, arancel o artículo"})
	case errors.Is(err, domain.ErrImporteInvalido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "importe negativo o mayor al pendiente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConceptoDuplicado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_CONCEPT", Message: "el concepto ya está en la cobranza"})
	case errors.Is(err, domain.ErrPagoEnCurso):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PAYMENT_IN_FLIGHT", Message: "ya hay un registro de pago en curso"})
	case errors.Is(err, domain.ErrPagoYaRegistrado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "ALREADY_PAID", Message: "la sesión ya tiene un pago registrado"})
	case errors.Is(err, domain.ErrPagoNoRegistrado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "NOT_PAID", Message: "la sesión no tiene un pago registrado"})
	case errors.Is(err, domain.ErrSinDetallesACobrar):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_PAYMENT", Message: "no hay detalles con importe a cobrar"})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
}

// sesionResponse mapea la vista de la sesión al DTO de respuesta.
func sesionResponse(v appcobranza.Vista, advertencias []string) dto.SesionResponse {
	out := dto.SesionResponse{
		ID:             v.ID,
		AlumnoID:       v.Alumno.ID,
		Alumno:         v.Alumno.NombreCompleto(),
		Detalles:       make([]dto.DetalleResponse, 0, len(v.Detalles)),
		TotalPendiente: v.Totales.Pendiente,
		TotalACobrar:   v.Totales.ACobrar,
		MedioPagoID:    v.MedioPagoID,
		AplicarRecargo: v.AplicarRecargo,
		Advertencias:   advertencias,
	}
	for i, det := range v.Detalles {
		out.Detalles = append(out.Detalles, detalleResponse(i, det))
	}
	if v.Pago != nil {
		out.NroRecibo = v.Pago.NroRecibo
		out.PagoID = v.Pago.ID
	}
	return out
}

func detalleResponse(i int, d entity.DetallePago) dto.DetalleResponse {
	return dto.DetalleResponse{
		Indice:         i,
		ID:             d.ID,
		Procedencia:    string(d.Procedencia),
		ConceptoID:     d.ConceptoID,
		Descripcion:    d.Descripcion,
		Cuota:          d.Cuota,
		Valor:          d.Valor,
		Pendiente:      d.Pendiente,
		ACobrar:        d.ACobrar,
		Pagado:         d.Pagado,
		EditadoUsuario: d.EditadoUsuario,
		MensualidadID:  d.MensualidadID,
		MatriculaID:    d.MatriculaID,
		ArticuloID:     d.ArticuloID,
		PagoID:         d.PagoID,
	}
}
