package http

import (
	"github.com/gofiber/fiber/v2"

	appcobranza "github.com/ncastellano/cobranza-api/internal/application/cobranza"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CobranzaUC *appcobranza.CobranzaUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token del core de la academia).
	// Los profesores no cobran: solo admin y secretaría.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireRole("admin", "secretaria"))

	cobranzas := protected.Group("/cobranzas")
	handler := NewCobranzaHandler(deps.CobranzaUC)
	cobranzas.Post("/", handler.Abrir)
	cobranzas.Get("/:id", handler.Ver)
	cobranzas.Delete("/:id", handler.Cerrar)
	cobranzas.Post("/:id/refrescar", handler.Refrescar)
	cobranzas.Post("/:id/detalles", handler.AgregarDetalle)
	cobranzas.Put("/:id/detalles/:idx", handler.EditarImporte)
	cobranzas.Delete("/:id/detalles/:idx", handler.QuitarDetalle)
	cobranzas.Put("/:id/medio-pago", handler.ElegirMedioPago)
	cobranzas.Post("/:id/quitar-recargo", handler.QuitarRecargo)
	cobranzas.Post("/:id/pago", handler.RegistrarPago)
	cobranzas.Get("/:id/recibo", handler.Recibo)
}
