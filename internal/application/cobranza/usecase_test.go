package cobranza_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcobranza "github.com/ncastellano/cobranza-api/internal/application/cobranza"
	"github.com/ncastellano/cobranza-api/internal/application/dto"
	"github.com/ncastellano/cobranza-api/internal/domain"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
	"github.com/ncastellano/cobranza-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de test
// ──────────────────────────────────────────────────────────────────────────────

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// clienteFalso implementa AcademiaClient con campos funcionales por método.
type clienteFalso struct {
	alumno        *entity.Alumno
	deuda         *entity.DeudaSnapshot
	mensualidades []entity.ReporteMensualidad
	matricula     *entity.EstadoMatricula
	conceptos     []entity.Concepto
	medios        []entity.MedioPago
	disciplina    *entity.Disciplina
	articulo      *entity.ArticuloStock

	errDeuda       error
	errEliminar    error
	errRegistrar   error
	alRegistrar    func() // corre dentro de RegistrarPago, antes de responder
	eliminados     []int
	pagosRecibidos []*entity.Pago
}

func (c *clienteFalso) GetAlumno(ctx context.Context, id int) (*entity.Alumno, error) {
	return c.alumno, nil
}

func (c *clienteFalso) GetDeuda(ctx context.Context, alumnoID int) (*entity.DeudaSnapshot, error) {
	if c.errDeuda != nil {
		return nil, c.errDeuda
	}
	return c.deuda, nil
}

func (c *clienteFalso) GetMensualidadesImpagas(ctx context.Context, desde time.Time, nombre string) ([]entity.ReporteMensualidad, error) {
	return c.mensualidades, nil
}

func (c *clienteFalso) GetMatricula(ctx context.Context, alumnoID int) (*entity.EstadoMatricula, error) {
	return c.matricula, nil
}

func (c *clienteFalso) GetConceptos(ctx context.Context) ([]entity.Concepto, error) {
	return c.conceptos, nil
}

func (c *clienteFalso) GetMediosPago(ctx context.Context) ([]entity.MedioPago, error) {
	return c.medios, nil
}

func (c *clienteFalso) GetDisciplina(ctx context.Context, id int) (*entity.Disciplina, error) {
	return c.disciplina, nil
}

func (c *clienteFalso) GetArticulo(ctx context.Context, id int) (*entity.ArticuloStock, error) {
	return c.articulo, nil
}

func (c *clienteFalso) RegistrarPago(ctx context.Context, pago *entity.Pago, detalles []entity.DetallePago) (*entity.Pago, error) {
	if c.errRegistrar != nil {
		return nil, c.errRegistrar
	}
	if c.alRegistrar != nil {
		c.alRegistrar()
	}
	c.pagosRecibidos = append(c.pagosRecibidos, pago)
	registrado := *pago
	registrado.ID = 900
	registrado.NroRecibo = "0001-00000042"
	return &registrado, nil
}

func (c *clienteFalso) EliminarDetalle(ctx context.Context, detalleID int) error {
	if c.errEliminar != nil {
		return c.errEliminar
	}
	c.eliminados = append(c.eliminados, detalleID)
	return nil
}

// storeFalso guarda sesiones en un map sin TTL.
type storeFalso struct {
	sesiones map[string]*appcobranza.Sesion
}

func nuevoStoreFalso() *storeFalso {
	return &storeFalso{sesiones: make(map[string]*appcobranza.Sesion)}
}

func (s *storeFalso) Guardar(ses *appcobranza.Sesion) { s.sesiones[ses.ID] = ses }
func (s *storeFalso) Obtener(id string) (*appcobranza.Sesion, bool) {
	ses, ok := s.sesiones[id]
	return ses, ok
}
func (s *storeFalso) Eliminar(id string) { delete(s.sesiones, id) }

func clienteBase() *clienteFalso {
	return &clienteFalso{
		alumno: &entity.Alumno{ID: 1, Nombre: "Ana", Apellido: "Pereyra"},
		conceptos: []entity.Concepto{
			{ID: 3, Descripcion: "Seguro anual", Precio: d(300)},
			{ID: 7, Descripcion: "MATRICULA", Precio: d(2000)},
		},
		medios: []entity.MedioPago{
			{ID: 1, Nombre: "Efectivo", Recargo: decimal.Zero},
			{ID: 2, Nombre: "Tarjeta", Recargo: d(50)},
		},
	}
}

func nuevoUC(c *clienteFalso) (*appcobranza.CobranzaUseCase, *storeFalso) {
	store := nuevoStoreFalso()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	return appcobranza.NewCobranzaUseCase(c, store, nil, log), store
}

// ──────────────────────────────────────────────────────────────────────────────
// Abrir / Refrescar
// ──────────────────────────────────────────────────────────────────────────────

func TestAbrir_SincronizaDeudaMensualidadesYMatricula(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	c.mensualidades = []entity.ReporteMensualidad{
		{MensualidadID: 100, Disciplina: "Folklore", Cuota: "5", Importe: d(2000), Total: d(2000)},
	}
	c.matricula = &entity.EstadoMatricula{ID: 55, AlumnoID: 1, Anio: 2026, Pagada: false}
	uc, _ := nuevoUC(c)

	vista, advertencias, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, advertencias)
	require.Len(t, vista.Detalles, 3)
	assert.Equal(t, "Seguro anual", vista.Detalles[0].Descripcion)
	assert.Equal(t, "Folklore", vista.Detalles[1].Descripcion)
	assert.Equal(t, "Matrícula", vista.Detalles[2].Descripcion)
	assert.True(t, vista.Totales.ACobrar.Equal(d(4300)), "300 + 2000 + 2000")
}

// La caída de un fetch degrada a advertencia: la sesión abre igual y el dato
// afectado queda vacío, no se aborta ni se limpia lo demás.
func TestAbrir_FallaDeDeudaNoAbortaLaApertura(t *testing.T) {
	c := clienteBase()
	c.errDeuda = errors.New("timeout")
	c.mensualidades = []entity.ReporteMensualidad{
		{MensualidadID: 100, Disciplina: "Folklore", Cuota: "5", Importe: d(2000), Total: d(2000)},
	}
	uc, _ := nuevoUC(c)

	vista, advertencias, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)
	assert.NotEmpty(t, advertencias)
	require.Len(t, vista.Detalles, 1)
	assert.Equal(t, "Folklore", vista.Detalles[0].Descripcion)
}

// Refrescar con el mismo snapshot es un no-op (guarda por huella); un
// snapshot nuevo vuelve a disparar el merge.
func TestRefrescar_GuardaPorSnapshot(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	// Mismo snapshot: nada cambia
	otra, _, err := uc.Refrescar(context.Background(), vista.ID)
	require.NoError(t, err)
	assert.Equal(t, vista.Detalles, otra.Detalles)

	// Snapshot nuevo: el saldo actualizado entra
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(150)},
	}}
	otra, _, err = uc.Refrescar(context.Background(), vista.ID)
	require.NoError(t, err)
	require.Len(t, otra.Detalles, 1)
	assert.True(t, otra.Detalles[0].Pendiente.Equal(d(150)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Alta manual
// ──────────────────────────────────────────────────────────────────────────────

func TestAgregarDetalle_ConceptoDelCatalogo(t *testing.T) {
	c := clienteBase()
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	conceptoID := 3
	vista, err = uc.AgregarDetalle(context.Background(), vista.ID, dto.AgregarDetalleRequest{ConceptoID: &conceptoID})
	require.NoError(t, err)
	require.Len(t, vista.Detalles, 1)
	assert.Equal(t, entity.ProcManualConcepto, vista.Detalles[0].Procedencia)
	assert.True(t, vista.Detalles[0].ACobrar.Equal(d(300)))
}

// Propiedad 2: agregar dos veces el mismo concepto se rechaza sin tocar el estado.
func TestAgregarDetalle_ConceptoDuplicadoRechazado(t *testing.T) {
	c := clienteBase()
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	conceptoID := 3
	vista, err = uc.AgregarDetalle(context.Background(), vista.ID, dto.AgregarDetalleRequest{ConceptoID: &conceptoID})
	require.NoError(t, err)

	_, err = uc.AgregarDetalle(context.Background(), vista.ID, dto.AgregarDetalleRequest{ConceptoID: &conceptoID})
	assert.ErrorIs(t, err, domain.ErrConceptoDuplicado)

	otra, err := uc.Ver(vista.ID)
	require.NoError(t, err)
	assert.Len(t, otra.Detalles, 1, "el estado quedó intacto")
}

func TestAgregarDetalle_ArancelDeDisciplina(t *testing.T) {
	c := clienteBase()
	c.disciplina = &entity.Disciplina{ID: 4, Nombre: "Danza Clásica", PrecioMes: d(2500), PrecioClase: d(400)}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	vista, err = uc.AgregarDetalle(context.Background(), vista.ID, dto.AgregarDetalleRequest{
		Arancel: &dto.ArancelSeleccion{DisciplinaID: 4, Tipo: entity.ArancelClase, Periodo: "Agosto 2026", Cantidad: 3},
	})
	require.NoError(t, err)
	require.Len(t, vista.Detalles, 1)
	assert.Equal(t, "Danza Clásica - Clase - Agosto 2026", vista.Detalles[0].Descripcion)
	assert.True(t, vista.Detalles[0].ACobrar.Equal(d(1200)), "400 x 3")
}

func TestAgregarDetalle_SinSeleccion(t *testing.T) {
	c := clienteBase()
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	_, err = uc.AgregarDetalle(context.Background(), vista.ID, dto.AgregarDetalleRequest{})
	assert.ErrorIs(t, err, domain.ErrSinSeleccion)
}

// ──────────────────────────────────────────────────────────────────────────────
// Baja de detalles
// ──────────────────────────────────────────────────────────────────────────────

// Propiedad 7: si el DELETE en el core falla, el detalle sigue en la lista.
func TestQuitarDetalle_FallaDelCoreNoQuitaLocalmente(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 5, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	c.errEliminar = errors.New("500 del core")
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, vista.Detalles, 1)

	_, err = uc.QuitarDetalle(context.Background(), vista.ID, 0)
	assert.Error(t, err)

	otra, err := uc.Ver(vista.ID)
	require.NoError(t, err)
	require.Len(t, otra.Detalles, 1, "el detalle id=5 sigue intacto")
	assert.Equal(t, 5, otra.Detalles[0].ID)
}

// Propiedad 4 de punta a punta: quitar un detalle auto y refrescar con el
// mismo snapshot del backend no lo reintroduce.
func TestQuitarDetalle_NoResucitaTrasRefrescar(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 42, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, vista.Detalles, 1)

	vista, err = uc.QuitarDetalle(context.Background(), vista.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, vista.Detalles)
	assert.Equal(t, []int{42}, c.eliminados, "se borró primero en el core")

	// El backend todavía informa el id 42 (otro snapshot, mismo contenido
	// salvo el saldo para forzar el re-merge)
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 42, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(299)},
	}}
	vista, _, err = uc.Refrescar(context.Background(), vista.ID)
	require.NoError(t, err)
	assert.Empty(t, vista.Detalles, "el id 42 no debe reaparecer en la sesión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales y recargo
// ──────────────────────────────────────────────────────────────────────────────

func TestRecargo_AplicadoYQuitarEsUnaSolaVia(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(1000), Saldo: d(1000)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	// Medio con recargo 50: pendiente incluye el recargo, a cobrar no.
	vista, err = uc.ElegirMedioPago(vista.ID, 2)
	require.NoError(t, err)
	assert.True(t, vista.Totales.Pendiente.Equal(d(1050)))
	assert.True(t, vista.Totales.ACobrar.Equal(d(1000)))

	vista, err = uc.QuitarRecargo(vista.ID)
	require.NoError(t, err)
	assert.False(t, vista.AplicarRecargo)
	assert.True(t, vista.Totales.Pendiente.Equal(d(1000)))
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro del pago
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistrarPago_FiltraImportesCeroYEstampaRecibo(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
		{ID: 11, ConceptoID: 9, Descripcion: "Examen fin de año", Valor: d(450), Saldo: d(450)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	// El segundo detalle no se cobra en esta pasada
	vista, err = uc.EditarImporte(vista.ID, 1, decimal.Zero)
	require.NoError(t, err)

	vista, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "paga el seguro")
	require.NoError(t, err)
	assert.Equal(t, "0001-00000042", vista.Pago.NroRecibo)
	assert.True(t, vista.Pago.Total.Equal(d(300)), "solo el detalle con importe")
	require.Len(t, c.pagosRecibidos, 1)
	assert.True(t, c.pagosRecibidos[0].Total.Equal(d(300)))

	assert.True(t, vista.Detalles[0].Pagado)
	assert.False(t, vista.Detalles[1].Pagado)
}

func TestRegistrarPago_FallaDelCoreDejaTodoIntacto(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	c.errRegistrar = errors.New("500 del core")
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	_, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	assert.Error(t, err)

	otra, err := uc.Ver(vista.ID)
	require.NoError(t, err)
	assert.Nil(t, otra.Pago)
	assert.False(t, otra.Detalles[0].Pagado)

	// El lock de envío se soltó: un reintento posterior funciona
	c.errRegistrar = nil
	otra, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	require.NoError(t, err)
	assert.NotNil(t, otra.Pago)
}

func TestRegistrarPago_SegundoRegistroRechazado(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	_, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	require.NoError(t, err)

	_, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	assert.ErrorIs(t, err, domain.ErrPagoYaRegistrado)
}

// Mientras el registro está en vuelo la sesión queda congelada: una edición
// concurrente se rechaza y al confirmar solo se marcan pagadas las líneas que
// efectivamente se enviaron al core.
func TestRegistrarPago_EdicionEnVueloRechazadaYNoMarcaDeMas(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 10, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
		{ID: 11, ConceptoID: 9, Descripcion: "Examen fin de año", Valor: d(450), Saldo: d(450)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	// Solo se envía el id 10; el examen queda afuera de esta pasada.
	vista, err = uc.EditarImporte(vista.ID, 1, decimal.Zero)
	require.NoError(t, err)

	// Con el pago en vuelo, alguien intenta volver a cobrar el examen.
	c.alRegistrar = func() {
		_, err := uc.EditarImporte(vista.ID, 1, d(450))
		assert.ErrorIs(t, err, domain.ErrPagoEnCurso)
	}

	vista, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	require.NoError(t, err)
	require.Len(t, vista.Detalles, 2)
	assert.True(t, vista.Detalles[0].Pagado)
	assert.False(t, vista.Detalles[1].Pagado, "no se envió, no puede quedar pagado")
	assert.Equal(t, 0, vista.Detalles[1].PagoID)
	assert.True(t, vista.Detalles[1].Pendiente.Equal(d(450)), "su pendiente queda intacto")
}

func TestRegistrarPago_SinDetallesACobrar(t *testing.T) {
	c := clienteBase()
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	_, err = uc.RegistrarPago(context.Background(), vista.ID, 1, "")
	assert.ErrorIs(t, err, domain.ErrSinDetallesACobrar)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ciclo de vida
// ──────────────────────────────────────────────────────────────────────────────

// El registro de removidos muere con la sesión: una sesión nueva para el
// mismo alumno vuelve a traer el detalle que la anterior había quitado.
func TestCerrar_DescartaRemovidos(t *testing.T) {
	c := clienteBase()
	c.deuda = &entity.DeudaSnapshot{AlumnoID: 1, Detalles: []entity.DetalleDeuda{
		{ID: 42, ConceptoID: 3, Descripcion: "Seguro anual", Valor: d(300), Saldo: d(300)},
	}}
	uc, _ := nuevoUC(c)
	vista, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)

	vista, err = uc.QuitarDetalle(context.Background(), vista.ID, 0)
	require.NoError(t, err)
	require.NoError(t, uc.Cerrar(vista.ID))

	_, err = uc.Ver(vista.ID)
	assert.ErrorIs(t, err, domain.ErrSesionNoEncontrada)

	nueva, _, err := uc.Abrir(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, nueva.Detalles, 1, "sesión nueva, registro de removidos nuevo")
}
