package academia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ncastellano/cobranza-api/internal/domain"
	"github.com/ncastellano/cobranza-api/internal/domain/entity"
	"github.com/ncastellano/cobranza-api/pkg/logger"
)

// Client consume la API REST del core de la academia. Implementa el puerto
// AcademiaClient del caso de uso de cobranza.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente con el timeout configurado.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// GetAlumno trae los datos del alumno. Un 404 del core se devuelve como
// domain.ErrNotFound para que el handler lo mapee a su propio 404.
func (c *Client) GetAlumno(ctx context.Context, id int) (*entity.Alumno, error) {
	var w alumnoWire
	if err := c.getJSON(ctx, "/api/alumnos/"+strconv.Itoa(id), &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// GetDeuda trae la fotografía de deuda pendiente del alumno.
func (c *Client) GetDeuda(ctx context.Context, alumnoID int) (*entity.DeudaSnapshot, error) {
	var w deudaWire
	if err := c.getJSON(ctx, "/api/alumnos/"+strconv.Itoa(alumnoID)+"/deuda", &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// GetMensualidadesImpagas consulta el reporte de mensualidades impagas
// filtrado por fecha de inicio y nombre completo del alumno.
func (c *Client) GetMensualidadesImpagas(ctx context.Context, desde time.Time, nombre string) ([]entity.ReporteMensualidad, error) {
	q := url.Values{}
	q.Set("desde", desde.Format("2006-01-02"))
	q.Set("nombre", nombre)
	var ws []mensualidadWire
	if err := c.getJSON(ctx, "/api/reportes/mensualidades-impagas?"+q.Encode(), &ws); err != nil {
		return nil, err
	}
	filas := make([]entity.ReporteMensualidad, 0, len(ws))
	for _, w := range ws {
		filas = append(filas, w.toEntity())
	}
	return filas, nil
}

// GetMatricula trae el estado de la matrícula del año en curso. El core
// devuelve 404 si el alumno no tiene matrícula generada; eso se traduce a
// nil sin error (no hay nada que sincronizar).
func (c *Client) GetMatricula(ctx context.Context, alumnoID int) (*entity.EstadoMatricula, error) {
	var w matriculaWire
	err := c.getJSON(ctx, "/api/alumnos/"+strconv.Itoa(alumnoID)+"/matricula", &w)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity.EstadoMatricula{ID: w.ID, AlumnoID: w.AlumnoID, Anio: w.Anio, Pagada: w.Pagada}, nil
}

// GetConceptos trae el catálogo de conceptos cobrables.
func (c *Client) GetConceptos(ctx context.Context) ([]entity.Concepto, error) {
	var ws []conceptoWire
	if err := c.getJSON(ctx, "/api/conceptos", &ws); err != nil {
		return nil, err
	}
	conceptos := make([]entity.Concepto, 0, len(ws))
	for _, w := range ws {
		conceptos = append(conceptos, entity.Concepto{ID: w.ID, Descripcion: w.Descripcion, Precio: w.Precio})
	}
	return conceptos, nil
}

// GetMediosPago trae los medios de pago con sus recargos.
func (c *Client) GetMediosPago(ctx context.Context) ([]entity.MedioPago, error) {
	var ws []medioPagoWire
	if err := c.getJSON(ctx, "/api/medios-pago", &ws); err != nil {
		return nil, err
	}
	medios := make([]entity.MedioPago, 0, len(ws))
	for _, w := range ws {
		medios = append(medios, entity.MedioPago{ID: w.ID, Nombre: w.Nombre, Recargo: w.Recargo})
	}
	return medios, nil
}

// GetDisciplina trae una disciplina con sus aranceles vigentes.
func (c *Client) GetDisciplina(ctx context.Context, id int) (*entity.Disciplina, error) {
	var w disciplinaWire
	if err := c.getJSON(ctx, "/api/disciplinas/"+strconv.Itoa(id), &w); err != nil {
		return nil, err
	}
	return &entity.Disciplina{ID: w.ID, Nombre: w.Nombre, PrecioMes: w.PrecioMes, PrecioClase: w.PrecioClase}, nil
}

// GetArticulo trae un artículo de stock.
func (c *Client) GetArticulo(ctx context.Context, id int) (*entity.ArticuloStock, error) {
	var w articuloWire
	if err := c.getJSON(ctx, "/api/articulos/"+strconv.Itoa(id), &w); err != nil {
		return nil, err
	}
	return &entity.ArticuloStock{ID: w.ID, Nombre: w.Nombre, Precio: w.Precio, Stock: w.Stock}, nil
}

// RegistrarPago persiste el pago con sus detalles en una sola operación.
// El core asigna id y número de recibo y los devuelve en la cabecera.
func (c *Client) RegistrarPago(ctx context.Context, pago *entity.Pago, detalles []entity.DetallePago) (*entity.Pago, error) {
	body := registrarPagoWire{
		AlumnoID:      pago.AlumnoID,
		Fecha:         pago.Fecha,
		MedioPagoID:   pago.MedioPagoID,
		Total:         pago.Total,
		Observaciones: pago.Observaciones,
		Detalles:      make([]detallePagoWire, 0, len(detalles)),
	}
	for _, d := range detalles {
		body.Detalles = append(body.Detalles, detallePagoWire{
			DetalleID:      d.ID,
			ConceptoID:     d.ConceptoID,
			Descripcion:    d.Descripcion,
			Cuota:          d.Cuota,
			Valor:          d.Valor,
			BonificacionID: d.BonificacionID,
			RecargoID:      d.RecargoID,
			Importe:        d.ACobrar,
			MensualidadID:  d.MensualidadID,
			MatriculaID:    d.MatriculaID,
			ArticuloID:     d.ArticuloID,
		})
	}
	var w pagoWire
	if err := c.postJSON(ctx, "/api/pagos", body, &w); err != nil {
		return nil, err
	}
	return w.toEntity(), nil
}

// EliminarDetalle borra un detalle persistido en el core. Un 404 se trata
// como éxito: el detalle ya no existe, que es lo que se quería.
func (c *Client) EliminarDetalle(ctx context.Context, detalleID int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/detalles/"+strconv.Itoa(detalleID), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("academia: DELETE detalle %d: %w", detalleID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusOK {
		return nil
	}
	return c.statusError(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("academia: GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("academia: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("academia: POST %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("academia: decodificar respuesta de %s: %w", path, err)
	}
	return nil
}

// statusError arma un error con el cuerpo truncado para diagnóstico.
func (c *Client) statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	c.log.Warn().
		Int("status", resp.StatusCode).
		Str("url", resp.Request.URL.Path).
		Msg("respuesta no exitosa del core")
	return fmt.Errorf("academia: %s respondió %d: %s", resp.Request.URL.Path, resp.StatusCode, bytes.TrimSpace(body))
}
