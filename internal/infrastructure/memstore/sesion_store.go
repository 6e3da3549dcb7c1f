// Package memstore guarda las sesiones de cobranza en memoria. Una sesión es
// estado de edición de corta vida; no se persiste, se descarta al cerrarla o
// al vencer su TTL de inactividad.
package memstore

import (
	"sync"
	"time"

	appcobranza "github.com/ncastellano/cobranza-api/internal/application/cobranza"
	"github.com/ncastellano/cobranza-api/pkg/debounce"
	"github.com/ncastellano/cobranza-api/pkg/logger"
)

// SesionStore implementa cobranza.SesionStore sobre un map protegido por
// RWMutex. Cada sesión lleva un debouncer de inactividad: cada acceso lo
// re-arma, y al vencer el TTL sin actividad la sesión se descarta sola.
type SesionStore struct {
	mu       sync.RWMutex
	sesiones map[string]*entrada
	ttl      time.Duration
	log      *logger.Logger
}

type entrada struct {
	sesion   *appcobranza.Sesion
	vencedor *debounce.Debouncer
}

// NewSesionStore construye el store. Con ttl cero las sesiones no vencen.
func NewSesionStore(ttl time.Duration, log *logger.Logger) *SesionStore {
	return &SesionStore{
		sesiones: make(map[string]*entrada),
		ttl:      ttl,
		log:      log,
	}
}

// Guardar registra la sesión y arma su vencimiento por inactividad.
func (s *SesionStore) Guardar(ses *appcobranza.Sesion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &entrada{sesion: ses}
	if s.ttl > 0 {
		id := ses.ID
		e.vencedor = debounce.New(s.ttl, func() { s.expirar(id) })
		e.vencedor.Touch()
	}
	s.sesiones[ses.ID] = e
}

// Obtener devuelve la sesión y renueva su TTL de inactividad.
func (s *SesionStore) Obtener(id string) (*appcobranza.Sesion, bool) {
	s.mu.RLock()
	e, ok := s.sesiones[id]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.vencedor != nil {
		e.vencedor.Touch()
	}
	return e.sesion, true
}

// Eliminar descarta la sesión y cancela su vencimiento pendiente.
func (s *SesionStore) Eliminar(id string) {
	s.mu.Lock()
	e, ok := s.sesiones[id]
	delete(s.sesiones, id)
	s.mu.Unlock()
	if ok && e.vencedor != nil {
		e.vencedor.Stop()
	}
}

// Largo devuelve la cantidad de sesiones vivas.
func (s *SesionStore) Largo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sesiones)
}

func (s *SesionStore) expirar(id string) {
	s.mu.Lock()
	e, ok := s.sesiones[id]
	if ok {
		delete(s.sesiones, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}
	e.vencedor.Stop()
	s.log.Info().Str("sesion", id).Msg("sesión de cobranza vencida por inactividad")
}
