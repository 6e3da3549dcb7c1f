// Package debounce provee una utilidad compartida de debounce con semántica
// explícita de cancelación, en lugar de timers armados ad hoc en cada
// componente que los necesita.
package debounce

import (
	"sync"
	"time"
)

// Debouncer ejecuta fn una sola vez, d después del último Touch. Cada Touch
// reinicia la espera. Stop cancela definitivamente: después de Stop ningún
// Touch vuelve a armar el timer y fn no se ejecuta más.
type Debouncer struct {
	mu      sync.Mutex
	d       time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// New crea el debouncer. fn se ejecuta en la goroutine del timer.
func New(d time.Duration, fn func()) *Debouncer {
	return &Debouncer{d: d, fn: fn}
}

// Touch (re)arma la espera. Es seguro llamarlo desde varias goroutines.
func (b *Debouncer) Touch() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return
	}
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.d, b.disparar)
}

func (b *Debouncer) disparar() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.timer = nil
	fn := b.fn
	b.mu.Unlock()
	fn()
}

// Stop cancela el timer pendiente y deja el debouncer inutilizable.
func (b *Debouncer) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Armado indica si hay una ejecución pendiente.
func (b *Debouncer) Armado() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timer != nil
}
