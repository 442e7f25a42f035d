package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker clásico (closed → open → half-open) delante del mailer
// SMTP: si el servidor de correo se cae, los workers de email dejan de
// martillarlo y los recibos quedan en retry hasta que el probe confirme que
// volvió.

// CBState es el estado observable del breaker.
type CBState int

const (
	CBClosed   CBState = iota // operación normal
	CBOpen                    // disparado: todo falla rápido sin tocar SMTP
	CBHalfOpen                // en prueba: deja pasar envíos de sondeo
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen corta Execute sin ejecutar nada mientras el breaker está abierto.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig agrupa los umbrales; cero en cualquier campo toma el default.
type CircuitBreakerConfig struct {
	FailureThreshold int           // fallos consecutivos que disparan el breaker
	SuccessThreshold int           // éxitos en half-open que lo cierran
	OpenTimeout      time.Duration // cuánto queda abierto antes de sondear
}

// DefaultCBConfig: umbrales pensados para un SMTP que suele recuperarse solo.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker es seguro para uso concurrente desde todos los workers.
type CircuitBreaker struct {
	mu        sync.Mutex
	state     CBState
	fails     int
	oks       int
	trippedAt time.Time
	cfg       CircuitBreakerConfig
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{state: CBClosed, cfg: cfg}
}

// State devuelve el estado actual, promoviendo open → half-open cuando el
// timeout de enfriamiento ya pasó.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CBOpen && time.Since(cb.trippedAt) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.oks = 0
	}
	return cb.state
}

// Execute corre fn a través del breaker. Con el breaker abierto devuelve
// ErrCircuitOpen sin invocar fn; el error de fn se propaga tal cual.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.recordFailure()
		return err
	}
	cb.recordSuccess()
	return nil
}

// recordFailure corre bajo cb.mu.
func (cb *CircuitBreaker) recordFailure() {
	cb.fails++
	cb.trippedAt = time.Now()

	switch cb.state {
	case CBClosed:
		if cb.fails >= cb.cfg.FailureThreshold {
			cb.state = CBOpen
			cb.oks = 0
		}
	case CBHalfOpen:
		// El sondeo falló: de vuelta a abierto, contador limpio.
		cb.state = CBOpen
		cb.fails = 0
	}
}

// recordSuccess corre bajo cb.mu.
func (cb *CircuitBreaker) recordSuccess() {
	switch cb.state {
	case CBClosed:
		cb.fails = 0
	case CBHalfOpen:
		cb.oks++
		if cb.oks >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.fails = 0
			cb.oks = 0
		}
	}
}
