package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/EmmaVZ89/PointOfSale-sub001/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Rate limiting por IP con ventanas deslizantes, todo en memoria. Para una
// caja con un puñado de terminales no hace falta moverlo a Redis; si el
// backend se escala horizontalmente habrá que revisarlo.

// windowCounter cuenta solicitudes de una IP dentro de su ventana vigente.
type windowCounter struct {
	mu        sync.Mutex
	count     int
	windowEnd time.Time
}

// allow consume un slot de la ventana; false si el tope ya se agotó.
func (w *windowCounter) allow(limit int, window time.Duration) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	if now.After(w.windowEnd) {
		w.count = 0
		w.windowEnd = now.Add(window)
	}
	w.count++
	return w.count <= limit
}

func (w *windowCounter) retryAfter() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.windowEnd.Format(time.RFC1123)
}

// ipLimiter reparte un windowCounter por IP.
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowCounter
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{entries: make(map[string]*windowCounter)}
}

func (l *ipLimiter) counter(ip string) *windowCounter {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[ip]
	if !ok {
		e = &windowCounter{}
		l.entries[ip] = e
	}
	return e
}

// purge descarta los contadores cuya ventana ya venció y devuelve cuántos sacó.
func (l *ipLimiter) purge(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	purged := 0
	for ip, e := range l.entries {
		e.mu.Lock()
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
		e.mu.Unlock()
	}
	return purged
}

var (
	loginLimiter = newIPLimiter()
	apiLimiter   = newIPLimiter()
)

// LoginRateLimiter corta fuerza bruta contra /auth/login: 20 intentos por
// minuto por IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loginLimiter.counter(c.ClientIP()).allow(20, time.Minute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter aplica un tope general de solicitudes por IP sobre toda la API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := apiLimiter.counter(c.ClientIP())
		if !entry.allow(limit, window) {
			c.Header("Retry-After", entry.retryAfter())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// Un goroutine de limpieza evita que los mapas acumulen IPs que no vuelven.
const purgeInterval = 5 * time.Minute

func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()

		for range ticker.C {
			now := time.Now()
			login := loginLimiter.purge(now)
			api := apiLimiter.purge(now)
			if login > 0 || api > 0 {
				log.Debug().
					Int("login_purged", login).
					Int("api_purged", api).
					Msg("rate limiter: ventanas vencidas purgadas")
			}
		}
	}()
}
