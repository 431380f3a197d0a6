package middleware

import (
	"net/http"
	"sync"
	"time"

	"pactumsuite/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// ventana counts requests from one client IP inside a fixed window.
type ventana struct {
	count     int
	windowEnd time.Time
}

// limitador is a fixed-window counter keyed by client IP. Expired entries are
// purged in the background once the first request arrives.
type limitador struct {
	limit   int
	window  time.Duration
	mu      sync.Mutex
	ips     map[string]*ventana
	purgeMu sync.Once
}

func nuevoLimitador(limit int, window time.Duration) *limitador {
	return &limitador{limit: limit, window: window, ips: make(map[string]*ventana)}
}

// permitir registers one request for ip and reports whether it is within the
// limit, together with the end of the current window.
func (l *limitador) permitir(ip string, now time.Time) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.ips[ip]
	if !ok || now.After(v.windowEnd) {
		v = &ventana{windowEnd: now.Add(l.window)}
		l.ips[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.windowEnd
}

func (l *limitador) purgar(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	purged := 0
	for ip, v := range l.ips {
		if now.After(v.windowEnd) {
			delete(l.ips, ip)
			purged++
		}
	}
	return purged
}

func (l *limitador) iniciarPurga(nombre string) {
	l.purgeMu.Do(func() {
		go func() {
			ticker := time.NewTicker(purgeInterval)
			defer ticker.Stop()
			for range ticker.C {
				if n := l.purgar(time.Now()); n > 0 {
					log.Debug().Str("limiter", nombre).Int("purged", n).Msg("rate limiter entries purged")
				}
			}
		}()
	})
}

func (l *limitador) handler(nombre, mensaje string) gin.HandlerFunc {
	return func(c *gin.Context) {
		l.iniciarPurga(nombre)
		ok, windowEnd := l.permitir(c.ClientIP(), time.Now())
		if !ok {
			c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(mensaje))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limits login and refresh attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return nuevoLimitador(20, time.Minute).
		handler("login", "Demasiados intentos de login. Intente en 1 minuto.")
}

// RateLimiter returns a general-purpose limiter of limit requests per window per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return nuevoLimitador(limit, window).
		handler("api", "Demasiadas solicitudes. Intente nuevamente en un momento.")
}
