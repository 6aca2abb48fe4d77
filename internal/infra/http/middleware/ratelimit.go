package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RelayTokenHeader identifica as chamadas que o próprio servidor faz ao relay.
const RelayTokenHeader = "X-Relay-Token"

// RateLimiter mantém um token bucket por IP.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration

	internalToken string
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		ttl:      10 * time.Minute,
	}
}

// ExemptToken libera do limite os requests com RelayTokenHeader igual a token.
// O sync e o envio da Lemlist passam pelo relay a partir do mesmo IP e não
// podem disputar o bucket com os clientes.
func (rl *RateLimiter) ExemptToken(token string) *RateLimiter {
	rl.internalToken = token
	return rl
}

func (rl *RateLimiter) internal(r *http.Request) bool {
	if rl.internalToken == "" {
		return false
	}
	got := r.Header.Get(RelayTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(rl.internalToken)) == 1
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup remove visitantes inativos; chamado periodicamente pelo servidor.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodOptions && !rl.internal(r) && !rl.Allow(ClientIP(r)) {
			rateLimited.Inc()
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error":   "Too many requests",
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP usa só o RemoteAddr. Headers de proxy só contam quando o router
// aplica o RealIP do chi (TRUST_PROXY), que reescreve o RemoteAddr antes daqui.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
