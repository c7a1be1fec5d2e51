package handlers

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ClientKeyHeader must carry the shared client key on every /api request.
const ClientKeyHeader = "X-Client-Key"

const protocolMismatch = "Error 502: Bad Gateway - Protocol Mismatch."

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// securityHeaders sets the usual hardening headers for a JSON API
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hdr := w.Header()
		hdr.Set("X-Content-Type-Options", "nosniff")
		hdr.Set("X-Frame-Options", "SAMEORIGIN")
		hdr.Set("Referrer-Policy", "no-referrer")
		hdr.Set("Strict-Transport-Security", "max-age=15552000; includeSubDomains")
		hdr.Set("Content-Security-Policy", "default-src 'self'")
		hdr.Set("Cross-Origin-Opener-Policy", "same-origin")
		hdr.Set("X-DNS-Prefetch-Control", "off")
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) corsHandler() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.opts.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ClientKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

func (h *Handlers) rateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(h.opts.RateLimit, h.opts.RateWindow,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.Log.Warn("Rate limit exceeded", "ip", r.RemoteAddr, "path", r.URL.Path)
			http.Error(w, "Demasiadas peticiones.", http.StatusTooManyRequests)
		}),
	)
}

func (h *Handlers) maxBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// requireClientKey answers requests without the shared key with an opaque 502.
func (h *Handlers) requireClientKey(next http.Handler) http.Handler {
	want := []byte(h.opts.ClientKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		got := []byte(r.Header.Get(ClientKeyHeader))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			h.Log.Warn("Rejected request without valid client key", "ip", r.RemoteAddr, "path", r.URL.Path)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(protocolMismatch))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// envelopeWriter buffers a response so the JSON body can be sealed.
type envelopeWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func (e *envelopeWriter) Header() http.Header { return e.header }

func (e *envelopeWriter) WriteHeader(status int) {
	if e.status == 0 {
		e.status = status
	}
}

func (e *envelopeWriter) Write(p []byte) (int, error) {
	if e.status == 0 {
		e.status = http.StatusOK
	}
	return e.body.Write(p)
}

// envelope replaces JSON bodies with {"payload": <sealed JSON>}.
func (h *Handlers) envelope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := &envelopeWriter{header: w.Header()}
		next.ServeHTTP(buf, r)
		if buf.status == 0 {
			buf.status = http.StatusOK
		}

		if !strings.HasPrefix(buf.header.Get("Content-Type"), "application/json") || buf.body.Len() == 0 {
			w.WriteHeader(buf.status)
			w.Write(buf.body.Bytes())
			return
		}

		sealed, err := h.Envelope.Encrypt(bytes.TrimSpace(buf.body.Bytes()))
		if err != nil {
			h.Log.Error("Failed to seal response", "path", r.URL.Path, "error", err)
			w.Header().Del("Content-Length")
			respondJSON(w, http.StatusInternalServerError, ErrInternalServer)
			return
		}
		w.Header().Del("Content-Length")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(buf.status)
		json.NewEncoder(w).Encode(map[string]string{"payload": sealed})
	})
}
