package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"calendarApp/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const RequestIdKey contextKey = "request_id"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-ID")
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestId)

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := GetRequestID(r.Context())

		logger.Info(
			"HTTP_IN: Начало запроса",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr),
		)

		lw := &loggingWriter{
			ResponseWriter: w,
			status:         http.StatusOK,
		}
		next.ServeHTTP(lw, r)

		logLevel := zap.InfoLevel
		if lw.status >= 400 && lw.status < 500 {
			logLevel = zap.WarnLevel
		} else if lw.status >= 500 {
			logLevel = zap.ErrorLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: Завершение запроса",
			zap.String("request_id", requestId),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("ms", time.Since(start)),
		)
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

// writeError ответ в общем конверте API {success: false, error}
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	}); err != nil {
		logger.Error("HTTP: Ошибка записи ответа", err)
	}
}

// timeoutWriter буферизует ответ обработчика, пока не ясно, успел ли он до таймаута
type timeoutWriter struct {
	mu       sync.Mutex
	header   http.Header
	buf      bytes.Buffer
	code     int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.code != 0 {
		return
	}
	tw.code = code
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.code == 0 {
		tw.code = http.StatusOK
	}
	return tw.buf.Write(b)
}

// Timeout ограничивает время обработки запроса; по истечении отдаёт 504,
// а контекст запроса отменяется, чтобы обращения к хранилищу прервались
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := GetRequestID(r.Context())

			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			r = r.WithContext(ctx)

			tw := &timeoutWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicChan := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicChan <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicChan:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()

				dst := w.Header()
				for k, v := range tw.header {
					dst[k] = v
				}
				if tw.code == 0 {
					tw.code = http.StatusOK
				}
				w.WriteHeader(tw.code)
				if _, err := w.Write(tw.buf.Bytes()); err != nil {
					logger.Error("HTTP: Ошибка записи ответа", err)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true

				// клиент отключился сам, отвечать некому
				if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return
				}
				logger.Warn(
					"HTTP: таймаут запроса",
					zap.String("request_id", requestId),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("client_ip", r.RemoteAddr),
					zap.Duration("ms", timeout),
				)
				writeError(w, http.StatusGatewayTimeout, "Request timed out")
			}
		})
	}
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// rateLimiter фиксированное окно на IP; истёкшие записи вычищаются не чаще раза за окно
type rateLimiter struct {
	mtx       sync.Mutex
	rpm       int
	window    time.Duration
	clients   map[string]*clientInfo
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(rpm int) *rateLimiter {
	return &rateLimiter{
		rpm:     rpm,
		window:  time.Minute,
		clients: make(map[string]*clientInfo),
		now:     time.Now,
	}
}

// sweep вызывается под mtx
func (l *rateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for ip, info := range l.clients {
		if now.After(info.resetAt) {
			delete(l.clients, ip)
		}
	}
}

func RateLimit(rpm int) func(http.Handler) http.Handler {
	return newRateLimiter(rpm).middleware
}

func (l *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.rpm <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		ip := getIp(r)
		now := l.now()

		l.mtx.Lock()
		l.sweep(now)

		info, exists := l.clients[ip]

		if !exists {
			info = &clientInfo{
				count:   1,
				resetAt: now.Add(l.window),
			}
			l.clients[ip] = info
		} else if now.After(info.resetAt) {
			info.count = 1
			info.resetAt = now.Add(l.window)
		} else {
			if info.count >= l.rpm {
				retryAfter := int(info.resetAt.Sub(now).Seconds()) + 1
				l.mtx.Unlock()

				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("request_id", GetRequestID(r.Context())),
					zap.String("client_ip", ip))

				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "Too many requests, try again later")
				return
			}

			info.count++
		}

		// значения читаются до разблокировки
		remaining := l.rpm - info.count
		resetUnix := info.resetAt.Unix()

		l.mtx.Unlock()

		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.rpm))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))

		next.ServeHTTP(w, r)
	})
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
