package middleware

import (
	"log"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

func LoggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			userID := GetUserID(r)
			if userID == "" {
				userID = "anonymous"
			}

			log.Printf("[%s] %s %s - Status: %d - Duration: %v - User: %s",
				r.Method,
				r.URL.Path,
				r.RemoteAddr,
				rec.statusCode,
				time.Since(start),
				userID,
			)
		})
	}
}
