package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns a CORS middleware handler. The dashboard API is read-only,
// so only GET and preflight requests are allowed.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
			HistoryStatusHeader,
		},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	})
}

// HistoryStatusHeader carries the fetch status on responses whose body
// cannot, such as CSV exports
const HistoryStatusHeader = "X-History-Status"
