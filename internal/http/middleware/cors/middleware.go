package cors

import (
	"net/http"

	"github.com/rs/cors"
)

type Options struct {
	AllowedOrigins   []string
	AllowCredentials bool
	MaxAge           int
}

// Headers set by the API that browser clients need to read.
var exposedHeaders = []string{
	"Content-Disposition",
	"Retry-After",
	"X-Delivery-Kind",
	"X-Handoff-Origin",
	"X-Thumbnail-Blank",
	"X-RateLimit-Limit",
	"X-RateLimit-Remaining",
}

func Middleware(opts Options) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: opts.AllowCredentials,
		MaxAge:           opts.MaxAge,
	})

	return c.Handler
}
