package setup

import (
	"context"
	"net/http"

	"github.com/bornholm/pdfsplit/internal/config"
	httpServer "github.com/bornholm/pdfsplit/internal/http"
	"github.com/bornholm/pdfsplit/internal/http/handler/metrics"
	"github.com/bornholm/pdfsplit/internal/http/middleware/cors"
	"github.com/bornholm/pdfsplit/internal/http/middleware/ratelimit"
	"github.com/pkg/errors"
)

func NewHTTPServerFromConfig(ctx context.Context, conf *config.Config) (*httpServer.Server, error) {
	api, err := getAPIHandlerFromConfig(ctx, conf)
	if err != nil {
		return nil, errors.Wrap(err, "could not configure api handler from config")
	}

	var apiHandler http.Handler = api

	if conf.HTTP.RateLimit.Enabled {
		apiHandler = ratelimit.Middleware(ratelimit.Options{
			TrustHeaders: conf.HTTP.RateLimit.TrustHeaders,
			Interval:     conf.HTTP.RateLimit.Interval,
			MaxBurst:     conf.HTTP.RateLimit.MaxBurst,
			CacheSize:    conf.HTTP.RateLimit.CacheSize,
			CacheTTL:     conf.HTTP.RateLimit.CacheTTL,
		})(apiHandler)
	}

	if conf.HTTP.CORS.Enabled {
		apiHandler = cors.Middleware(cors.Options{
			AllowedOrigins:   conf.HTTP.CORS.AllowedOrigins,
			AllowCredentials: conf.HTTP.CORS.AllowCredentials,
			MaxAge:           conf.HTTP.CORS.MaxAge,
		})(apiHandler)
	}

	options := []httpServer.OptionFunc{
		httpServer.WithAddress(conf.HTTP.Address),
		httpServer.WithBaseURL(conf.HTTP.BaseURL),
		httpServer.WithMount("/api/v1/", apiHandler),
		httpServer.WithMount("/metrics/", metrics.NewHandler()),
	}

	server := httpServer.NewServer(options...)

	return server, nil
}
