package config

import "time"

type HTTP struct {
	BaseURL       string    `env:"BASE_URL,expand" envDefault:"/"`
	Address       string    `env:"ADDRESS,expand" envDefault:":3003"`
	MaxUploadSize int64     `env:"MAX_UPLOAD_SIZE,expand" envDefault:"67108864"`
	RateLimit     RateLimit `envPrefix:"RATE_LIMIT_"`
	CORS          CORS      `envPrefix:"CORS_"`
}

type CORS struct {
	Enabled          bool     `env:"ENABLED,expand" envDefault:"false"`
	AllowedOrigins   []string `env:"ALLOWED_ORIGINS,expand" envSeparator:"," envDefault:"*"`
	AllowCredentials bool     `env:"ALLOW_CREDENTIALS,expand" envDefault:"false"`
	MaxAge           int      `env:"MAX_AGE,expand" envDefault:"600"`
}

type RateLimit struct {
	Enabled      bool          `env:"ENABLED,expand" envDefault:"true"`
	Interval     time.Duration `env:"INTERVAL,expand" envDefault:"100ms"`
	MaxBurst     int           `env:"MAX_BURST,expand" envDefault:"20"`
	CacheSize    int           `env:"CACHE_SIZE,expand" envDefault:"1024"`
	CacheTTL     time.Duration `env:"CACHE_TTL,expand" envDefault:"10m"`
	TrustHeaders bool          `env:"TRUST_HEADERS,expand" envDefault:"false"`
}
