package config

import "time"

type Split struct {
	Prefix      string        `env:"PREFIX,expand" envDefault:"split"`
	Concurrency int           `env:"CONCURRENCY,expand" envDefault:"4"`
	SessionTTL  time.Duration `env:"SESSION_TTL,expand" envDefault:"1h"`
	MaxSessions int           `env:"MAX_SESSIONS,expand" envDefault:"256"`
}

type Thumbnail struct {
	URI         string             `env:"URI,expand" envDefault:"poppler://"`
	Concurrency int                `env:"CONCURRENCY,expand" envDefault:"5"`
	CacheSize   int                `env:"CACHE_SIZE,expand" envDefault:"512"`
	Scale       float64            `env:"SCALE,expand" envDefault:"0.25"`
	RateLimit   ThumbnailRateLimit `envPrefix:"RATE_LIMIT_"`
}

type ThumbnailRateLimit struct {
	Enabled  bool          `env:"ENABLED,expand" envDefault:"false"`
	Interval time.Duration `env:"INTERVAL,expand" envDefault:"100ms"`
	MaxBurst int           `env:"MAX_BURST,expand" envDefault:"10"`
}

type Document struct {
	URI string `env:"URI,expand" envDefault:"pdfcpu://"`
}

type Archive struct {
	URI string `env:"URI,expand" envDefault:"zip://?level=6"`
}

type Handoff struct {
	URI string `env:"URI,expand" envDefault:"memory://"`
}

type Sink struct {
	URI string `env:"URI,expand" envDefault:"local://./out"`
}

type TaskRunner struct {
	URI string `env:"URI,expand" envDefault:"memory://?parallelism=1"`
}
