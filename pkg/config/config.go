package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}
type Auth struct {
	Strategy string `envconfig:"STRATEGY" default:"jwt"`
	Jwt      *Jwt   `envconfig:"JWT"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"donation:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// EventBus selects the bus driver: memory, redis or kafka.
type EventBus struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	Stream string `envconfig:"STREAM" default:"donation-events"`
	Group  string `envconfig:"GROUP" default:"donation-service"`
}

type Kafka struct {
	Brokers []string `envconfig:"BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"TOPIC" default:"donation-events"`
	GroupID string   `envconfig:"GROUP_ID" default:"donation-service"`
}

type Settlement struct {
	PaymentMethod  string `envconfig:"PAYMENT_METHOD" default:"upi"`
	DefaultPurpose string `envconfig:"DEFAULT_PURPOSE" default:"General"`
}

type Cache struct {
	Driver string        `envconfig:"DRIVER" default:"memory"`
	TTL    time.Duration `envconfig:"TTL" default:"30s"`
	Prefix string        `envconfig:"PREFIX" default:"fund:progress:"`
}

// Reconcile schedules the fund ledger check. An empty schedule disables it.
type Reconcile struct {
	Schedule  string  `envconfig:"SCHEDULE" default:""`
	Tolerance float64 `envconfig:"TOLERANCE" default:"0.005"`
}

// Receipts configures the S3 receipt archive. An empty bucket disables it.
type Receipts struct {
	Bucket string `envconfig:"BUCKET"`
	Region string `envconfig:"REGION" default:"us-east-1"`
	Prefix string `envconfig:"PREFIX" default:"receipts"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[donation]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env        string      `envconfig:"APP_ENV" default:"development"`
	Server     *Server     `envconfig:"SERVER"`
	Log        *Log        `envconfig:"LOG"`
	DB         *DB         `envconfig:"DATABASE"`
	Auth       *Auth       `envconfig:"AUTH"`
	Redis      *Redis      `envconfig:"REDIS"`
	RateLimit  *RateLimit  `envconfig:"RATE_LIMIT"`
	EventBus   *EventBus   `envconfig:"EVENT_BUS"`
	Kafka      *Kafka      `envconfig:"KAFKA"`
	Settlement *Settlement `envconfig:"SETTLEMENT"`
	Cache      *Cache      `envconfig:"CACHE"`
	Reconcile  *Reconcile  `envconfig:"RECONCILE"`
	Receipts   *Receipts   `envconfig:"RECEIPTS"`
}
