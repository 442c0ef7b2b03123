package app

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/segmentio/kafka-go"
	"github.com/shandysiswandi/otpkeeper/internal/migrations"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/clock"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/config"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/hash"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/instrument"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/jwt"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/messaging"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/pgmigrate"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/router"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/secretbox"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/uid"
	"github.com/shandysiswandi/otpkeeper/internal/pkg/validator"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

const pubsubScope = "https://www.googleapis.com/auth/pubsub"

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("hash.bcrypt.cost"), a.config.GetString("hash.bcrypt.pepper"))

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		ID:        a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

// initSecretBox reads the vault keyring. Keys are base64 encoded and indexed
// by version under vault.secret.keys.
func (a *App) initSecretBox() {
	raw := a.config.GetMap("vault.secret.keys")
	keys := make(map[uint16][]byte, len(raw))
	for version, encoded := range raw {
		v, err := strconv.ParseUint(version, 10, 16)
		if err != nil {
			slog.Error("failed to parse vault key version", "version", version, "error", err)
			os.Exit(1)
		}

		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			slog.Error("failed to decode vault key", "version", version, "error", err)
			os.Exit(1)
		}
		keys[uint16(v)] = key
	}

	current := a.config.GetInt("vault.secret.current_version")
	sealer, err := secretbox.NewAESGCM(uint16(current), keys) //nolint:gosec // validated by NewAESGCM
	if err != nil {
		slog.Error("failed to init vault secret box", "error", err)
		os.Exit(1)
	}
	a.sealer = sealer
}

func (a *App) initDatabase() {
	dsn := a.config.GetString("database.url")

	if a.config.GetBool("database.migrate") {
		migrateCtx, cancel := context.WithTimeout(a.ctx, 30*time.Second)
		defer cancel()
		if err := pgmigrate.Up(migrateCtx, dsn, migrations.FS); err != nil {
			slog.Error("failed to migrate DB", "error", err)
			os.Exit(1)
		}
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.idemp = idempotency.NewRedis(a.cacheConn,
		idempotency.WithLock(a.config.GetSecond("redis.idempotency.lock_seconds")),
		idempotency.WithRetention(a.config.GetMinute("redis.idempotency.retention_minutes")),
	)
}

func (a *App) initMessaging() {
	driver := strings.TrimSpace(a.config.GetString("messaging.driver"))
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			Addr: a.config.GetString("messaging.nsq.producer_addr"),
			Config: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.MaxInFlight = a.config.GetInt("messaging.nsq.producer_config.max_in_flight")
				cfg.DialTimeout = a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds")
				cfg.ReadTimeout = a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds")
				cfg.WriteTimeout = a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds")
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
				nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers:      a.config.GetArray("messaging.kafka.brokers"),
			BatchTimeout: time.Duration(a.config.GetInt("messaging.kafka.batch_timeout_ms")) * time.Millisecond,
			RequiredAcks: kafka.RequireAll,
		},
		PubSub: messaging.PubSubConfig{
			ProjectID:     a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: a.pubsubOptions(driver),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) pubsubOptions(driver string) []option.ClientOption {
	if driver != messaging.DriverGooglePubSub {
		return nil
	}

	opts := []option.ClientOption{}
	if a.config.GetBool("messaging.pubsub.without_auth") {
		opts = append(opts, option.WithoutAuthentication())
	}
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.credentials_file")); v != "" {
		// #nosec G304 -- path is from trusted config file.
		credsJSON, err := os.ReadFile(v)
		if err != nil {
			slog.Error("failed to read pubsub credentials file", "error", err)
			os.Exit(1)
		}
		creds, err := google.CredentialsFromJSON(a.ctx, credsJSON, pubsubScope)
		if err != nil {
			slog.Error("failed to parse pubsub credentials file", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := a.config.GetBinary("messaging.pubsub.credentials_json"); len(v) > 0 {
		creds, err := google.CredentialsFromJSON(a.ctx, v, pubsubScope)
		if err != nil {
			slog.Error("failed to parse pubsub credentials json", "error", err)
			os.Exit(1)
		}
		opts = append(opts, option.WithCredentials(creds))
	}
	if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
		opts = append(opts, option.WithEndpoint(v))
	}

	return opts
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		UUID:        a.uuid,
		JWT:         a.jwt,
		Instrument:  a.ins,
		Maintenance: a.config.GetArray("app.server.maintenance"),
	})

	a.router.Public(http.MethodGet, "/health", func(r *router.Request) (any, error) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := a.dbConn.Ping(ctx); err != nil {
			return nil, err
		}
		if err := a.cacheConn.Ping(ctx).Err(); err != nil {
			return nil, err
		}

		return map[string]string{"status": "ok"}, nil
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
