package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SECONDCHANCE_DB_DSN"
	EnvDBHost = "SECONDCHANCE_DB_HOST"
	EnvDBUser = "SECONDCHANCE_DB_USER"
	EnvDBName = "SECONDCHANCE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Google        GoogleOAuthConfig
	Frontend      FrontendConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SECONDCHANCE_APP_ENV" required:"true"`
	Port         string `envconfig:"SECONDCHANCE_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SECONDCHANCE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SECONDCHANCE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SECONDCHANCE_DB_DSN"`
	Driver string `envconfig:"SECONDCHANCE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SECONDCHANCE_DB_HOST"`
	LegacyPort     int    `envconfig:"SECONDCHANCE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SECONDCHANCE_DB_USER"`
	LegacyPassword string `envconfig:"SECONDCHANCE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SECONDCHANCE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SECONDCHANCE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SECONDCHANCE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SECONDCHANCE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SECONDCHANCE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SECONDCHANCE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SECONDCHANCE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SECONDCHANCE_REDIS_ADDR"`
	Password     string        `envconfig:"SECONDCHANCE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SECONDCHANCE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SECONDCHANCE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SECONDCHANCE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SECONDCHANCE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SECONDCHANCE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SECONDCHANCE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SECONDCHANCE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SECONDCHANCE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SECONDCHANCE_JWT_EXPIRATION_MINUTES" default:"1440"`
	SessionTTLMinutes int    `envconfig:"SECONDCHANCE_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

// AccessTokenTTL returns the JWT lifetime configured in minutes.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SECONDCHANCE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SECONDCHANCE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SECONDCHANCE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SECONDCHANCE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SECONDCHANCE_ARGON_KEY_LEN" default:"32"`
}

type GoogleOAuthConfig struct {
	ClientID     string `envconfig:"SECONDCHANCE_GOOGLE_CLIENT_ID"`
	ClientSecret string `envconfig:"SECONDCHANCE_GOOGLE_CLIENT_SECRET"`
	CallbackURL  string `envconfig:"SECONDCHANCE_GOOGLE_CALLBACK_URL"`
}

// Enabled reports whether the Google login flow is configured.
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

type FrontendConfig struct {
	URL           string `envconfig:"SECONDCHANCE_FRONTEND_URL" default:"http://localhost:3000"`
	LoginFailPath string `envconfig:"SECONDCHANCE_FRONTEND_LOGIN_FAIL_PATH" default:"/login-failed"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SECONDCHANCE_AUTH_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"SECONDCHANCE_AUTH_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit    int           `envconfig:"SECONDCHANCE_AUTH_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"SECONDCHANCE_AUTH_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"SECONDCHANCE_AUTH_REGISTER_IP_LIMIT" default:"20"`
	RegisterEmailLimit int           `envconfig:"SECONDCHANCE_AUTH_REGISTER_EMAIL_LIMIT" default:"3"`
}

type FeatureFlagsConfig struct {
	AutoMigrate    bool `envconfig:"SECONDCHANCE_AUTO_MIGRATE" default:"false"`
	UseMemoryChats bool `envconfig:"SECONDCHANCE_USE_MEMORY_CHATS" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
