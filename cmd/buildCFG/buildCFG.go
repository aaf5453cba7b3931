package buildCFG

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/retry"

	"regdesk/internal/mailer"
	"regdesk/internal/routing"
	"regdesk/internal/storage/blob"
)

type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
}

type DBConfig struct {
	MasterDSN     string
	SlaveDSNs     []string
	Options       *dbpg.Options
	Connect       retry.Strategy
	MigrationsDir string
}

type AuthConfig struct {
	JWTSecret    string
	CookieSecure bool
	TokenTTL     time.Duration
}

type MailConfig struct {
	Provider       string
	APIKey         string
	FromEmail      string
	FromName       string
	CurrencySymbol string
	SMTP           mailer.SMTPConfig
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// envAliases are the variable names used by existing deployments. They apply when the key
// itself is unset.
var envAliases = map[string]string{
	"db.dsn":          "DATABASE_URL",
	"mail.api_key":    "RESEND_API_KEY",
	"mail.from_email": "RESEND_FROM_EMAIL",
	"auth.jwt_secret": "JWT_SECRET",
}

func Load(path string, log *zerolog.Logger) (*config.Config, error) {
	cfg := config.New()
	setDefaults(cfg)

	envFile := ""
	if _, err := os.Stat(".env"); err == nil {
		envFile = ".env"
	}
	if err := cfg.Load(path, envFile, ""); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Warn().Str("path", path).Msg("config file not found, using defaults and environment")
	}
	return cfg, nil
}

func getString(cfg *config.Config, key string) string {
	if v := cfg.GetString(key); v != "" {
		return v
	}
	return os.Getenv(envAliases[key])
}

func setDefaults(cfg *config.Config) {
	cfg.SetDefault("server.port", "8080")
	cfg.SetDefault("server.gin_mode", "release")
	cfg.SetDefault("server.shutdown_timeout", 10*time.Second)
	cfg.SetDefault("routing.main_subdomain", "main")
	cfg.SetDefault("db.max_open_conns", 10)
	cfg.SetDefault("db.max_idle_conns", 5)
	cfg.SetDefault("db.conn_max_lifetime", 30*time.Minute)
	cfg.SetDefault("db.migrations_dir", "migrations/postgres")
	cfg.SetDefault("db.connect_attempts", 3)
	cfg.SetDefault("db.connect_delay", time.Second)
	cfg.SetDefault("auth.token_ttl", 168*time.Hour)
	cfg.SetDefault("mail.provider", "resend")
	cfg.SetDefault("mail.from_name", "Registration Team")
	cfg.SetDefault("mail.currency_symbol", mailer.DefaultCurrencySymbol)
	cfg.SetDefault("mail.smtp.port", 587)
	cfg.SetDefault("rabbit.exchange", "regdesk")
	cfg.SetDefault("rabbit.queue", "reminders")
	cfg.SetDefault("storage.s3.region", "us-east-1")
	cfg.SetDefault("upload.max_bytes", 5<<20)
	cfg.SetDefault("log.level", "info")
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:            strings.TrimPrefix(cfg.GetString("server.port"), ":"),
		GinMode:         cfg.GetString("server.gin_mode"),
		ShutdownTimeout: cfg.GetDuration("server.shutdown_timeout"),
	}
	log.Debug().Str("port", sc.Port).Msg("server config loaded")
	return sc
}

// BuildDBConfig warns instead of failing on a missing DSN; store calls fail later.
func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) DBConfig {
	dc := DBConfig{
		MasterDSN: getString(cfg, "db.dsn"),
		SlaveDSNs: cfg.GetStringSlice("db.slave_dsns"),
		Options: &dbpg.Options{
			MaxOpenConns:    cfg.GetInt("db.max_open_conns"),
			MaxIdleConns:    cfg.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: cfg.GetDuration("db.conn_max_lifetime"),
		},
		Connect: retry.Strategy{
			Attempts: cfg.GetInt("db.connect_attempts"),
			Delay:    cfg.GetDuration("db.connect_delay"),
			Backoff:  2,
		},
		MigrationsDir: cfg.GetString("db.migrations_dir"),
	}
	if dc.MasterDSN == "" {
		log.Warn().Msg("db.dsn (DATABASE_URL) is not set")
	}
	if dc.Connect.Attempts < 1 {
		dc.Connect.Attempts = 1
	}
	return dc
}

func BuildRoutingConfig(cfg *config.Config, log *zerolog.Logger) routing.Rule {
	rule := routing.NewRule(
		cfg.GetStringSlice("routing.base_domains"),
		cfg.GetString("routing.main_subdomain"),
		cfg.GetStringSlice("routing.reserved_subdomains"),
	)
	log.Debug().Strs("base_domains", rule.BaseDomains).Str("main", rule.MainLabel).Msg("routing config loaded")
	return rule
}

func BuildAuthConfig(cfg *config.Config, log *zerolog.Logger) AuthConfig {
	ac := AuthConfig{
		JWTSecret:    getString(cfg, "auth.jwt_secret"),
		CookieSecure: cfg.GetBool("auth.cookie_secure"),
		TokenTTL:     cfg.GetDuration("auth.token_ttl"),
	}
	if ac.JWTSecret == "" {
		log.Warn().Msg("auth.jwt_secret (JWT_SECRET) is not set, admin login is disabled")
	}
	return ac
}

func BuildMailConfig(cfg *config.Config, log *zerolog.Logger) MailConfig {
	mc := MailConfig{
		Provider:       strings.ToLower(cfg.GetString("mail.provider")),
		APIKey:         getString(cfg, "mail.api_key"),
		FromEmail:      getString(cfg, "mail.from_email"),
		FromName:       cfg.GetString("mail.from_name"),
		CurrencySymbol: cfg.GetString("mail.currency_symbol"),
		SMTP: mailer.SMTPConfig{
			Host:     cfg.GetString("mail.smtp.host"),
			Port:     cfg.GetInt("mail.smtp.port"),
			Username: cfg.GetString("mail.smtp.username"),
			Password: cfg.GetString("mail.smtp.password"),
			From:     getString(cfg, "mail.from_email"),
			FromName: cfg.GetString("mail.from_name"),
		},
	}
	if mc.Provider == "resend" && (mc.APIKey == "" || mc.FromEmail == "") {
		log.Warn().Msg("mail.api_key or mail.from_email is not set, emails will not be sent")
	}
	return mc
}

// BuildRabbitConfig returns a config with an empty Url when the queue is disabled.
func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) RabbitConfig {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		log.Info().Msg("rabbit.url is not set, reminders are sent inline")
	}
	return rc
}

func BuildStorageConfig(cfg *config.Config, log *zerolog.Logger) (blob.Config, int64) {
	sc := blob.Config{
		Bucket:          cfg.GetString("storage.s3.bucket"),
		Region:          cfg.GetString("storage.s3.region"),
		AccessKeyID:     cfg.GetString("storage.s3.access_key_id"),
		SecretAccessKey: cfg.GetString("storage.s3.secret_access_key"),
		Endpoint:        cfg.GetString("storage.s3.endpoint"),
		PublicBaseURL:   cfg.GetString("storage.s3.public_base_url"),
		ForcePathStyle:  cfg.GetBool("storage.s3.force_path_style"),
	}
	if sc.Bucket == "" {
		log.Warn().Msg("storage.s3.bucket is not set, uploads are disabled")
	}
	return sc, int64(cfg.GetInt("upload.max_bytes"))
}

func BuildLogConfig(cfg *config.Config) LogConfig {
	return LogConfig{
		Level:  cfg.GetString("log.level"),
		Pretty: cfg.GetBool("log.pretty"),
	}
}
