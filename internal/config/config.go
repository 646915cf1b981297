package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=coop_kiosk_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8080"
const defaultMigrationsDir = "migrations"
const defaultOTPTTL = 10 * time.Minute
const defaultSessionTTL = 7 * 24 * time.Hour
const defaultReportHour = 21

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Addr returns the host:port pair for the SMTP dialer.
func (s SMTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Config struct {
	ListenAddr    string        `yaml:"listen_addr"`
	DatabaseDSN   string        `yaml:"database_dsn"`
	MigrationsDir string        `yaml:"migrations_dir"`
	AdminEmail    string        `yaml:"admin_email"`
	SMTP          SMTPConfig    `yaml:"smtp"`
	OTPTTL        time.Duration `yaml:"otp_ttl"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	VATRate       string        `yaml:"vat_rate"`
	ReportHour    int           `yaml:"report_hour"`
}

// Load reads the optional YAML config file, then applies environment
// overrides. Environment always wins so kiosk deployments can keep one file
// and tweak per-device settings in the service unit.
func Load(path string) (Config, error) {
	cfg := Config{
		ListenAddr:    defaultListenAddr,
		DatabaseDSN:   defaultConnectionString,
		MigrationsDir: defaultMigrationsDir,
		OTPTTL:        defaultOTPTTL,
		SessionTTL:    defaultSessionTTL,
		VATRate:       "0.12",
		ReportHour:    defaultReportHour,
	}

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.DatabaseDSN = normalizeConnectionString(cfg.DatabaseDSN)

	if cfg.ReportHour < 0 || cfg.ReportHour > 23 {
		return Config{}, fmt.Errorf("report_hour must be between 0 and 23, got %d", cfg.ReportHour)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")); v != "" {
		cfg.MigrationsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ADMIN_EMAIL")); v != "" {
		cfg.AdminEmail = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_HOST")); v != "" {
		cfg.SMTP.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.SMTP.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_USERNAME")); v != "" {
		cfg.SMTP.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.SMTP.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("SMTP_FROM")); v != "" {
		cfg.SMTP.From = v
	}
	if v := strings.TrimSpace(os.Getenv("OTP_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OTPTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SESSION_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("VAT_RATE")); v != "" {
		cfg.VATRate = v
	}
	if v := strings.TrimSpace(os.Getenv("REPORT_HOUR")); v != "" {
		if hour, err := strconv.Atoi(v); err == nil {
			cfg.ReportHour = hour
		}
	}
}

// normalizeConnectionString accepts both libpq keyword DSNs and the
// semicolon-delimited "Host=...;Port=..." form used by the original kiosk
// deployment, converting the latter to libpq keywords.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
