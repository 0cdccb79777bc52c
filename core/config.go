package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host            string
		DebugHost       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	LedgerConfig struct {
		Store          string // memory | file | postgres
		SnapshotPath   string
		FlushSchedule  string // cron spec, empty disables the periodic flush
		NodeID         int64  // snowflake node
		SyncDelay      time.Duration
		DefaulterLimit int
		Timezone       string
	}

	// DirectoryConfig points to the student directory: a REST API (BaseURL) or a YAML file (File).
	DirectoryConfig struct {
		BaseURL string
		File    string
		Timeout time.Duration
	}

	Config struct {
		Debug        bool
		TestMode     bool
		Env          string
		AppName      string
		Build        string
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		Ledger    LedgerConfig
		Directory DirectoryConfig
	}
)

func (c DatabaseConfig) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate reports an unknown store or time zone.
func (c LedgerConfig) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StorePostgres:
	default:
		return errors.Errorf("ledger.store: unknown store %q", c.Store)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "ledger.timezone: %q", c.Timezone)
	}
	return nil
}

// Location is the ledger's time zone; UTC when unset or unknown (see Validate).
func (c LedgerConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Ledger stores
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
)

// NewConfig loads the configuration from the environment, falling back to `config/.env.<env>` then to defaults.
// Variables are prefixed with the uppercase env name, e.g. DEV_DATABASE_HOST.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Fee Ledger")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "0.0.0.0:8000")
	v.SetDefault("server.debugHost", "0.0.0.0:4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "feeledger")
	v.SetDefault("database.user", "feeledger")
	v.SetDefault("database.password", "feeledger")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	v.SetDefault("ledger.store", StoreFile)
	v.SetDefault("ledger.snapshotPath", "ledger.yaml")
	v.SetDefault("ledger.flushSchedule", "@every 5m")
	v.SetDefault("ledger.nodeID", 1)
	v.SetDefault("ledger.syncDelay", 500*time.Millisecond)
	v.SetDefault("ledger.defaulterLimit", 5)
	v.SetDefault("ledger.timezone", "UTC")

	v.SetDefault("directory.baseURL", "")
	v.SetDefault("directory.file", "")
	v.SetDefault("directory.timeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	conf := &Config{
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Env:          env,
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
		},
		Ledger: LedgerConfig{
			Store:          strings.ToLower(v.GetString("ledger.store")),
			SnapshotPath:   v.GetString("ledger.snapshotPath"),
			FlushSchedule:  v.GetString("ledger.flushSchedule"),
			NodeID:         v.GetInt64("ledger.nodeID"),
			SyncDelay:      v.GetDuration("ledger.syncDelay"),
			DefaulterLimit: v.GetInt("ledger.defaulterLimit"),
			Timezone:       v.GetString("ledger.timezone"),
		},
		Directory: DirectoryConfig{
			BaseURL: v.GetString("directory.baseURL"),
			File:    v.GetString("directory.file"),
			Timeout: v.GetDuration("directory.timeout"),
		},
	}
	if err := conf.Ledger.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	return conf
}
