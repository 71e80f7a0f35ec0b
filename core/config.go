package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Session storage backends
const (
	SessionBackendFile   = "file"
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"
)

type (
	Config struct {
		Env      string
		Build    string
		AppName  string
		Debug    bool
		TestMode bool

		API          APIConfig
		Session      SessionConfig
		Server       ServerConfig
		PassMark     float64
		RollbarToken string
	}

	// APIConfig describes how the portal reaches the LMS REST API.
	APIConfig struct {
		BaseURL        string
		RequestTimeout time.Duration // 0: transport default
	}

	SessionConfig struct {
		Namespace string
		Backend   string
		Dir       string
		RedisAddr string
		RedisDB   int
	}

	// ServerConfig only concerns the stub LMS backend.
	ServerConfig struct {
		Address            string
		SecretKey          string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
		AdminEmail         string // seeded when AdminPassword is set
		AdminPassword      string
	}
)

// NewConfig loads the configuration from the environment.
// ENV selects the environment (DEV by default); config/.env.<env> is loaded when it exists.
func NewConfig() (*Config, error) {
	conf := viper.New()

	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("build", "develop")
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Masomo")
	conf.SetDefault("apiBaseURL", "http://localhost:8000/api/v1")
	conf.SetDefault("requestTimeout", time.Duration(0))
	conf.SetDefault("sessionNamespace", "masomo-auth")
	conf.SetDefault("sessionBackend", SessionBackendFile)
	conf.SetDefault("sessionDir", defaultSessionDir())
	conf.SetDefault("redisAddr", "127.0.0.1:6379")
	conf.SetDefault("redisDB", 0)
	conf.SetDefault("passMark", 50.0)
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	conf.SetDefault("shutdownTimeout", 5*time.Second)
	conf.SetDefault("adminEmail", "admin@masomo.cd")
	conf.SetDefault("adminPassword", "")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	if env == "TEST" {
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:      env,
		Build:    conf.GetString("build"),
		AppName:  conf.GetString("appName"),
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		API: APIConfig{
			BaseURL:        strings.TrimRight(conf.GetString("apiBaseURL"), "/"),
			RequestTimeout: conf.GetDuration("requestTimeout"),
		},
		Session: SessionConfig{
			Namespace: conf.GetString("sessionNamespace"),
			Backend:   strings.ToLower(conf.GetString("sessionBackend")),
			Dir:       conf.GetString("sessionDir"),
			RedisAddr: conf.GetString("redisAddr"),
			RedisDB:   conf.GetInt("redisDB"),
		},
		Server: ServerConfig{
			Address:            conf.GetString("serverAddress"),
			SecretKey:          conf.GetString("secretKey"),
			JWTExpirationDelta: conf.GetDuration("jwtExpirationDelta"),
			ShutdownTimeout:    conf.GetDuration("shutdownTimeout"),
			AdminEmail:         strings.ToLower(conf.GetString("adminEmail")),
			AdminPassword:      conf.GetString("adminPassword"),
		},
		PassMark:     conf.GetFloat64("passMark"),
		RollbarToken: conf.GetString("rollbarToken"),
	}, nil
}

func defaultSessionDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".masomo")
	}
	return ".masomo"
}
