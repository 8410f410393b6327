package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit               string        `yaml:"git_commit" envconfig:"RDL_GIT_COMMIT"`
	GitTag                  string        `yaml:"git_tag" envconfig:"RDL_GIT_TAG"`
	BuildTime               string        `yaml:"build_time" envconfig:"RDL_BUILD_TIME"`
	IsProduction            bool          `yaml:"is_production" envconfig:"RDL_IS_PRODUCTION"`
	LogLevel                zapcore.Level `yaml:"log_level" envconfig:"RDL_LOG_LEVEL"`
	LogFolder               string        `yaml:"log_folder" envconfig:"RDL_LOG_FOLDER"`
	LogMaxSize              int           `yaml:"log_max_size" envconfig:"RDL_LOG_MAX_SIZE"`
	OpsEndpointsEnable      bool          `yaml:"ops_endpoints_enable" envconfig:"RDL_OPS_ENDPOINTS_ENABLE"`
	ProfilerEndpointsEnable bool          `yaml:"profiler_endpoints_enable" envconfig:"RDL_PROFILER_ENDPOINTS_ENABLE"`
	Server                  ServerConfig  `yaml:"server"`
	Storage                 StorageConfig `yaml:"storage"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"RDL_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"RDL_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"RDL_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"RDL_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"RDL_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"RDL_SERVER_SHUTDOWN_TIMEOUT"`
	CORSEnable      bool          `yaml:"cors_enable" envconfig:"RDL_SERVER_CORS_ENABLE"`
	CORSOrigin      string        `yaml:"cors_origin" envconfig:"RDL_SERVER_CORS_ORIGIN"`
	RateLimitEnable bool          `yaml:"rate_limit_enable" envconfig:"RDL_SERVER_RATE_LIMIT_ENABLE"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RDL_SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RDL_SERVER_RATE_LIMIT_BURST"`
}

// StorageConfig selects the books persistence engine and carries the
// settings of both supported backends. Only the selected one is opened.
type StorageConfig struct {
	Engine   string         `yaml:"engine" envconfig:"RDL_STORAGE_ENGINE"`
	Postgres PostgresConfig `yaml:"postgres"`
	BoltDB   BoltDBConfig   `yaml:"boltdb"`
}

type PostgresConfig struct {
	Host           string `yaml:"host" envconfig:"RDL_POSTGRES_HOST"`
	Port           string `yaml:"port" envconfig:"RDL_POSTGRES_PORT"`
	User           string `yaml:"user" envconfig:"RDL_POSTGRES_USER"`
	Password       string `yaml:"password" envconfig:"RDL_POSTGRES_PASSWORD"`
	Database       string `yaml:"database" envconfig:"RDL_POSTGRES_DATABASE"`
	SSLMode        string `yaml:"ssl_mode" envconfig:"RDL_POSTGRES_SSL_MODE"`
	MigrationsPath string `yaml:"migrations_path" envconfig:"RDL_POSTGRES_MIGRATIONS_PATH"`
}

// DSN builds the lib/pq connection string from the settings.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		pc.User, pc.Password, pc.Host, pc.Port, pc.Database, pc.SSLMode)
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"RDL_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"RDL_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"RDL_BOLTDB_BUCKET_NAME"`
}

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and overlays them on the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig applies build tags values when provided and ensures
// the required parameters are set for the selected storage engine.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	switch config.Storage.Engine {
	case "postgres":
		if len(config.Storage.Postgres.Host) == 0 || len(config.Storage.Postgres.Port) == 0 {
			return errors.New("make sure to set valid postgres address and port in configuration file")
		}
		if len(config.Storage.Postgres.Database) == 0 {
			return errors.New("make sure to set valid postgres database name in configuration file")
		}
	case "bolt":
		if len(config.Storage.BoltDB.FilePath) == 0 || len(config.Storage.BoltDB.BucketName) == 0 {
			return errors.New("make sure to set valid boltdb file path and bucket name in configuration file")
		}
	default:
		return fmt.Errorf("unknown storage engine %q: must be postgres or bolt", config.Storage.Engine)
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data. A missing config.env file is fine,
// environment variables can come from the process itself.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `RDL`.
	err = LoadConfigEnvs("RDL", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
