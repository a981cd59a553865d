package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig
	Dispatcher DispatcherConfig `validate:"required"`
	Executor   ExecutorConfig   `validate:"required"`
	Delivery   DeliveryConfig   `validate:"required"`
	Artifact   ArtifactConfig   `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
}

// DispatcherConfig controls the polling loop that turns due schedules into tasks.
type DispatcherConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" validate:"required"`
}

// ExecutorConfig bounds the worker pool that renders and delivers reports.
type ExecutorConfig struct {
	Workers      int           `validate:"required,min=1"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required"`
	// TaskTimeout is the hard wall-clock limit for one render + delivery.
	TaskTimeout time.Duration `mapstructure:"task_timeout" validate:"required"`
}

// DeliveryConfig holds the process-wide defaults for outbound FTP/SFTP.
// RetryDelay is only the fallback; shops may override it per FtpConfig.
type DeliveryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts" validate:"required,min=1"`
	RetryDelay  time.Duration `mapstructure:"retry_delay" validate:"required"`
	MaxInterval time.Duration `mapstructure:"max_interval" validate:"required"`
	DialTimeout time.Duration `mapstructure:"dial_timeout" validate:"required"`
}

type ArtifactConfig struct {
	BaseDir string `mapstructure:"base_dir" validate:"required"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load a local .env file if present so viper's env override picks it up
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fiscalflow")

	v.SetEnvPrefix("FISCALFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("dispatcher.tick_interval", time.Minute)
	v.SetDefault("executor.workers", 4)
	v.SetDefault("executor.poll_interval", 5*time.Second)
	v.SetDefault("executor.task_timeout", 10*time.Minute)
	v.SetDefault("delivery.max_attempts", 3)
	v.SetDefault("delivery.retry_delay", 30*time.Second)
	v.SetDefault("delivery.max_interval", 5*time.Minute)
	v.SetDefault("delivery.dial_timeout", 15*time.Second)
	v.SetDefault("artifact.base_dir", "./exports")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Dispatcher: DispatcherConfig{TickInterval: time.Minute},
		Executor: ExecutorConfig{
			Workers:      2,
			PollInterval: time.Second,
			TaskTimeout:  time.Minute,
		},
		Delivery: DeliveryConfig{
			MaxAttempts: 3,
			RetryDelay:  30 * time.Second,
			MaxInterval: 5 * time.Minute,
			DialTimeout: 15 * time.Second,
		},
		Artifact: ArtifactConfig{BaseDir: "./exports"},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
