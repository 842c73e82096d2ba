package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token verification settings.
type JWTConfig struct {
	Secret string
}

// KafkaConfig holds broker and consumer-group settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// HTTPConfig holds boundary tuning knobs.
type HTTPConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	Port   string
	AppEnv string
	DB     DatabaseConfig
	JWT    JWTConfig
	Kafka  KafkaConfig
	HTTP   HTTPConfig
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service_port", "8083")
	v.SetDefault("app_env", "development")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "postgres")
	v.SetDefault("db_name", "rentacar_bookings")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("kafka_brokers", "localhost:9092")
	v.SetDefault("kafka_group_prefix", "rentacar.")
	v.SetDefault("http_rate_limit_rps", 20.0)
	v.SetDefault("http_rate_limit_burst", 40)

	appEnv := v.GetString("app_env")
	jwtSecret := v.GetString("jwt_secret")
	if jwtSecret == "" {
		if appEnv != "development" {
			return nil, fmt.Errorf("BOOKING_JWT_SECRET is required outside development")
		}
		jwtSecret = "dev-only-secret"
	}

	return &ServiceConfig{
		Port:   ":" + v.GetString("service_port"),
		AppEnv: appEnv,
		DB: DatabaseConfig{
			Host:     v.GetString("db_host"),
			Port:     v.GetString("db_port"),
			User:     v.GetString("db_user"),
			Password: v.GetString("db_password"),
			DBName:   v.GetString("db_name"),
			SSLMode:  v.GetString("db_sslmode"),
		},
		JWT: JWTConfig{Secret: jwtSecret},
		Kafka: KafkaConfig{
			Brokers:     strings.Split(v.GetString("kafka_brokers"), ","),
			GroupPrefix: v.GetString("kafka_group_prefix"),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   v.GetFloat64("http_rate_limit_rps"),
			RateLimitBurst: v.GetInt("http_rate_limit_burst"),
		},
	}, nil
}
