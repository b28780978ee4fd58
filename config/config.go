package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Postgres  PostgresConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Elastic   ElasticsearchConfig
	Consul    ConsulConfig
	Inventory InventoryConfig
	Sales     SalesConfig
}

type ServerConfig struct {
	AppEnv      string
	GRPCPort    string
	HTTPPort    string
	CORSOrigins []string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled         bool
	Brokers         []string
	EventsTopic     string // Outgoing sale and stock movement events
	PurchasesTopic  string // Incoming purchase receipts
	PurchasesGroup  string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
}

type ConsulConfig struct {
	Enabled     bool
	Address     string
	ServiceID   string
	ServiceName string
}

type InventoryConfig struct {
	ReportCacheTTL   time.Duration
	ProductCacheTTL  time.Duration
	DefaultListLimit int
	MaxListLimit     int
}

type SalesConfig struct {
	DefaultListLimit int
	MaxListLimit     int
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "dev"),
			GRPCPort:    getEnv("GRPC_PORT", ":8082"),
			HTTPPort:    getEnv("HTTP_PORT", ":8080"),
			CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_backoffice"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			AutoMigrate:     getEnvBool("POSTGRES_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", ""),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Enabled:        getEnvBool("KAFKA_ENABLED", true),
			Brokers:        getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			EventsTopic:    getEnv("KAFKA_TOPIC_INVENTORY_EVENTS", "inventory.events"),
			PurchasesTopic: getEnv("KAFKA_TOPIC_PURCHASES", "purchases.events"),
			PurchasesGroup: getEnv("KAFKA_GROUP_PURCHASES", "backoffice-inventory"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", true),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
		},
		Consul: ConsulConfig{
			Enabled:     getEnvBool("CONSUL_ENABLED", false),
			Address:     getEnv("CONSUL_ADDRESS", "localhost:8500"),
			ServiceID:   getEnv("CONSUL_SERVICE_ID", "backoffice-1"),
			ServiceName: getEnv("CONSUL_SERVICE_NAME", "backoffice"),
		},
		Inventory: InventoryConfig{
			ReportCacheTTL:   getEnvDuration("INVENTORY_REPORT_CACHE_TTL", 5*time.Minute),
			ProductCacheTTL:  getEnvDuration("PRODUCT_LIST_CACHE_TTL", 5*time.Minute),
			DefaultListLimit: getEnvInt("INVENTORY_DEFAULT_LIST_LIMIT", 50),
			MaxListLimit:     getEnvInt("INVENTORY_MAX_LIST_LIMIT", 500),
		},
		Sales: SalesConfig{
			DefaultListLimit: getEnvInt("SALES_DEFAULT_LIST_LIMIT", 50),
			MaxListLimit:     getEnvInt("SALES_MAX_LIST_LIMIT", 200),
		},
	}
}

// Validate reports every setting the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.Server.GRPCPort == "" || c.Server.HTTPPort == "" {
		errs = append(errs, errors.New("GRPC_PORT and HTTP_PORT are required"))
	}
	if c.Postgres.Host == "" || c.Postgres.DBName == "" {
		errs = append(errs, errors.New("POSTGRES_HOST and POSTGRES_DB are required"))
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, errors.New("KAFKA_BROKERS is required when kafka is enabled"))
		}
		if c.Kafka.EventsTopic == "" || c.Kafka.PurchasesTopic == "" || c.Kafka.PurchasesGroup == "" {
			errs = append(errs, errors.New("kafka topics and consumer group are required when kafka is enabled"))
		}
	}
	if c.Inventory.DefaultListLimit <= 0 || c.Inventory.MaxListLimit < c.Inventory.DefaultListLimit {
		errs = append(errs, errors.New("inventory list limits must satisfy 0 < default <= max"))
	}
	if c.Sales.DefaultListLimit <= 0 || c.Sales.MaxListLimit < c.Sales.DefaultListLimit {
		errs = append(errs, errors.New("sales list limits must satisfy 0 < default <= max"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
