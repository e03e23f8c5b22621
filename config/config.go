package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// 服务配置
	ServerPort  string `env:"SERVER_PORT" envDefault:"8890"`
	ServerHost  string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"ontrack"`

	// PostgreSQL 配置
	PostgreSQLHost     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
	PostgreSQLPort     string `env:"POSTGRESQL_PORT" envDefault:"5432"`
	PostgreSQLUser     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
	PostgreSQLPassword string `env:"POSTGRESQL_PASSWORD" envDefault:"postgres"`
	PostgreSQLDatabase string `env:"POSTGRESQL_DATABASE" envDefault:"ontrack"`
	PostgreSQLSchema   string `env:"POSTGRESQL_SCHEMA" envDefault:"public"`
	PostgreSQLSSLMode  string `env:"POSTGRESQL_SSLMODE" envDefault:"disable"`
	PostgreSQLMaxIdle  int    `env:"POSTGRESQL_MAX_IDLE" envDefault:"10"`
	PostgreSQLMaxOpen  int    `env:"POSTGRESQL_MAX_OPEN" envDefault:"50"`

	// Redis 配置
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"ontrack"`

	// RabbitMQ 配置
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:"localhost"`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// API 鉴权：单用户自托管部署，静态 Bearer Token 即可
	APIToken string `env:"API_TOKEN"`

	// 应用日（App Day）配置：凌晨 4 点之前仍算前一天
	DayCutoffHour       int    `env:"DAY_CUTOFF_HOUR" envDefault:"4"`
	DayBoundaryInterval int    `env:"DAY_BOUNDARY_INTERVAL_SECONDS" envDefault:"60"` // 检测器轮询间隔
	Timezone            string `env:"TIMEZONE" envDefault:"Local"`

	// 评分目标配置
	ProteinTargetGrams int     `env:"PROTEIN_TARGET_GRAMS" envDefault:"190"`
	WaterTargetOunces  float64 `env:"WATER_TARGET_OUNCES" envDefault:"120"`

	// 日常清单类别的分值预算，公平分配到各计分任务；其余类别权重固定在评分引擎里
	RoutineBudget int `env:"ROUTINE_BUDGET" envDefault:"10"`

	// 自定义清单任务上限
	CustomTaskLimit int `env:"CUSTOM_TASK_LIMIT" envDefault:"10"`

	// 健康数据提供方：mock 或后续接入的真实设备桥
	HealthProvider     string `env:"HEALTH_PROVIDER" envDefault:"mock"`
	SyncTimeoutSeconds int    `env:"SYNC_TIMEOUT_SECONDS" envDefault:"30"`

	// Snowflake ID 生成器配置
	SnowflakeMachineID  int64 `env:"SNOWFLAKE_MACHINE_ID" envDefault:"1"`
	SnowflakeDataCenter int64 `env:"SNOWFLAKE_DATACENTER_ID" envDefault:"1"`

	// 日志配置
	LoggerLevel      string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat     string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
	LoggerOutputPath string `env:"LOGGER_OUTPUT_PATH" envDefault:"stdout"`

	// 链路追踪配置
	TracingEnabled  bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4317"`
	TracingSampler  float64 `env:"TRACING_SAMPLER" envDefault:"0.1"`

	// 速率限制配置, 配置在中间件内
	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"` // 每秒请求数
}

func init() {

	if err := godotenv.Load(); err != nil {

		log.Printf("WARN: Cannot load .env file: %v, using environment variables", err)
	}

	Cfg = Config{}
	if err := env.Parse(&Cfg); err != nil {
		log.Fatalf("Failed to parse environment variables: %v", err)
	}

	applyTimezone()
	validateConfig()
}

// applyTimezone 应用日的归属随部署时区走，统一切换进程本地时区
func applyTimezone() {
	if Cfg.Timezone == "" || Cfg.Timezone == "Local" {
		return
	}
	loc, err := time.LoadLocation(Cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", Cfg.Timezone, err)
	}
	time.Local = loc
}

func validateConfig() {
	if Cfg.APIToken == "" {
		log.Printf("WARN: API_TOKEN is not set, the API will accept unauthenticated requests")
	}

	if Cfg.DayCutoffHour < 0 || Cfg.DayCutoffHour > 12 {
		log.Fatalf("DAY_CUTOFF_HOUR must be between 0 and 12, got %d", Cfg.DayCutoffHour)
	}

	if Cfg.RoutineBudget <= 0 {
		log.Fatal("ROUTINE_BUDGET must be positive")
	}

	if Cfg.ProteinTargetGrams <= 0 || Cfg.WaterTargetOunces <= 0 {
		log.Printf("WARN: non-positive nutrition targets, the affected score categories will stay at 0")
	}
}

func (c *Config) GetDSN() string {
	return "host=" + c.PostgreSQLHost +
		" port=" + c.PostgreSQLPort +
		" user=" + c.PostgreSQLUser +
		" password=" + c.PostgreSQLPassword +
		" dbname=" + c.PostgreSQLDatabase +
		" sslmode=" + c.PostgreSQLSSLMode +
		" search_path=" + c.PostgreSQLSchema
}

func (c *Config) GetRabbitMQURL() string {
	return "amqp://" + c.RabbitMQUsername + ":" + c.RabbitMQPassword + "@" + c.RabbitMQAddr + ":" + c.RabbitMQPort + c.RabbitMQVhost
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
