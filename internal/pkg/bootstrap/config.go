// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config 是所有服务共用的配置结构，对应 configs/config.yaml。
type Config struct {
	App         AppConfig         `yaml:"app"`
	Infra       InfraConfig       `yaml:"infra"`
	Auth        AuthConfig        `yaml:"auth"`
	Rules       RulesConfig       `yaml:"rules"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Push        PushConfig        `yaml:"push"`
}

type AppConfig struct {
	Name         string       `yaml:"name"`
	Port         int          `yaml:"port"`
	LogLevel     string       `yaml:"logLevel"`
	FeatureFlags FeatureFlags `yaml:"featureFlags"`
}

type FeatureFlags struct {
	// EnableActivityConsumer 控制是否消费平台活动事件自动审核 signup
	EnableActivityConsumer bool `yaml:"enableActivityConsumer"`
	// EnableDistributedLock 打开后使用 zookeeper 锁串行化同一销售的写操作
	EnableDistributedLock bool `yaml:"enableDistributedLock"`
}

type InfraConfig struct {
	MySQL     MySQLConfig     `yaml:"mysql"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Jaeger    JaegerConfig    `yaml:"jaeger"`
	Zookeeper ZookeeperConfig `yaml:"zookeeper"`
	Nacos     NacosConfig     `yaml:"nacos"`
}

type MySQLConfig struct {
	Addr        string `yaml:"addr"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	Database    string `yaml:"database"`
	AutoMigrate bool   `yaml:"autoMigrate"`
	MaxOpen     int    `yaml:"maxOpen"`
	MaxIdle     int    `yaml:"maxIdle"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers       []string `yaml:"brokers"`
	EventsTopic   string   `yaml:"eventsTopic"`
	ActivityTopic string   `yaml:"activityTopic"`
	ActivityDLT   string   `yaml:"activityDlt"`
	GroupID       string   `yaml:"groupId"`
}

type JaegerConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type ZookeeperConfig struct {
	Servers        []string      `yaml:"servers"`
	SessionTimeout time.Duration `yaml:"sessionTimeout"`
}

type NacosConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addrs     string `yaml:"addrs"`
	Namespace string `yaml:"namespace"`
	Group     string `yaml:"group"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

type RulesConfig struct {
	// Qualification 以平台为 key 的 CEL 表达式，变量见 rule.CELQualificationEngine
	Qualification map[string]string `yaml:"qualification"`
}

type LeaderboardConfig struct {
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

// PushConfig 是推送网关独有的配置
type PushConfig struct {
	Port    int    `yaml:"port"`
	GroupID string `yaml:"groupId"`
}

var currentConfig atomic.Pointer[Config]

// GetCurrentConfig 返回最近一次加载的配置，未加载时返回默认配置。
func GetCurrentConfig() *Config {
	if cfg := currentConfig.Load(); cfg != nil {
		return cfg
	}
	return DefaultConfig()
}

// DefaultConfig 返回本地开发用的默认配置。
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:     "commission-service",
			Port:     8090,
			LogLevel: "info",
			FeatureFlags: FeatureFlags{
				EnableActivityConsumer: true,
			},
		},
		Infra: InfraConfig{
			MySQL: MySQLConfig{
				Addr:        "localhost:3306",
				User:        "root",
				Database:    "affiliatehub",
				AutoMigrate: true,
				MaxOpen:     20,
				MaxIdle:     5,
			},
			Redis: RedisConfig{Addr: "localhost:6379"},
			Kafka: KafkaConfig{
				Brokers:       []string{"localhost:9092"},
				EventsTopic:   "commission-events",
				ActivityTopic: "platform-activity",
				ActivityDLT:   "platform-activity-dlt",
				GroupID:       "commission-service-activity",
			},
			Zookeeper: ZookeeperConfig{
				Servers:        []string{"localhost:2181"},
				SessionTimeout: 10 * time.Second,
			},
			Nacos: NacosConfig{Addrs: "localhost:8848", Group: "DEFAULT_GROUP"},
		},
		Rules: RulesConfig{
			Qualification: map[string]string{
				"bovada":     "deposit_amount >= 20.0",
				"chalkboard": "deposit_amount >= 10.0",
			},
		},
		Leaderboard: LeaderboardConfig{CacheTTL: 30 * time.Second},
		Push:        PushConfig{Port: 8088, GroupID: "push-gateway"},
	}
}

// LoadConfig 读取 YAML 配置，再用环境变量覆盖基础设施地址。
// 文件不存在时使用默认配置。
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", path)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	currentConfig.Store(cfg)
	return cfg, nil
}

// Validate 检查启动必需的配置项。
func (c *Config) Validate() error {
	if c.App.Port <= 0 {
		return errors.Errorf("app.port must be positive, got %d", c.App.Port)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwtSecret is required (or JWT_SECRET)")
	}
	if c.Infra.MySQL.Database == "" {
		return errors.New("infra.mysql.database is required")
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.App.LogLevel = getEnv("LOG_LEVEL", cfg.App.LogLevel)
	if port, err := strconv.Atoi(getEnv("PORT", "")); err == nil {
		cfg.App.Port = port
	}
	cfg.Infra.MySQL.Addr = getEnv("MYSQL_ADDR", cfg.Infra.MySQL.Addr)
	cfg.Infra.MySQL.User = getEnv("MYSQL_USER", cfg.Infra.MySQL.User)
	cfg.Infra.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.Infra.MySQL.Password)
	cfg.Infra.MySQL.Database = getEnv("MYSQL_DATABASE", cfg.Infra.MySQL.Database)
	cfg.Infra.Redis.Addr = getEnv("REDIS_ADDR", cfg.Infra.Redis.Addr)
	cfg.Infra.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Infra.Redis.Password)
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.Infra.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	if servers := getEnv("ZOOKEEPER_SERVERS", ""); servers != "" {
		cfg.Infra.Zookeeper.Servers = strings.Split(servers, ",")
	}
	cfg.Infra.Nacos.Addrs = getEnv("NACOS_SERVER_ADDRS", cfg.Infra.Nacos.Addrs)
	cfg.Infra.Nacos.Namespace = getEnv("NACOS_NAMESPACE", cfg.Infra.Nacos.Namespace)
	cfg.Infra.Nacos.Group = getEnv("NACOS_GROUP", cfg.Infra.Nacos.Group)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	if port, err := strconv.Atoi(getEnv("PUSH_PORT", "")); err == nil {
		cfg.Push.Port = port
	}
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
