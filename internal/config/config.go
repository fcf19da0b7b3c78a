package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`

	SocketPort    string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"58901"`
	WebSocketPort string `yaml:"websocket-port" env:"WEBSOCKET_PORT" env-default:"8080"`
	HTTPPort      string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`

	MaxConnections      int64         `yaml:"max-connections" env:"MAX_CONNECTIONS" env-default:"200"`
	OpponentWaitTimeout time.Duration `yaml:"opponent-wait-timeout" env:"OPPONENT_WAIT_TIMEOUT" env-default:"5m"`
	IdleTimeout         time.Duration `yaml:"idle-timeout" env:"IDLE_TIMEOUT" env-default:"0s"`
	SnapshotTTL         time.Duration `yaml:"snapshot-ttl" env:"SNAPSHOT_TTL" env-default:"24h"`

	Redis Redis `yaml:"redis"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads path, then lets environment variables override it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.MaxConnections < 1 {
		return nil, fmt.Errorf("max-connections must be positive, got %d", config.MaxConnections)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
