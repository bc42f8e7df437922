package config

import (
	"os"

	"github.com/go-yaml/yaml"
)

type Config struct {
	Server Server `yaml:"server"`
	GitHub GitHub `yaml:"github"`
}

type Server struct {
	ListenAddr    string `yaml:"listenAddr"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`

	// QueryLimit is the maximum accepted GraphQL query length in bytes.
	QueryLimit int `yaml:"queryLimit"`
}

type GitHub struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	CallbackURL  string `yaml:"callbackUrl"`
	APIBase      string `yaml:"apiBase"`
}

const (
	defaultListenAddr = ":8000"
	defaultAPIBase    = "https://api.github.com"
	defaultQueryLimit = 2000
)

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Server.ListenAddr == "" {
		config.Server.ListenAddr = defaultListenAddr
	}
	if config.GitHub.APIBase == "" {
		config.GitHub.APIBase = defaultAPIBase
	}
	if config.Server.QueryLimit <= 0 {
		config.Server.QueryLimit = defaultQueryLimit
	}

	return config, nil
}
