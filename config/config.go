// config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Configuration stores all the configurations
type Configuration struct {
	Engine        EngineConfiguration
	RateLimit     RateLimitConfiguration
	Redis         RedisConfiguration
	Elasticsearch ElasticsearchConfiguration
	Audit         AuditConfiguration
	Policies      PolicySourceConfiguration
}

// EngineConfiguration stores evaluation-wide settings
type EngineConfiguration struct {
	EvaluationTimeout string
}

// RateLimitConfiguration stores the external counter store behavior
type RateLimitConfiguration struct {
	FailOpen     bool
	CheckTimeout string
}

// RedisConfiguration stores data for Redis connection
type RedisConfiguration struct {
	Addr     string
	Password string
	DB       int
}

// ElasticsearchConfiguration stores data for Elasticsearch connection
type ElasticsearchConfiguration struct {
	URL string
}

// AuditConfiguration stores audit sink settings
type AuditConfiguration struct {
	Index      string
	BufferSize int
}

// PolicySourceConfiguration stores the file policy source settings
type PolicySourceConfiguration struct {
	File string
}

var config *Configuration

func InitConfig() error {
	viper.AddConfigPath("config") // path to look for the config file in
	viper.SetConfigName("config") // name of the config file (without extension)
	viper.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	viper.AutomaticEnv() // read in environment variables that match

	// Set default configurations
	viper.SetDefault("engine.evaluationTimeout", "5s")
	viper.SetDefault("ratelimit.failOpen", false)
	viper.SetDefault("ratelimit.checkTimeout", "250ms")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("elasticsearch.url", "http://localhost:9200")
	viper.SetDefault("audit.index", "policy-audit")
	viper.SetDefault("audit.bufferSize", 256)
	viper.SetDefault("policies.file", "config/policies.yaml")

	// Attempt to read the config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No config file found. Using default settings and environment variables.")
		} else {
			return err
		}
	}

	// Unmarshal the configuration into the Configuration struct
	err := viper.Unmarshal(&config)
	if err != nil {
		return err
	}

	return nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Configuration {
	return config
}

// GetString retrieves a string value from the configuration
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer value from the configuration
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean value from the configuration
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration retrieves a duration value from the configuration
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}
