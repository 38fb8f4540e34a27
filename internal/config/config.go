package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	RabbitMQ   RabbitMQConfig
	Consul     ConsulConfig
	Curriculum CurriculumConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	ServiceName    string
	ServiceAddress string
	ServiceID      string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RabbitMQConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address string
}

// CurriculumConfig fixes the curriculum size for the deployment. Six
// lessons in the current course; lesson keys are 1..Lessons.
type CurriculumConfig struct {
	Lessons int
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "6680"),
			Host:           getEnv("HOST", "0.0.0.0"),
			ServiceName:    getEnv("PROGRESS_SERVICE_NAME", "progress-service"),
			ServiceAddress: getEnv("PROGRESS_SERVICE_ADDRESS", "progress-service"),
			ServiceID:      getEnv("PROGRESS_SERVICE_NAME", "progress-service") + "-" + getEnv("HOSTNAME", "progress"),
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "progress_service"),
			Timeout:  getEnvAsDuration("MONGODB_TIMEOUT", 10*time.Second),
		},
		RabbitMQ: RabbitMQConfig{
			URI:      getEnv("RABBITMQ_URI", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", ""),
		},
		Consul: ConsulConfig{
			Address: getEnv("CONSUL_ADDRESS", ""),
		},
		Curriculum: CurriculumConfig{
			Lessons: getEnvAsInt("CURRICULUM_LESSONS", 6),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		n, err := strconv.Atoi(value)
		if err != nil {
			log.Printf("invalid int env var %s: %s", key, err)
			return defaultValue
		}
		return n
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err != nil {
			log.Printf("invalid duration env var %s: %s", key, err)
			return defaultValue
		}
		return d
	}
	return defaultValue
}
