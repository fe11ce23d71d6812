package config

import "os"

// Config holds the service configuration. Everything comes from the
// environment; a .env file is honored when present (see cmd/server).
type Config struct {
	MongoURI string
	MongoDB  string
	Port     string
}

func Load() *Config {
	return &Config{
		MongoURI: getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGODB_DB", "notebin"),
		Port:     getEnv("PORT", "5050"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
