package config

import "github.com/spf13/viper"

// Config carries all process-wide settings. It is built once at startup and
// handed to the components that need it; nothing reads the environment after
// Load returns.
type Config struct {
	AppPort      string
	DatabaseDSN  string // PostgreSQL DSN; takes precedence over DatabasePath when set
	DatabasePath string
	UploadDir    string
	RabbitMQURL  string // empty disables event publishing
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	v := viper.New()
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("DATABASE_DSN", "")
	v.SetDefault("DATABASE_PATH", "katalog.db")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("RABBITMQ_URL", "")
	v.AutomaticEnv()

	return Config{
		AppPort:      v.GetString("APP_PORT"),
		DatabaseDSN:  v.GetString("DATABASE_DSN"),
		DatabasePath: v.GetString("DATABASE_PATH"),
		UploadDir:    v.GetString("UPLOAD_DIR"),
		RabbitMQURL:  v.GetString("RABBITMQ_URL"),
	}
}
