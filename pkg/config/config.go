package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost             string `mapstructure:"DB_HOST"`
	DBName             string `mapstructure:"DB_NAME"`
	DBUser             string `mapstructure:"DB_USER"`
	DBPort             string `mapstructure:"DB_PORT"`
	DBPassword         string `mapstructure:"DB_PASSWORD"`
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	ClientRedirectURL  string `mapstructure:"CLIENT_REDIRECT_URL"`
	HTTPPort           string `mapstructure:"HTTP_PORT"`
}

var required = []string{
	"DB_HOST", "DB_NAME", "DB_USER", "DB_PORT", "DB_PASSWORD",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
	"JWT_SECRET", "CLIENT_REDIRECT_URL",
}

// LoadConfig reads .env (when present) and bound environment variables.
// All required keys must be set; the process should not come up without them.
func LoadConfig() (Config, error) {
	var config Config
	viper.AddConfigPath("./")
	viper.SetConfigFile(".env")
	viper.ReadInConfig()
	for _, env := range append(required, "HTTP_PORT") {
		if err := viper.BindEnv(env); err != nil {
			return config, err
		}
	}
	if err := viper.Unmarshal(&config); err != nil {
		return config, err
	}
	for _, env := range required {
		if viper.GetString(env) == "" {
			return config, fmt.Errorf("missing required configuration %s", env)
		}
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "8000"
	}
	return config, nil
}
