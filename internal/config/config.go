package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/sadopc/targetflow/internal/session"
)

// Config keeps runtime settings for the app.
type Config struct {
	APIURL string
	DBPath string
}

// Load reads configuration from an optional .targetflow.yaml in the
// working directory or home, and from TARGETFLOW_* environment variables.
// Missing config files are fine; the defaults carry a local dev setup.
func Load() (Config, error) {
	v := viper.New()

	defaultDB, err := session.DefaultDBPath()
	if err != nil {
		return Config{}, fmt.Errorf("resolve default db path: %w", err)
	}
	v.SetDefault("api_url", "http://localhost:5000/api")
	v.SetDefault("db_path", defaultDB)

	v.SetConfigName(".targetflow") // .yaml is implicit
	v.SetEnvPrefix("TARGETFLOW")
	v.AutomaticEnv()

	v.AddConfigPath("./")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return Config{
		APIURL: v.GetString("api_url"),
		DBPath: v.GetString("db_path"),
	}, nil
}
