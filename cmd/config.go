package cmd

import (
	"github.com/spf13/viper"

	"github.com/lustre-atelier/backoffice/internal/config"
)

// LoadConfigFromCLI loads the Config from the CLI flags
func LoadConfigFromCLI() config.Config {
	return config.Config{
		Url:       viper.GetString("url"),
		Output:    viper.GetString("output"),
		Sequenced: viper.GetBool("sequenced"),
		ToastTTL:  viper.GetDuration("toast-ttl"),
	}
}

// LoadAuthConfigFromCLI loads the AuthConfig from the CLI flags
func LoadAuthConfigFromCLI() config.AuthConfig {
	return config.AuthConfig{
		Token:    viper.GetString("token"),
		Username: viper.GetString("username"),
		Password: viper.GetString("password"),
	}
}
