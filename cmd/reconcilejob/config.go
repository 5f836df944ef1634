package reconcilejob

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// AccountID limits the pass to a single account. 0 reconciles every account.
	AccountID uint `envconfig:"ACCOUNT_ID" default:"0"`
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
