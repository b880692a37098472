package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/tilapp/internal/flagx"
	"github.com/dmitrijs2005/tilapp/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. SessionTTL uses
// timex.Duration so it can be written as "30m" or as integer nanoseconds.
// Pointer fields distinguish "absent" from the zero value so a partial file
// only overrides what it names.
type JsonConfig struct {
	EndpointAddrHTTP     *string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC     *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN          *string         `json:"database_dsn"`
	SecretKey            *string         `json:"secret_key"`
	SessionTTL           *timex.Duration `json:"session_ttl"`
	CookieSecure         *bool           `json:"cookie_secure"`
	BcryptCost           *int            `json:"bcrypt_cost"`
	TokenSize            *int            `json:"token_size"`
	ReconcileParallelism *int            `json:"reconcile_parallelism"`
	SeedAdmin            *bool           `json:"seed_admin"`
	Debug                *bool           `json:"debug"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config command-line flags. If neither is set, nothing is loaded. If the
// file cannot be read or contains invalid JSON, the function panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setIf(&config.CookieSecure, c.CookieSecure)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.TokenSize, c.TokenSize)
	setIf(&config.ReconcileParallelism, c.ReconcileParallelism)
	setIf(&config.SeedAdmin, c.SeedAdmin)
	setIf(&config.Debug, c.Debug)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
