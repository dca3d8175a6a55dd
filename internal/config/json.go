package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dkarasev/zkid/internal/flagx"
	"github.com/dkarasev/zkid/internal/timex"
)

// JSONConfig is an intermediate DTO used only for reading JSON configuration
// files. After unmarshalling, its fields are copied into the runtime Config
// struct which uses time.Duration.
type JSONConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	RedisAddr                   string         `json:"redis_addr"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	ChallengeTTL                timex.Duration `json:"challenge_ttl"`
	WorkerPoolSize              int            `json:"worker_pool_size"`
	WorkerQueueCapacity         int            `json:"worker_queue_capacity"`
	AuditEventsChannel          string         `json:"audit_events_channel"`
}

// parseJSON loads configuration values from a JSON file into config, when
// one is given via the -c or -config flags. If no path is given, it is a
// no-op; if the path cannot be read or parsed, it panics.
func parseJSON(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	// Pre-fill with the current values so keys absent from the file keep them.
	c := &JSONConfig{
		EndpointAddrHTTP:            config.EndpointAddrHTTP,
		DatabaseDSN:                 config.DatabaseDSN,
		RedisAddr:                   config.RedisAddr,
		SecretKey:                   config.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: config.AccessTokenValidityDuration},
		ChallengeTTL:                timex.Duration{Duration: config.ChallengeTTL},
		WorkerPoolSize:              config.WorkerPoolSize,
		WorkerQueueCapacity:         config.WorkerQueueCapacity,
		AuditEventsChannel:          config.AuditEventsChannel,
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.RedisAddr = c.RedisAddr
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = time.Duration(c.AccessTokenValidityDuration.Duration)
	config.ChallengeTTL = time.Duration(c.ChallengeTTL.Duration)
	config.WorkerPoolSize = c.WorkerPoolSize
	config.WorkerQueueCapacity = c.WorkerQueueCapacity
	config.AuditEventsChannel = c.AuditEventsChannel
}
