package config

import (
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

type Config struct {
	// Port the server listens on, all interfaces.
	Port string
	// DownloadDir is the base directory downloads are written under, one
	// subdirectory per video id.
	DownloadDir string
	// FetchTimeout bounds every HTTP call the extraction library makes; the
	// library itself guarantees no bounded latency.
	FetchTimeout time.Duration
}

func Load() Config {
	return Config{
		Port:         env.Str("PORT", "10000"),
		DownloadDir:  env.Str("DOWNLOAD_DIR", "./downloads"),
		FetchTimeout: env.Duration("FETCH_TIMEOUT", 60*time.Second),
	}
}
