// Copyright 2025 Certen Protocol

package transport

import (
	"log"
	"time"
)

// Config holds HTTPTransport construction options.
type Config struct {
	RequestTimeout time.Duration
	Logger         *log.Logger
}

// DefaultConfig returns the HTTPTransport default configuration.
func DefaultConfig() *Config {
	return &Config{
		RequestTimeout: 10 * time.Second,
		Logger:         log.New(log.Writer(), "[Transport] ", log.LstdFlags),
	}
}
