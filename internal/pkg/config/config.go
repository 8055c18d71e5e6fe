// Package config exposes typed access to application configuration.
//
// Callers depend on the Config interface; the production implementation is
// Viper-backed and hot-reloads when the file changes on disk.
package config

import (
	"io"
	"time"
)

// Config reads configuration values by dotted key. Implementations return
// the type's zero value for missing or unconvertible keys.
type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond and friends read an integer key and scale it into a
	// duration, so the file stores plain numbers like `lifetime: 100`.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration
	GetDay(key string) time.Duration

	// GetBinary reads a base64-encoded key as raw bytes (signing keys).
	GetBinary(key string) []byte

	// GetArray reads a comma-separated key as a string slice.
	GetArray(key string) []string

	// GetMap reads a "k1:v1,k2:v2" key as a string map.
	GetMap(key string) map[string]string
}
