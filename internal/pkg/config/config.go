// Package config reads runtime configuration with live reload support.
package config

import (
	"io"
	"time"
)

// Config exposes typed access to configuration values. Implementations return
// the zero value when a key is missing or cannot be converted.
type Config interface {
	io.Closer

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond, GetMinute, and GetHour read an integer value and scale it
	// to the named unit.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration
	GetHour(key string) time.Duration

	// GetBinary reads a base64-encoded value and returns the decoded bytes.
	GetBinary(key string) []byte

	// GetArray reads a comma-separated value as a string slice.
	GetArray(key string) []string

	// GetMap reads a "k1:v1,k2:v2" value as a string map.
	GetMap(key string) map[string]string
}
