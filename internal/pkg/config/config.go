// Package config reads typed application settings.
//
// Keys are dotted paths into a YAML document, e.g. "database.url". Missing
// keys return the zero value of the requested type.
package config

import (
	"io"
	"time"
)

// Config provides typed access to configuration values.
type Config interface {
	io.Closer

	// IsSet reports whether key has a value in the file or environment.
	IsSet(key string) bool

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it to a duration.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetBinary reads a base64 encoded value. Invalid base64 yields nil.
	GetBinary(key string) []byte

	// GetArray reads either a YAML list or a comma separated string. Empty
	// elements are dropped.
	GetArray(key string) []string

	// GetMap reads either a YAML mapping or "k:v,k:v" pairs.
	GetMap(key string) map[string]string
}
