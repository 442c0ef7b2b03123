package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ErrConfigType is returned by NewViperFromBytes without a format name.
var ErrConfigType = errors.New("config: type is required")

// Viper implements Config with spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at path and reloads it when it changes on disk.
// Environment variables override file values, with "." in keys replaced by
// "_" (database.url becomes DATABASE_URL).
func NewViper(path string) (*Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config reloaded", "path", filepath.Clean(e.Name), "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of the given format ("yaml", "json",
// ...) from memory.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigType
	}

	v := viper.New()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func (c *Viper) IsSet(key string) bool { return c.v.IsSet(key) }
func (c *Viper) GetString(key string) string { return c.v.GetString(key) }
func (c *Viper) GetBool(key string) bool { return c.v.GetBool(key) }
func (c *Viper) GetInt(key string) int { return c.v.GetInt(key) }
func (c *Viper) GetInt32(key string) int32 { return c.v.GetInt32(key) }
func (c *Viper) GetInt64(key string) int64 { return c.v.GetInt64(key) }
func (c *Viper) GetFloat64(key string) float64 { return c.v.GetFloat64(key) }

func (c *Viper) GetSecond(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Second
}

func (c *Viper) GetMinute(key string) time.Duration {
	return time.Duration(c.v.GetInt64(key)) * time.Minute
}

func (c *Viper) GetBinary(key string) []byte {
	raw := c.v.GetString(key)
	if raw == "" {
		return nil
	}

	b, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	return b
}

func (c *Viper) GetArray(key string) []string {
	var raw []string
	if _, isString := c.v.Get(key).(string); isString {
		raw = strings.Split(c.v.GetString(key), ",")
	} else {
		raw = c.v.GetStringSlice(key)
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Viper) GetMap(key string) map[string]string {
	if _, isString := c.v.Get(key).(string); !isString {
		return c.v.GetStringMapString(key)
	}

	m := make(map[string]string)
	for _, pair := range strings.Split(c.v.GetString(key), ",") {
		k, val, ok := strings.Cut(pair, ":")
		if k = strings.TrimSpace(k); ok && k != "" {
			m[k] = strings.TrimSpace(val)
		}
	}
	return m
}

// Close satisfies io.Closer; viper holds no resources.
func (c *Viper) Close() error { return nil }
