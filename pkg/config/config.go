// Package config loads the server's YAML configuration via viper,
// failing only on a malformed file and otherwise falling back to
// defaults.
package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// ServerConfig carries the RESP listener's bind address, optional
// unix socket path, and admission-control ceiling.
type ServerConfig struct {
	Bind       string `yaml:"bind"`
	Port       int    `yaml:"port"`
	UnixSocket string `yaml:"unixsocket"`
	MaxClients int    `yaml:"maxclients"`
}

// StorageConfig selects the embedded engine and its data directory.
type StorageConfig struct {
	Engine string `yaml:"engine"` // "badger" | "leveldb"
	Dir    string `yaml:"dir"`
}

// LogConfig mirrors pkg/logger.Config's fields under the YAML
// tree's log: key.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"maxsize"`
	MaxAge     int    `yaml:"maxage"`
	MaxBackups int    `yaml:"maxbackups"`
}

// InfoConfig is the introspection HTTP endpoint's listen address.
type InfoConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the top-level document unmarshaled from the server's YAML
// file.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	Databases int           `yaml:"databases"`
	Storage   StorageConfig `yaml:"storage"`
	Log       LogConfig     `yaml:"log"`
	Info      InfoConfig    `yaml:"info"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.bind", "0.0.0.0")
	v.SetDefault("server.port", 6379)
	v.SetDefault("server.unixsocket", "")
	v.SetDefault("server.maxclients", 10000)
	v.SetDefault("databases", 16)
	v.SetDefault("storage.engine", "badger")
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", "./logs/server.log")
	v.SetDefault("log.maxsize", 500)
	v.SetDefault("log.maxage", 360)
	v.SetDefault("log.maxbackups", 20)
	v.SetDefault("info.addr", "127.0.0.1:6380")
}

// Load reads path (a YAML file) into a Config. A missing file is not
// an error: every key has a default, so Load("") or a nonexistent
// path still yields a runnable server. A file that exists but cannot
// be parsed returns the viper error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			_, notFound := err.(viper.ConfigFileNotFoundError)
			if !notFound && !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
