package minihttpd

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	RootDir         string `json:"rootdir,omitempty"`
	Listen          string `json:"listen,omitempty"`
	ChunkSize       int    `json:"chunksize,omitempty"`
	MaxRequestBytes int    `json:"maxrequestbytes,omitempty"`
	ShowHidden      bool   `json:"showhidden,omitempty"`
}

func CreateConfig() *Config {
	return &Config{
		RootDir:         "webroot",
		Listen:          "127.0.0.1:10001",
		ChunkSize:       1024,
		MaxRequestBytes: 64 * 1024,
	}
}

// LoadConfig reads a JSON config file over the defaults.
func LoadConfig(path string) (*Config, error) {
	config := CreateConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("rootdir cannot be empty")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunksize must be positive: %d", c.ChunkSize)
	}
	if c.MaxRequestBytes < c.ChunkSize {
		return fmt.Errorf("maxrequestbytes %d is smaller than chunksize %d", c.MaxRequestBytes, c.ChunkSize)
	}
	return nil
}
