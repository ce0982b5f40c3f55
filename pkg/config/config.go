// Package config implements the config loader (A1): parsing and
// round-tripping the YAML or JSON configuration file described in
// spec.md §6.1.
//
// Grounded on cmd/warren/apply.go's gopkg.in/yaml.v3 usage from the
// teacher repo, generalized from a one-off resource file into a typed,
// save/load-capable Config, with JSON decoding added alongside YAML per
// §6.1's "YAML or JSON (selected by an explicit flag)" requirement.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Mode mirrors pkg/store.Mode without importing it, keeping config free of
// a dependency on the storage engine.
type Mode string

const (
	ModeFast     Mode = "Fast"
	ModeLowSpace Mode = "LowSpace"
)

// ConnectionKind discriminates the rpc.connection tagged union.
type ConnectionKind string

const (
	ConnectionHTTP  ConnectionKind = "http"
	ConnectionHTTPS ConnectionKind = "https"
	ConnectionUDS   ConnectionKind = "uds"
)

// Connection is the tagged union `HTTP(host,port) | HTTPS(host,port) |
// UDS(path)` of spec.md §6.1's rpc.connection key.
type Connection struct {
	Kind ConnectionKind `yaml:"kind" json:"kind"`
	Host string         `yaml:"host,omitempty" json:"host,omitempty"`
	Port int            `yaml:"port,omitempty" json:"port,omitempty"`
	Path string         `yaml:"path,omitempty" json:"path,omitempty"`
}

// DB holds the db.* keys of §6.1.
type DB struct {
	Path              string `yaml:"path" json:"path"`
	SystemPageCache   int    `yaml:"system_page_cache,omitempty" json:"system_page_cache,omitempty"`
	CompressionFactor int    `yaml:"compression_factor,omitempty" json:"compression_factor,omitempty"`
	Mode              Mode   `yaml:"mode,omitempty" json:"mode,omitempty"`
	Debug             bool   `yaml:"debug,omitempty" json:"debug,omitempty"`
}

// RPC holds the rpc.* keys of §6.1. TLSCert/TLSKey are base64-encoded PEM,
// matching the wire representation the spec requires for the config file.
type RPC struct {
	Connection Connection `yaml:"connection" json:"connection"`
	AuthToken  string     `yaml:"auth_token,omitempty" json:"auth_token,omitempty"`
	TLSCert    string     `yaml:"tls_cert,omitempty" json:"tls_cert,omitempty"`
	TLSKey     string     `yaml:"tls_key,omitempty" json:"tls_key,omitempty"`
}

// Config is the full recognised key set of spec.md §6.1.
type Config struct {
	DB  DB  `yaml:"db" json:"db"`
	RPC RPC `yaml:"rpc" json:"rpc"`
}

// Default returns a plaintext-TCP configuration suitable for local
// development: HTTP on 127.0.0.1:8668, Fast mode, no auth token.
func Default() *Config {
	return &Config{
		DB: DB{
			Path: "./data",
			Mode: ModeFast,
		},
		RPC: RPC{
			Connection: Connection{Kind: ConnectionHTTP, Host: "127.0.0.1", Port: 8668},
		},
	}
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Load reads and parses the configuration file at path, selecting YAML or
// JSON by its extension (.json is JSON; anything else is YAML).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg := &Config{}
	if isJSON(path) {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s as json: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s as yaml: %w", path, err)
		}
	}

	if cfg.DB.Path == "" {
		return nil, fmt.Errorf("config: db.path is required")
	}
	if cfg.DB.Mode == "" {
		cfg.DB.Mode = ModeFast
	}
	return cfg, nil
}

// Save writes c to path as YAML or JSON, chosen the same way Load chooses
// its parser.
func (c *Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}

// ServerURL renders the address the server binds: host:port for
// HTTP/HTTPS, the socket path for UDS.
func (c *Config) ServerURL() string {
	switch c.RPC.Connection.Kind {
	case ConnectionUDS:
		return c.RPC.Connection.Path
	default:
		return fmt.Sprintf("%s:%d", c.RPC.Connection.Host, c.RPC.Connection.Port)
	}
}

// ClientURL adds the scheme prefix a client dials: http://, https://, or
// unix://.
func (c *Config) ClientURL() string {
	switch c.RPC.Connection.Kind {
	case ConnectionHTTPS:
		return "https://" + c.ServerURL()
	case ConnectionUDS:
		return "unix://" + c.ServerURL()
	default:
		return "http://" + c.ServerURL()
	}
}

// CertPEM base64-decodes the configured rpc.tls_cert.
func (c *Config) CertPEM() ([]byte, error) {
	return base64.StdEncoding.DecodeString(c.RPC.TLSCert)
}

// KeyPEM base64-decodes the configured rpc.tls_key.
func (c *Config) KeyPEM() ([]byte, error) {
	return base64.StdEncoding.DecodeString(c.RPC.TLSKey)
}

// SetCertificate stores certPEM/keyPEM base64-encoded, as spec.md §6.1
// requires for the config file's rpc.tls_cert/rpc.tls_key keys.
func (c *Config) SetCertificate(certPEM, keyPEM []byte) {
	c.RPC.TLSCert = base64.StdEncoding.EncodeToString(certPEM)
	c.RPC.TLSKey = base64.StdEncoding.EncodeToString(keyPEM)
}
