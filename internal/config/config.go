package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/elkit/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "elkit.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultFPS is the default frame rate of the batch scheduler.
	DefaultFPS = 60

	// MaxFPS is the highest accepted frame rate.
	MaxFPS = 240

	// DefaultIndent is the default pretty-print indentation.
	DefaultIndent = "  "

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "elkit"

	// DefaultOutput is the default publish target.
	DefaultOutput = "dist"
)

// Config represents the complete elkit.json configuration.
type Config struct {
	// Render contains HTML output settings.
	Render RenderConfig `json:"render"`

	// Server contains preview server settings.
	Server ServerConfig `json:"server"`

	// Frame contains batch scheduler settings.
	Frame FrameConfig `json:"frame"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Publish contains output destination settings.
	Publish PublishConfig `json:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains HTML output settings.
type RenderConfig struct {
	// Pretty enables indented output.
	Pretty bool `json:"pretty,omitempty"`

	// Indent is the string used per indentation level.
	Indent string `json:"indent,omitempty"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`
}

// FrameConfig contains batch scheduler settings.
type FrameConfig struct {
	// FPS is the number of frames per second.
	FPS int `json:"fps,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// PublishConfig contains output destination settings.
type PublishConfig struct {
	// Target is a directory or s3://bucket/prefix.
	Target string `json:"target,omitempty"`

	// S3 configures s3:// targets.
	S3 S3Config `json:"s3"`
}

// S3Config configures the S3 client.
type S3Config struct {
	Region   string `json:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Render: RenderConfig{
			Indent: DefaultIndent,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Frame: FrameConfig{
			FPS: DefaultFPS,
		},
		Metrics: MetricsConfig{
			Namespace: DefaultNamespace,
		},
		Publish: PublishConfig{
			Target: DefaultOutput,
		},
	}
}

// Load reads elkit.json from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadOrNew reads elkit.json from dir, or returns the defaults when the
// directory has none.
func LoadOrNew(dir string) (*Config, error) {
	if !Exists(dir) {
		return New(), nil
	}
	return Load(dir)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No elkit.json found at " + path).
				WithSuggestion("Create elkit.json or omit --config to use the defaults")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse elkit.json: " + err.Error()).
			WithSuggestion("Check that elkit.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Render.Indent == "" {
		c.Render.Indent = DefaultIndent
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Frame.FPS == 0 {
		c.Frame.FPS = DefaultFPS
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Publish.Target == "" {
		c.Publish.Target = DefaultOutput
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if c.Frame.FPS < 1 || c.Frame.FPS > MaxFPS {
		return errors.New("E121").
			WithDetail("fps must be between 1 and 240, got " + strconv.Itoa(c.Frame.FPS))
	}
	return nil
}

// Address returns the listen address of the preview server.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
