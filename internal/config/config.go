// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/ColonelBlimp/morsechat/internal/audio"
	"github.com/ColonelBlimp/morsechat/internal/cw"
	"github.com/ColonelBlimp/morsechat/internal/relay"
	"github.com/spf13/viper"
)

const (
	AppName       = "morsechat"
	ConfigType    = "yaml"
	EnvPrefix     = "MORSECHAT"
	DefaultConfig = `# Morse Chat Configuration

# Identity
# username: ""          # defaults to your login name
room: "lobby"           # room to join
relay_url: "ws://localhost:8080/ws"
reconnect_delay_ms: 2000

# Keying
dot_dash_threshold_ms: 200  # presses shorter than this are dots
decode_timeout_ms: 800      # pause that finalizes a character
stale_timeout_ms: 2000      # pause that discards an unfinished sequence
                            # must be greater than decode_timeout_ms

# Audio cues for received symbols
audio_enabled: true
device_index: -1        # -1 for default device
sample_rate: 48000      # Playback sample rate in Hz
cue_frequency: 600      # Cue tone frequency in Hz
cue_short_ms: 80        # Cue length for a dot
cue_long_ms: 240        # Cue length for a dash
cue_volume: 0.5         # 0.0-1.0

# Output
log_level: "info"       # debug, info, warn, error
debug: false            # Enable debug output (forces log_level debug)
`
)

// Settings holds all application configuration
type Settings struct {
	// Identity
	Username         string `mapstructure:"username"`
	Room             string `mapstructure:"room"`
	RelayURL         string `mapstructure:"relay_url"`
	ReconnectDelayMs int    `mapstructure:"reconnect_delay_ms"`

	// Keying
	DotDashThresholdMs int `mapstructure:"dot_dash_threshold_ms"`
	DecodeTimeoutMs    int `mapstructure:"decode_timeout_ms"`
	StaleTimeoutMs     int `mapstructure:"stale_timeout_ms"`

	// Audio cues
	AudioEnabled bool    `mapstructure:"audio_enabled"`
	DeviceIndex  int     `mapstructure:"device_index"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	CueFrequency float64 `mapstructure:"cue_frequency"`
	CueShortMs   int     `mapstructure:"cue_short_ms"`
	CueLongMs    int     `mapstructure:"cue_long_ms"`
	CueVolume    float64 `mapstructure:"cue_volume"`

	// Output
	LogLevel string `mapstructure:"log_level"`
	Debug    bool   `mapstructure:"debug"`
}

// Init initializes Viper with defaults, environment and config file.
// Config file search order: current directory, then ~/.config/morsechat/
func Init() error {
	viper.SetDefault("username", defaultUsername())
	viper.SetDefault("room", "lobby")
	viper.SetDefault("relay_url", "ws://localhost:8080/ws")
	viper.SetDefault("reconnect_delay_ms", 2000)
	viper.SetDefault("dot_dash_threshold_ms", 200)
	viper.SetDefault("decode_timeout_ms", 800)
	viper.SetDefault("stale_timeout_ms", 2000)
	viper.SetDefault("audio_enabled", true)
	viper.SetDefault("device_index", -1)
	viper.SetDefault("sample_rate", 48000)
	viper.SetDefault("cue_frequency", 600)
	viper.SetDefault("cue_short_ms", 80)
	viper.SetDefault("cue_long_ms", 240)
	viper.SetDefault("cue_volume", 0.5)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("debug", false)

	// MORSECHAT_RELAY_URL etc. override the file
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetConfigType(ConfigType)

	// Priority order: current directory first, then XDG config
	viper.AddConfigPath(".")

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	viper.AddConfigPath(filepath.Join(configDir, AppName))

	// Try .config.yaml first (hidden file), then config.yaml
	viper.SetConfigName(".config")
	if err = viper.ReadInConfig(); err != nil {
		viper.SetConfigName("config")
		err = viper.ReadInConfig()
	}

	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("read config: %w", err)
		}
		// No config found - create default in ~/.config/morsechat/
		if err = ensureConfigExists(filepath.Join(configDir, AppName)); err != nil {
			return err
		}
		if err = viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

func defaultUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return strings.Join(strings.Fields(u.Username), "_")
	}
	return "operator"
}

func ensureConfigExists(configPath string) error {
	configFile := filepath.Join(configPath, "config.yaml")

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err = os.MkdirAll(configPath, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
		if err = os.WriteFile(configFile, []byte(DefaultConfig), 0644); err != nil {
			return fmt.Errorf("write default config: %w", err)
		}
	}
	return nil
}

// Get returns the current settings
func Get() (*Settings, error) {
	var s Settings
	if err := viper.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &s, nil
}

// Validate checks that all settings are within acceptable ranges
func (s *Settings) Validate() error {
	var errs []error

	// Identity
	if s.Username == "" || strings.ContainsFunc(s.Username, isSpace) {
		errs = append(errs, fmt.Errorf("username must be non-empty without whitespace, got %q", s.Username))
	}
	if s.Room == "" {
		errs = append(errs, errors.New("room must not be empty"))
	}
	if u, err := url.Parse(s.RelayURL); err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		errs = append(errs, fmt.Errorf("relay_url must be a ws:// or wss:// URL, got %q", s.RelayURL))
	}
	if s.ReconnectDelayMs < 100 || s.ReconnectDelayMs > 60000 {
		errs = append(errs, fmt.Errorf("reconnect_delay_ms must be between 100 and 60000, got %d", s.ReconnectDelayMs))
	}

	// Keying
	if s.DotDashThresholdMs < 20 || s.DotDashThresholdMs > 2000 {
		errs = append(errs, fmt.Errorf("dot_dash_threshold_ms must be between 20 and 2000, got %d", s.DotDashThresholdMs))
	}
	if s.DecodeTimeoutMs < 100 || s.DecodeTimeoutMs > 10000 {
		errs = append(errs, fmt.Errorf("decode_timeout_ms must be between 100 and 10000, got %d", s.DecodeTimeoutMs))
	}
	if s.StaleTimeoutMs <= s.DecodeTimeoutMs {
		errs = append(errs, fmt.Errorf("stale_timeout_ms (%d) must be greater than decode_timeout_ms (%d)", s.StaleTimeoutMs, s.DecodeTimeoutMs))
	}

	// Audio cues
	if s.SampleRate < 8000 || s.SampleRate > 192000 {
		errs = append(errs, fmt.Errorf("sample_rate must be between 8000 and 192000 Hz, got %v", s.SampleRate))
	}
	if s.CueFrequency < 100 || s.CueFrequency > 3000 {
		errs = append(errs, fmt.Errorf("cue_frequency must be between 100 and 3000 Hz, got %v", s.CueFrequency))
	}
	// Nyquist check: cue frequency must be less than half the sample rate
	if s.CueFrequency >= s.SampleRate/2 {
		errs = append(errs, fmt.Errorf("cue_frequency (%v Hz) must be less than Nyquist frequency (%v Hz)", s.CueFrequency, s.SampleRate/2))
	}
	if s.CueShortMs < 10 || s.CueShortMs > 1000 {
		errs = append(errs, fmt.Errorf("cue_short_ms must be between 10 and 1000, got %d", s.CueShortMs))
	}
	if s.CueLongMs < s.CueShortMs || s.CueLongMs > 2000 {
		errs = append(errs, fmt.Errorf("cue_long_ms must be between cue_short_ms and 2000, got %d", s.CueLongMs))
	}
	if s.CueVolume < 0.0 || s.CueVolume > 1.0 {
		errs = append(errs, fmt.Errorf("cue_volume must be between 0.0 and 1.0, got %v", s.CueVolume))
	}

	// Output
	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", s.LogLevel))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Level returns the slog level. Debug forces slog.LevelDebug.
func (s *Settings) Level() slog.Level {
	if s.Debug {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func millis(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// Decoder returns the keying timings.
func (s *Settings) Decoder() cw.DecoderConfig {
	return cw.DecoderConfig{
		DotDashThreshold: millis(s.DotDashThresholdMs),
		DecodeTimeout:    millis(s.DecodeTimeoutMs),
		StaleTimeout:     millis(s.StaleTimeoutMs),
	}
}

// Audio returns the cue player configuration.
func (s *Settings) Audio() audio.Config {
	return audio.Config{
		DeviceIndex: s.DeviceIndex,
		SampleRate:  uint32(s.SampleRate),
		Frequency:   s.CueFrequency,
		Volume:      s.CueVolume,
		ShortCue:    millis(s.CueShortMs),
		LongCue:     millis(s.CueLongMs),
	}
}

// Relay returns the relay client configuration.
func (s *Settings) Relay() relay.Config {
	return relay.Config{
		URL:            s.RelayURL,
		Room:           s.Room,
		Username:       s.Username,
		ReconnectDelay: millis(s.ReconnectDelayMs),
	}
}
