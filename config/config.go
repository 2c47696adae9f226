// Package config loads daemon settings from file, environment and flags
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/lixenwraith/liquid-glass/parameter"
)

// EnvPrefix namespaces environment overrides, e.g. LIQUIDGLASS_LOG_LEVEL
const EnvPrefix = "LIQUIDGLASS"

// Settings is the full daemon configuration
type Settings struct {
	Log     LogSettings     `mapstructure:"log"`
	Engine  EngineSettings  `mapstructure:"engine"`
	IPC     IPCSettings     `mapstructure:"ipc"`
	Console ConsoleSettings `mapstructure:"console"`

	// Glass holds startup directive lines derived from the [glass] table
	Glass []string `mapstructure:"-"`

	// Script is an optional directive script run after the [glass] table
	Script string `mapstructure:"script"`

	// File is the config file actually read, empty when none was found
	File string `mapstructure:"-"`
}

type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type EngineSettings struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

type IPCSettings struct {
	Listen string `mapstructure:"listen"`
}

type ConsoleSettings struct {
	Audible bool `mapstructure:"audible"`
}

// glassKeys maps [glass] table keys to directive names, in execution order
var glassKeys = []struct{ key, directive string }{
	{"enabled", "liquid_glass"},
	{"surface", "liquid_glass_surface"},
	{"bezel_width", "liquid_glass_bezel_width"},
	{"thickness", "liquid_glass_thickness"},
	{"refraction_index", "liquid_glass_refraction_index"},
	{"specular", "liquid_glass_specular"},
	{"specular_opacity", "liquid_glass_specular_opacity"},
	{"specular_angle", "liquid_glass_specular_angle"},
	{"brightness_boost", "liquid_glass_brightness_boost"},
	{"saturation_boost", "liquid_glass_saturation_boost"},
	{"noise_intensity", "liquid_glass_noise_intensity"},
	{"chromatic_aberration", "liquid_glass_chromatic_aberration"},
}

// Options locates configuration sources
type Options struct {
	ConfigFile string // Explicit path; when empty the search paths are used
	EnvFile    string // Dotenv file loaded into the environment first, ignored if missing
}

// NewViper returns a viper instance with defaults and env binding applied
// Callers bind flags onto it before Load
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("engine.frame_interval", parameter.FrameUpdateInterval)
	v.SetDefault("ipc.listen", parameter.DefaultListenAddr)
	v.SetDefault("console.audible", false)
	v.SetDefault("script", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, g := range glassKeys {
		_ = v.BindEnv("glass." + g.key)
	}
	return v
}

// Load reads settings into v and decodes them
func Load(v *viper.Viper, opts Options) (*Settings, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	v.SetConfigType("toml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("liquidglass")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "liquid-glass"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	s.File = v.ConfigFileUsed()
	s.Glass = glassDirectives(v)
	return &s, nil
}

// glassDirectives converts every set [glass] key into a directive line
// Values are passed as text so the directive validators decide acceptance
func glassDirectives(v *viper.Viper) []string {
	var lines []string
	for _, g := range glassKeys {
		key := "glass." + g.key
		if !v.IsSet(key) {
			continue
		}
		lines = append(lines, g.directive+" "+formatValue(v.Get(key)))
	}
	return lines
}

func formatValue(val any) string {
	switch x := val.(type) {
	case bool:
		if x {
			return "enable"
		}
		return "disable"
	case string:
		if x == "" {
			return `""`
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
