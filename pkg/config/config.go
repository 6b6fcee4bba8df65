/*
Package config manages the TOML config for yosoku.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/yosoku/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up in the config directory.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	Predictor PredictorConfig `toml:"predictor"`
	Chain     ChainConfig     `toml:"chain"`
	Editor    EditorConfig    `toml:"editor"`
	Server    ServerConfig    `toml:"server"`
}

// PredictorConfig controls lookups.
type PredictorConfig struct {
	Depth    int  `toml:"depth"`
	FoldCase bool `toml:"fold_case"`
}

// ChainConfig lists where the chain comes from and how it is trained.
type ChainConfig struct {
	Sources       []string `toml:"sources"`
	Snapshot      string   `toml:"snapshot"`
	Learn         bool     `toml:"learn"`
	MinCount      int      `toml:"min_count"`
	BloomCapacity int      `toml:"bloom_capacity"`
	BloomFPRate   float64  `toml:"bloom_fp_rate"`
}

// EditorConfig holds interactive line options.
type EditorConfig struct {
	Prompt       string `toml:"prompt"`
	GhostColor   string `toml:"ghost_color"`
	GhostItalic  bool   `toml:"ghost_italic"`
	CancelResult string `toml:"cancel_result"`
}

// ServerConfig has IPC options.
type ServerConfig struct {
	EnableLearn bool `toml:"enable_learn"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Predictor: PredictorConfig{
			Depth:    2,
			FoldCase: false,
		},
		Chain: ChainConfig{
			Snapshot:      "",
			Learn:         false,
			MinCount:      0,
			BloomCapacity: 0,
			BloomFPRate:   0.01,
		},
		Editor: EditorConfig{
			Prompt:       "> ",
			GhostColor:   "8",
			GhostItalic:  true,
			CancelResult: "",
		},
		Server: ServerConfig{
			EnableLearn: false,
		},
	}
}

// Validate clamps values that would make no sense and reports what it changed.
func (c *Config) Validate() []string {
	var fixed []string
	def := DefaultConfig()
	if c.Predictor.Depth < 0 {
		fixed = append(fixed, fmt.Sprintf("predictor.depth %d < 0, using %d", c.Predictor.Depth, def.Predictor.Depth))
		c.Predictor.Depth = def.Predictor.Depth
	}
	if c.Chain.MinCount < 0 {
		fixed = append(fixed, fmt.Sprintf("chain.min_count %d < 0, using 0", c.Chain.MinCount))
		c.Chain.MinCount = 0
	}
	if c.Chain.BloomCapacity < 0 {
		fixed = append(fixed, fmt.Sprintf("chain.bloom_capacity %d < 0, disabling", c.Chain.BloomCapacity))
		c.Chain.BloomCapacity = 0
	}
	if c.Chain.BloomFPRate <= 0 || c.Chain.BloomFPRate >= 1 {
		fixed = append(fixed, fmt.Sprintf("chain.bloom_fp_rate %g outside (0, 1), using %g", c.Chain.BloomFPRate, def.Chain.BloomFPRate))
		c.Chain.BloomFPRate = def.Chain.BloomFPRate
	}
	for _, msg := range fixed {
		log.Warnf("Invalid config value: %s", msg)
	}
	return fixed
}

// GetDefaultConfigPath returns where config.toml lives for this user.
func GetDefaultConfigPath() string {
	return utils.NewPathResolver().ConfigPath(FileName)
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/yosoku/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath := GetDefaultConfigPath()
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.Validate()
	return config, nil
}

// tryPartialParse salvages every well typed value of a file that failed to decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(raw, "predictor"); ok {
		extractPredictorConfig(section, &config.Predictor)
	}
	if section, ok := utils.ExtractSection(raw, "chain"); ok {
		extractChainConfig(section, &config.Chain)
	}
	if section, ok := utils.ExtractSection(raw, "editor"); ok {
		extractEditorConfig(section, &config.Editor)
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	config.Validate()
	return config, nil
}

func extractPredictorConfig(data map[string]any, p *PredictorConfig) {
	if val, ok := utils.ExtractInt64(data, "depth"); ok {
		p.Depth = val
	}
	if val, ok := utils.ExtractBool(data, "fold_case"); ok {
		p.FoldCase = val
	}
}

func extractChainConfig(data map[string]any, c *ChainConfig) {
	if val, ok := utils.ExtractStrings(data, "sources"); ok {
		c.Sources = val
	}
	if val, ok := utils.ExtractString(data, "snapshot"); ok {
		c.Snapshot = val
	}
	if val, ok := utils.ExtractBool(data, "learn"); ok {
		c.Learn = val
	}
	if val, ok := utils.ExtractInt64(data, "min_count"); ok {
		c.MinCount = val
	}
	if val, ok := utils.ExtractInt64(data, "bloom_capacity"); ok {
		c.BloomCapacity = val
	}
	if val, ok := utils.ExtractFloat(data, "bloom_fp_rate"); ok {
		c.BloomFPRate = val
	}
}

func extractEditorConfig(data map[string]any, e *EditorConfig) {
	if val, ok := utils.ExtractString(data, "prompt"); ok {
		e.Prompt = val
	}
	if val, ok := utils.ExtractString(data, "ghost_color"); ok {
		e.GhostColor = val
	}
	if val, ok := utils.ExtractBool(data, "ghost_italic"); ok {
		e.GhostItalic = val
	}
	if val, ok := utils.ExtractString(data, "cancel_result"); ok {
		e.CancelResult = val
	}
}

func extractServerConfig(data map[string]any, s *ServerConfig) {
	if val, ok := utils.ExtractBool(data, "enable_learn"); ok {
		s.EnableLearn = val
	}
}

// RebuildConfigFile force creates a new config.toml at the default path.
func RebuildConfigFile() (string, error) {
	path := GetDefaultConfigPath()
	if err := SaveConfig(DefaultConfig(), path); err != nil {
		return "", err
	}
	return path, nil
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
