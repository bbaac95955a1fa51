package config

import (
	"github.com/BurntSushi/toml"
	"github.com/agilira/go-errors"
)

// Root-level properties recognized by the checkers.
const (
	CharsetProperty   = "charset"
	CacheFileProperty = "cacheFile"
)

// fileConfig mirrors the TOML layout of a configuration file.
type fileConfig struct {
	Charset           string         `toml:"charset"`
	CacheFile         string         `toml:"cache_file"`
	CheckerThreads    int            `toml:"checker_threads"`
	TreeWalkerThreads int            `toml:"tree_walker_threads"`
	Modules           []moduleConfig `toml:"module"`
}

// moduleConfig is a recursively nested module declaration.
type moduleConfig struct {
	Name       string            `toml:"name"`
	Properties map[string]string `toml:"properties"`
	Modules    []moduleConfig    `toml:"module"`
}

// Load reads a TOML configuration file and builds the configuration tree.
// The root module is named after the abstract Checker; callers resolve it
// through the thread-mode settings before instantiation.
func Load(path string) (*Config, error) {
	var raw fileConfig
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidConfig,
			"unable to load configuration file "+path)
	}
	return buildRoot(raw)
}

// Parse builds the configuration tree from in-memory TOML data.
func Parse(data string) (*Config, error) {
	var raw fileConfig
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, errors.Wrap(err, ErrCodeInvalidConfig,
			"unable to parse configuration")
	}
	return buildRoot(raw)
}

func buildRoot(raw fileConfig) (*Config, error) {
	// Отсутствующие счётчики потоков означают одиночный режим.
	if raw.CheckerThreads == 0 {
		raw.CheckerThreads = 1
	}
	if raw.TreeWalkerThreads == 0 {
		raw.TreeWalkerThreads = 1
	}
	settings, err := NewThreadModeSettings(raw.CheckerThreads, raw.TreeWalkerThreads)
	if err != nil {
		return nil, err
	}
	if settings.Single() {
		settings = SingleThreadMode
	}

	root := NewConfig(CheckerModuleName)
	if raw.Charset != "" {
		root.SetProperty(CharsetProperty, raw.Charset)
	}
	if raw.CacheFile != "" {
		root.SetProperty(CacheFileProperty, raw.CacheFile)
	}
	for i := range raw.Modules {
		child, err := buildModule(&raw.Modules[i])
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	root.SetThreadMode(settings)
	return root, nil
}

func buildModule(raw *moduleConfig) (*Config, error) {
	if raw.Name == "" {
		return nil, errors.New(ErrCodeInvalidConfig, "module declaration without a name")
	}
	cfg := NewConfig(raw.Name)
	for k, v := range raw.Properties {
		cfg.SetProperty(k, v)
	}
	for i := range raw.Modules {
		child, err := buildModule(&raw.Modules[i])
		if err != nil {
			return nil, err
		}
		cfg.AddChild(child)
	}
	return cfg, nil
}
