// Package config holds the configuration tree of a checkstyle run, the
// thread-mode settings that size the worker pools, and the module registry
// used to instantiate configured modules by name.
package config

import (
	"crypto/sha256"
	"sort"
	"strconv"

	"github.com/agilira/go-errors"
)

// Error codes for configuration handling.
const (
	ErrCodeInvalidConfig  = "CHECKSTYLE_INVALID_CONFIG"
	ErrCodeModuleNotFound = "CHECKSTYLE_MODULE_NOT_FOUND"
)

// Config is one node of the configuration tree: a module name, its string
// properties and its child module configurations. The root additionally
// carries the thread-mode settings, shared by every node of the tree.
type Config struct {
	name       string
	properties map[string]string
	children   []*Config
	threadMode *ThreadModeSettings
}

// NewConfig creates a configuration node for the given module name.
func NewConfig(name string) *Config {
	return &Config{
		name:       name,
		properties: make(map[string]string),
		threadMode: SingleThreadMode,
	}
}

// Name returns the configured module name.
func (c *Config) Name() string { return c.name }

// SetProperty stores a property value under the given key.
func (c *Config) SetProperty(key, value string) *Config {
	c.properties[key] = value
	return c
}

// Property returns the value of a property and whether it is set.
func (c *Config) Property(key string) (string, bool) {
	v, ok := c.properties[key]
	return v, ok
}

// PropertyOrDefault returns the property value or def when unset.
func (c *Config) PropertyOrDefault(key, def string) string {
	if v, ok := c.properties[key]; ok {
		return v
	}
	return def
}

// IntProperty parses a property as an int, returning def when unset.
func (c *Config) IntProperty(key string, def int) (int, error) {
	raw, ok := c.properties[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrap(err, ErrCodeInvalidConfig,
			"property "+key+" of module "+c.name+" is not an integer").
			WithContext("value", raw)
	}
	return v, nil
}

// PropertyKeys returns the set property keys in sorted order.
func (c *Config) PropertyKeys() []string {
	keys := make([]string, 0, len(c.properties))
	for k := range c.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddChild appends a child module configuration. The child inherits the
// parent's thread-mode settings.
func (c *Config) AddChild(child *Config) *Config {
	child.propagateThreadMode(c.threadMode)
	c.children = append(c.children, child)
	return c
}

// Children returns the child module configurations in declaration order.
func (c *Config) Children() []*Config { return c.children }

// ThreadMode returns the thread-mode settings attached to this tree.
func (c *Config) ThreadMode() *ThreadModeSettings { return c.threadMode }

// SetThreadMode attaches thread-mode settings to this node and every node
// below it.
func (c *Config) SetThreadMode(settings *ThreadModeSettings) {
	c.propagateThreadMode(settings)
}

func (c *Config) propagateThreadMode(settings *ThreadModeSettings) {
	if settings == nil {
		settings = SingleThreadMode
	}
	c.threadMode = settings
	for _, child := range c.children {
		child.propagateThreadMode(settings)
	}
}

// Digest returns a stable digest of the whole subtree: module names,
// sorted properties and children in order. Used to invalidate cached
// results when the configuration changes.
func (c *Config) Digest() []byte {
	h := sha256.New()
	c.writeDigest(h)
	return h.Sum(nil)
}

func (c *Config) writeDigest(h interface{ Write(p []byte) (int, error) }) {
	h.Write([]byte(c.name))
	h.Write([]byte{0})
	for _, k := range c.PropertyKeys() {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(c.properties[k]))
		h.Write([]byte{0})
	}
	for _, child := range c.children {
		h.Write([]byte{'{'})
		child.writeDigest(h)
		h.Write([]byte{'}'})
	}
}
