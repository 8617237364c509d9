package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/keeper/config"
	ConfigFileName    = "keeper.yml"
)

// KeeperConfig holds all Keeper configuration settings
type KeeperConfig struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies; the
	// origin address recorded on audit events honours X-Forwarded-For only
	// for requests arriving from these ranges.
	TrustedProxies []string `yaml:"trusted_proxies"`

	// APIProjectListLimitMax is the maximum number of results for listing requests
	APIProjectListLimitMax int `yaml:"api_project_list_limit_max"`

	// AuditEnabled toggles the RFC5424 audit line logger. Event rows are
	// always persisted regardless of this setting.
	AuditEnabled bool `yaml:"audit_enabled"`

	// DirectoryURL is the LDAP URL of the external directory service
	DirectoryURL string `yaml:"directory_url"`

	// DirectoryBaseDN is the search base for directory lookups
	DirectoryBaseDN string `yaml:"directory_base_dn"`

	// DirectoryBindDN is the service account used to bind to the directory
	DirectoryBindDN string `yaml:"directory_bind_dn"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *KeeperConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *KeeperConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *KeeperConfig {
	return &KeeperConfig{
		TrustedProxies:         []string{},
		APIProjectListLimitMax: 1000,
		AuditEnabled:           true,
		sources:                make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*KeeperConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("KEEPER_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig KeeperConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "api_project_list_limit_max", "audit_enabled",
		"directory_url", "directory_base_dn", "directory_bind_dn",
	}
}

func (c *KeeperConfig) applyFileConfig(file *KeeperConfig) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.APIProjectListLimitMax != 0 {
		c.APIProjectListLimitMax = file.APIProjectListLimitMax
		c.sources["api_project_list_limit_max"] = "file"
	}
	if file.DirectoryURL != "" {
		c.DirectoryURL = file.DirectoryURL
		c.sources["directory_url"] = "file"
	}
	if file.DirectoryBaseDN != "" {
		c.DirectoryBaseDN = file.DirectoryBaseDN
		c.sources["directory_base_dn"] = "file"
	}
	if file.DirectoryBindDN != "" {
		c.DirectoryBindDN = file.DirectoryBindDN
		c.sources["directory_bind_dn"] = "file"
	}
}

func (c *KeeperConfig) applyEnvConfig() {
	if val := os.Getenv("KEEPER_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("KEEPER_API_PROJECT_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.APIProjectListLimitMax = i
			c.sources["api_project_list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("KEEPER_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("KEEPER_DIRECTORY_URL"); val != "" {
		c.DirectoryURL = val
		c.sources["directory_url"] = "environment"
	}
	if val := os.Getenv("KEEPER_DIRECTORY_BASE_DN"); val != "" {
		c.DirectoryBaseDN = val
		c.sources["directory_base_dn"] = "environment"
	}
	if val := os.Getenv("KEEPER_DIRECTORY_BIND_DN"); val != "" {
		c.DirectoryBindDN = val
		c.sources["directory_bind_dn"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *KeeperConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *KeeperConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *KeeperConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *KeeperConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *KeeperConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "api_project_list_limit_max", Value: strconv.Itoa(c.APIProjectListLimitMax), Source: c.Source("api_project_list_limit_max")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "directory_url", Value: c.DirectoryURL, Source: c.Source("directory_url")},
		{Name: "directory_base_dn", Value: c.DirectoryBaseDN, Source: c.Source("directory_base_dn")},
		{Name: "directory_bind_dn", Value: c.DirectoryBindDN, Source: c.Source("directory_bind_dn")},
	}
}

// FormatText returns a text representation of the configuration
func (c *KeeperConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-40s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
