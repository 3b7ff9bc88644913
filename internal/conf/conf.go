// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Expected value of the plugin token, if one is given in the config file.
const PluginName = "vcloud_director_inventory"

// Accepted config file suffixes. Only files ending in one of these are
// treated as inventory sources.
var inventoryFileSuffixes = []string{"vcloud.yaml", "vcloud.yml"}

// Configuration for the vCloud Director endpoint.
type VCloudConfig struct {
	// The URL of the vCloud Director endpoint, without a trailing slash.
	Host string `yaml:"host"`
	// The vCloud Director user name.
	User string `yaml:"user"`
	// The vCloud Director user password.
	Password string `yaml:"password"`
	// The organization to log into.
	Org string `yaml:"org"`
	// The API version to negotiate, e.g. "36.0".
	APIVersion string `yaml:"apiVersion"`
	// Whether to verify the endpoint's SSL certificates.
	VerifySSLCerts bool `yaml:"verifySslCerts"`
}

// Configuration for the discovery traversal.
type DiscoveryConfig struct {
	// The name of the virtual datacenter to discover machines in.
	TargetVDC string `yaml:"targetVdc"`
	// CIDR range used to select the machine IP from its network connections.
	CIDR string `yaml:"cidr"`
	// Number of concurrent machine extractions. Values <= 1 run sequentially.
	Workers int `yaml:"workers"`
	// Skip machines with malformed resources instead of aborting the run.
	SkipMalformed bool `yaml:"skipMalformed"`
}

// Configuration for the inventory build.
type InventoryConfig struct {
	// The group all discovered hosts are placed under.
	RootGroup string `yaml:"rootGroup"`
	// Metadata keys whose values become additional groups.
	GroupKeys []string `yaml:"groupKeys"`
	// Metadata key/value pairs a machine must match at least one of.
	Filters map[string]string `yaml:"filters"`
}

// Database configuration for the postgres cache driver.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// Configuration for the result cache.
type CacheConfig struct {
	// Whether discovery results are cached at all.
	Enabled bool `yaml:"enabled"`
	// Flush the cache before the run.
	Flush bool `yaml:"flush"`
	// The cache backend, "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	// Path of the sqlite database file.
	SQLitePath string `yaml:"sqlitePath"`
	// Connection settings for the postgres driver.
	DB DBConfig `yaml:"db"`
}

// Configuration for the monitoring module.
type MonitoringConfig struct {
	// The labels to add to all metrics.
	Labels map[string]string `yaml:"labels"`
	// The port to expose the metrics on. 0 disables the listener.
	Port int `yaml:"port"`
}

// Configuration for the inventory service.
type Config interface {
	GetVCloudConfig() VCloudConfig
	GetDiscoveryConfig() DiscoveryConfig
	GetInventoryConfig() InventoryConfig
	GetCacheConfig() CacheConfig
	GetLoggingConfig() LoggingConfig
	GetMonitoringConfig() MonitoringConfig
	// Check if the configuration is valid.
	Validate() error
}

type config struct {
	// Token that marks the file as a source for this inventory.
	Plugin string `yaml:"plugin"`

	VCloudConfig     `yaml:"vcloud"`
	DiscoveryConfig  `yaml:"discovery"`
	InventoryConfig  `yaml:"inventory"`
	CacheConfig      `yaml:"cache"`
	LoggingConfig    `yaml:"logging"`
	MonitoringConfig `yaml:"monitoring"`
}

// Check if the given path names a recognized inventory config file.
func IsInventoryFile(path string) bool {
	for _, suffix := range inventoryFileSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// Create a new configuration from the given file.
func NewConfigFromFile(filepath string) (Config, error) {
	if !IsInventoryFile(filepath) {
		return nil, fmt.Errorf(
			"not an inventory config file (expected a %s suffix): %s",
			strings.Join(inventoryFileSuffixes, " or "), filepath,
		)
	}
	file, err := os.Open(filepath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return newConfigFromBytes(bytes)
}

// Create a new configuration from the given bytes.
func newConfigFromBytes(bytes []byte) (Config, error) {
	var c config
	if err := yaml.Unmarshal(bytes, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *config) GetVCloudConfig() VCloudConfig         { return c.VCloudConfig }
func (c *config) GetDiscoveryConfig() DiscoveryConfig   { return c.DiscoveryConfig }
func (c *config) GetInventoryConfig() InventoryConfig   { return c.InventoryConfig }
func (c *config) GetCacheConfig() CacheConfig           { return c.CacheConfig }
func (c *config) GetLoggingConfig() LoggingConfig       { return c.LoggingConfig }
func (c *config) GetMonitoringConfig() MonitoringConfig { return c.MonitoringConfig }
