// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"errors"
	"fmt"
	"net/netip"
	"slices"
	"strings"
)

// Check if the configuration is valid and fill in defaults.
func (c *config) Validate() error {
	if c.Plugin != "" && c.Plugin != PluginName {
		return fmt.Errorf("unexpected plugin token %q, want %q", c.Plugin, PluginName)
	}
	if c.VCloudConfig.Host == "" {
		return errors.New("vcloud host must be set")
	}
	// The SDK appends /api itself, so the host must end without a slash.
	if strings.HasSuffix(c.VCloudConfig.Host, "/") {
		return fmt.Errorf("vcloud host %s should not end with a slash", c.VCloudConfig.Host)
	}
	if c.DiscoveryConfig.TargetVDC == "" {
		return errors.New("discovery targetVdc must be set")
	}
	if c.DiscoveryConfig.CIDR == "" {
		return errors.New("discovery cidr must be set")
	}
	if _, err := netip.ParsePrefix(c.DiscoveryConfig.CIDR); err != nil {
		return fmt.Errorf("invalid discovery cidr %s: %w", c.DiscoveryConfig.CIDR, err)
	}
	if c.DiscoveryConfig.Workers < 0 {
		return fmt.Errorf("invalid discovery workers %d", c.DiscoveryConfig.Workers)
	}
	if c.InventoryConfig.RootGroup == "" {
		c.InventoryConfig.RootGroup = "all"
	}
	if c.CacheConfig.Driver == "" {
		c.CacheConfig.Driver = "sqlite"
	}
	validDrivers := []string{"sqlite", "postgres"}
	if !slices.Contains(validDrivers, c.CacheConfig.Driver) {
		return fmt.Errorf("invalid cache driver %s", c.CacheConfig.Driver)
	}
	if c.MonitoringConfig.Port < 0 || c.MonitoringConfig.Port > 65535 {
		return fmt.Errorf("invalid monitoring port %d", c.MonitoringConfig.Port)
	}
	return nil
}
