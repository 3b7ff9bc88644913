// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"log/slog"

	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
)

// Builder turns a discovered asset list into host and group declarations
// on an inventory sink.
type Builder struct {
	// Sink receiving the declarations.
	Sink Sink
	// Configuration for the build.
	Conf conf.InventoryConfig
}

// Build sweeps the asset list once, filtering on metadata and declaring
// hosts, variables and group memberships. No asset is revisited.
func (b *Builder) Build(assets []discovery.Asset) {
	rootGroup := b.Conf.RootGroup
	b.Sink.AddGroup(rootGroup)

	seen := map[string]bool{}
	for _, asset := range assets {
		if !b.matchesFilters(asset) {
			slog.Debug("asset excluded by filters", "name", asset.Name)
			continue
		}
		if seen[asset.Name] {
			slog.Warn("duplicate normalized machine name, later machine wins", "name", asset.Name)
		}
		seen[asset.Name] = true

		slog.Debug("adding asset to inventory", "name", asset.Name, "ip", asset.IP)
		b.Sink.AddHost(asset.Name, rootGroup)
		b.Sink.SetVariable(asset.Name, "ansible_host", asset.IP)
		b.Sink.SetVariable(asset.Name, "os_type", asset.OSType)
		b.Sink.SetVariable(asset.Name, "power_state", asset.PowerState)
		b.Sink.SetVariable(asset.Name, "hardware_version", asset.HardwareVersion)
		b.Sink.SetVariable(asset.Name, "tools_version", asset.ToolsVersion)
		b.Sink.SetVariable(asset.Name, "machine_id", asset.MachineID)
		b.Sink.SetVariable(asset.Name, "memory_hot_add", asset.MemoryHotAdd)
		b.Sink.SetVariable(asset.Name, "cpu_hot_add", asset.CPUHotAdd)
		b.Sink.SetVariable(asset.Name, "storage_profile", asset.StorageProfile)

		for _, key := range b.Conf.GroupKeys {
			value, ok := asset.Metadata[key]
			if !ok {
				continue
			}
			for _, group := range groupNames(value, rootGroup) {
				slog.Debug("adding asset to group", "name", asset.Name, "group", group)
				b.Sink.AddGroup(group)
				b.Sink.AddChild(group, asset.Name)
			}
		}
	}
}

// An asset is included iff its metadata shares at least one key/value pair
// with the configured filters. Without filters, every asset is included.
func (b *Builder) matchesFilters(asset discovery.Asset) bool {
	if len(b.Conf.Filters) == 0 {
		return true
	}
	for key, want := range b.Conf.Filters {
		if got, ok := asset.Metadata[key]; ok && got == want {
			return true
		}
	}
	return false
}
