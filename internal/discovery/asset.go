// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package discovery

import "strings"

// One discovered machine, flattened into the shape the inventory needs.
type Asset struct {
	// Normalized machine name, unique within one discovery run.
	Name string `json:"name"`
	// The first network connection address inside the configured CIDR.
	IP string `json:"ip"`
	// Custom metadata entries of the machine. Empty if none are set.
	Metadata map[string]string `json:"metadata"`

	// Informational attributes, attached as inventory variables.
	OSType          string `json:"os_type"`
	PowerState      string `json:"power_state"`
	HardwareVersion string `json:"hardware_version"`
	ToolsVersion    string `json:"tools_version"`
	MachineID       string `json:"machine_id"`
	MemoryHotAdd    bool   `json:"memory_hot_add"`
	CPUHotAdd       bool   `json:"cpu_hot_add"`
	StorageProfile  string `json:"storage_profile"`
}

// Normalize a raw machine name into an inventory host name: lower-cased,
// hyphens replaced with underscores, periods removed. Existing inventories
// depend on this exact rule, so it must not change.
func NormalizeName(raw string) string {
	name := strings.ToLower(raw)
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "")
	return name
}
