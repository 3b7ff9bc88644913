// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

// Reference to a vApp container in the target virtual datacenter.
type VAppRef struct {
	Name string
	HREF string
}

// Reference to a machine inside a vApp.
type MachineRef struct {
	Name string
}

// One network connection of a machine, in section listing order.
type Connection struct {
	Network   string
	IPAddress string
	Index     int
}

// Hardware and runtime attributes from the machine's spec section.
type MachineSpec struct {
	OSType          string
	HardwareVersion string
	ToolsVersion    string
}

// Hot-add capability flags of a machine.
type MachineCapabilities struct {
	MemoryHotAdd bool
	CPUHotAdd    bool
}

// Guest customization attributes of a machine.
type GuestCustomization struct {
	MachineID string
}

// Storage profile reference of a machine.
type StorageProfile struct {
	Name string
}

// Machine record as read from the vCloud API. Section pointers are nil when
// the resource did not expose the section; the extractor treats that as a
// malformed machine.
type Machine struct {
	Name        string
	Status      int
	Connections []Connection
	Metadata    map[string]string

	Spec               *MachineSpec
	Capabilities       *MachineCapabilities
	GuestCustomization *GuestCustomization
	StorageProfile     *StorageProfile
}
