// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import (
	"fmt"
	"net/netip"

	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
)

// Extractor turns raw machine records into inventory assets.
type Extractor struct {
	// CIDR range to select the machine address from, parsed once per run.
	prefix netip.Prefix
}

// Create a new extractor for the given CIDR range.
func NewExtractor(cidr string) (*Extractor, error) {
	prefix, err := netip.ParsePrefix(cidr)
	if err != nil {
		return nil, fmt.Errorf("invalid cidr %s: %w", cidr, err)
	}
	return &Extractor{prefix: prefix}, nil
}

// Extract resolves one machine into an asset. The first connection address
// inside the CIDR range wins, later matches are never considered. A machine
// without a matching address yields (nil, nil) and is dropped from the
// inventory.
func (e *Extractor) Extract(machine *Machine) (*discovery.Asset, error) {
	name := discovery.NormalizeName(machine.Name)

	ip := ""
	for _, connection := range machine.Connections {
		addr, err := netip.ParseAddr(connection.IPAddress)
		if err != nil {
			continue
		}
		if e.prefix.Contains(addr) {
			ip = connection.IPAddress
			break
		}
	}

	metadata := machine.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}

	// A well-formed machine resource always carries these sections.
	if machine.Spec == nil {
		return nil, &MalformedMachineError{Machine: machine.Name, Reason: "missing vm spec section"}
	}
	if machine.Capabilities == nil {
		return nil, &MalformedMachineError{Machine: machine.Name, Reason: "missing vm capabilities section"}
	}
	if machine.GuestCustomization == nil {
		return nil, &MalformedMachineError{Machine: machine.Name, Reason: "missing guest customization section"}
	}
	if machine.StorageProfile == nil {
		return nil, &MalformedMachineError{Machine: machine.Name, Reason: "missing storage profile"}
	}
	powerState, ok := StatusLabels[machine.Status]
	if !ok {
		return nil, &MalformedMachineError{
			Machine: machine.Name,
			Reason:  fmt.Sprintf("unknown status code %d", machine.Status),
		}
	}

	if ip == "" {
		// Not addressable within the configured range.
		return nil, nil
	}

	return &discovery.Asset{
		Name:            name,
		IP:              ip,
		Metadata:        metadata,
		OSType:          machine.Spec.OSType,
		PowerState:      powerState,
		HardwareVersion: machine.Spec.HardwareVersion,
		ToolsVersion:    machine.Spec.ToolsVersion,
		MachineID:       machine.GuestCustomization.MachineID,
		MemoryHotAdd:    machine.Capabilities.MemoryHotAdd,
		CPUHotAdd:       machine.Capabilities.CPUHotAdd,
		StorageProfile:  machine.StorageProfile.Name,
	}, nil
}
