// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import (
	"errors"
	"testing"
)

func wellFormedMachine(name string, ips ...string) Machine {
	connections := []Connection{}
	for i, ip := range ips {
		connections = append(connections, Connection{Network: "net0", IPAddress: ip, Index: i})
	}
	return Machine{
		Name:        name,
		Status:      4,
		Connections: connections,
		Metadata:    map[string]string{},
		Spec: &MachineSpec{
			OSType:          "ubuntu64Guest",
			HardwareVersion: "vmx-19",
			ToolsVersion:    "12352",
		},
		Capabilities:       &MachineCapabilities{MemoryHotAdd: true},
		GuestCustomization: &GuestCustomization{MachineID: "vm-1"},
		StorageProfile:     &StorageProfile{Name: "gold"},
	}
}

func TestExtractorFirstMatchWins(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	// Both addresses are inside the range; the first in listing order wins,
	// even though the second is "more specific" to the host part.
	machine := wellFormedMachine("Web-01", "10.0.0.5", "10.0.0.1")
	asset, err := extractor.Extract(&machine)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asset == nil {
		t.Fatal("expected an asset")
	}
	if asset.IP != "10.0.0.5" {
		t.Errorf("expected first matching address 10.0.0.5, got %s", asset.IP)
	}
}

func TestExtractorSkipsAddressesOutsideRange(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	machine := wellFormedMachine("Web-01", "192.168.1.5", "10.0.0.5")
	asset, err := extractor.Extract(&machine)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asset.IP != "10.0.0.5" {
		t.Errorf("expected 10.0.0.5, got %s", asset.IP)
	}
}

func TestExtractorDropsUnaddressableMachine(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	machine := wellFormedMachine("Web-01", "192.168.1.5")
	for range 2 {
		// Re-running extraction never retroactively includes the machine.
		asset, err := extractor.Extract(&machine)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if asset != nil {
			t.Fatalf("expected machine to be dropped, got %+v", asset)
		}
	}
}

func TestExtractorNormalizesName(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	machine := wellFormedMachine("Web-Server-01.prod", "10.0.0.5")
	asset, err := extractor.Extract(&machine)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asset.Name != "web_server_01prod" {
		t.Errorf("unexpected normalized name %s", asset.Name)
	}
}

func TestExtractorAttributes(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	machine := wellFormedMachine("Web-01", "10.0.0.5")
	machine.Metadata = map[string]string{"env": "prod"}
	asset, err := extractor.Extract(&machine)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asset.PowerState != "Powered on" {
		t.Errorf("unexpected power state %s", asset.PowerState)
	}
	if asset.OSType != "ubuntu64Guest" {
		t.Errorf("unexpected os type %s", asset.OSType)
	}
	if asset.HardwareVersion != "vmx-19" {
		t.Errorf("unexpected hardware version %s", asset.HardwareVersion)
	}
	if asset.ToolsVersion != "12352" {
		t.Errorf("unexpected tools version %s", asset.ToolsVersion)
	}
	if asset.MachineID != "vm-1" {
		t.Errorf("unexpected machine id %s", asset.MachineID)
	}
	if !asset.MemoryHotAdd || asset.CPUHotAdd {
		t.Errorf("unexpected hot-add flags %v %v", asset.MemoryHotAdd, asset.CPUHotAdd)
	}
	if asset.StorageProfile != "gold" {
		t.Errorf("unexpected storage profile %s", asset.StorageProfile)
	}
	if asset.Metadata["env"] != "prod" {
		t.Errorf("unexpected metadata %v", asset.Metadata)
	}
}

func TestExtractorNilMetadata(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	machine := wellFormedMachine("Web-01", "10.0.0.5")
	machine.Metadata = nil
	asset, err := extractor.Extract(&machine)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if asset.Metadata == nil || len(asset.Metadata) != 0 {
		t.Errorf("expected empty metadata map, got %v", asset.Metadata)
	}
}

func TestExtractorMalformedMachine(t *testing.T) {
	extractor, err := NewExtractor("10.0.0.0/24")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(*Machine)
	}{
		{"missing spec", func(m *Machine) { m.Spec = nil }},
		{"missing capabilities", func(m *Machine) { m.Capabilities = nil }},
		{"missing guest customization", func(m *Machine) { m.GuestCustomization = nil }},
		{"missing storage profile", func(m *Machine) { m.StorageProfile = nil }},
		{"unknown status", func(m *Machine) { m.Status = 42 }},
	}
	for _, test := range tests {
		machine := wellFormedMachine("Web-01", "10.0.0.5")
		test.mutate(&machine)
		_, err := extractor.Extract(&machine)
		var malformed *MalformedMachineError
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected a MalformedMachineError, got %v", test.name, err)
		}
	}
}

func TestNewExtractorBadCIDR(t *testing.T) {
	if _, err := NewExtractor("not-a-cidr"); err == nil {
		t.Error("expected an error")
	}
}
