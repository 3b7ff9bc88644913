// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import (
	"context"
	"fmt"

	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery/vcloud"
)

// Mock vCloud API serving canned vApps and machines, in map-free slice
// order so tests can rely on listing order.
type MockAPI struct {
	VApps []MockVApp
	// If set, Init returns this error.
	InitErr error
	// If set, GetMachine returns this error for the named machine.
	MachineErrs map[string]error
}

type MockVApp struct {
	Name     string
	Machines []vcloud.Machine
}

func (m *MockAPI) Init(ctx context.Context) error { return m.InitErr }

func (m *MockAPI) GetAllVApps(ctx context.Context) ([]vcloud.VAppRef, error) {
	refs := []vcloud.VAppRef{}
	for _, vapp := range m.VApps {
		refs = append(refs, vcloud.VAppRef{Name: vapp.Name})
	}
	return refs, nil
}

func (m *MockAPI) GetVAppMachineRefs(ctx context.Context, ref vcloud.VAppRef) ([]vcloud.MachineRef, error) {
	for _, vapp := range m.VApps {
		if vapp.Name != ref.Name {
			continue
		}
		refs := []vcloud.MachineRef{}
		for _, machine := range vapp.Machines {
			refs = append(refs, vcloud.MachineRef{Name: machine.Name})
		}
		return refs, nil
	}
	return nil, &vcloud.ResourceResolutionError{Kind: "vapp", Name: ref.Name, Err: fmt.Errorf("not mocked")}
}

func (m *MockAPI) GetMachine(ctx context.Context, ref vcloud.VAppRef, name string) (*vcloud.Machine, error) {
	if err, ok := m.MachineErrs[name]; ok {
		return nil, err
	}
	for _, vapp := range m.VApps {
		if vapp.Name != ref.Name {
			continue
		}
		for _, machine := range vapp.Machines {
			if machine.Name == name {
				return &machine, nil
			}
		}
	}
	return nil, &vcloud.ResourceResolutionError{Kind: "vm", Name: name, Err: fmt.Errorf("not mocked")}
}

// A fully populated machine record for tests. Callers mutate the returned
// value as needed.
func WellFormedMachine(name string, ips ...string) vcloud.Machine {
	connections := []vcloud.Connection{}
	for i, ip := range ips {
		connections = append(connections, vcloud.Connection{
			Network:   "net0",
			IPAddress: ip,
			Index:     i,
		})
	}
	return vcloud.Machine{
		Name:        name,
		Status:      4, // Powered on
		Connections: connections,
		Metadata:    map[string]string{},
		Spec: &vcloud.MachineSpec{
			OSType:          "ubuntu64Guest",
			HardwareVersion: "vmx-19",
			ToolsVersion:    "12352",
		},
		Capabilities:       &vcloud.MachineCapabilities{MemoryHotAdd: true, CPUHotAdd: false},
		GuestCustomization: &vcloud.GuestCustomization{MachineID: "vm-" + name},
		StorageProfile:     &vcloud.StorageProfile{Name: "gold"},
	}
}
