// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import (
	"context"
	"log/slog"
	"net/url"
	"sync"

	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vmware/go-vcloud-director/v2/govcd"
)

type API interface {
	// Authenticate and resolve the org and target vdc.
	Init(ctx context.Context) error
	// List all vApps of the target vdc, in listing order.
	GetAllVApps(ctx context.Context) ([]VAppRef, error)
	// List the machines of one vApp, in listing order.
	GetVAppMachineRefs(ctx context.Context, vapp VAppRef) ([]MachineRef, error)
	// Fetch one machine including its metadata entries.
	GetMachine(ctx context.Context, vapp VAppRef, name string) (*Machine, error)
}

// API for vCloud Director, backed by the govcd SDK.
type api struct {
	// Monitor to track the api.
	mon discovery.Monitor
	// vCloud endpoint configuration.
	conf conf.VCloudConfig
	// Name of the virtual datacenter to discover machines in.
	targetVDC string

	// Authenticated SDK client and resolved resources.
	client *govcd.VCDClient
	vdc    *govcd.Vdc

	// Resolved vApp handles by name. The vdc handle is not safe for
	// concurrent lookups, so all resolution goes through this guarded map.
	mu    sync.Mutex
	vapps map[string]*govcd.VApp
}

// Create a new vCloud Director API client.
func NewAPI(mon discovery.Monitor, c conf.VCloudConfig, targetVDC string) API {
	return &api{mon: mon, conf: c, targetVDC: targetVDC, vapps: map[string]*govcd.VApp{}}
}

// Init authenticates against the vCloud endpoint and resolves the org and
// the target vdc. All later lookups depend on a successful Init.
func (a *api) Init(ctx context.Context) error {
	apiURL, err := url.ParseRequestURI(a.conf.Host + "/api")
	if err != nil {
		return &AuthenticationError{Host: a.conf.Host, Err: err}
	}
	client := govcd.NewVCDClient(*apiURL, !a.conf.VerifySSLCerts)
	if a.conf.APIVersion != "" {
		client.Client.APIVersion = a.conf.APIVersion
	}
	if err := client.Authenticate(a.conf.User, a.conf.Password, a.conf.Org); err != nil {
		return &AuthenticationError{Host: a.conf.Host, Err: err}
	}
	org, err := client.GetOrgByName(a.conf.Org)
	if err != nil {
		return &ResourceResolutionError{Kind: "org", Name: a.conf.Org, Err: err}
	}
	vdc, err := org.GetVDCByName(a.targetVDC, false)
	if err != nil {
		return &ResourceResolutionError{Kind: "vdc", Name: a.targetVDC, Err: err}
	}
	a.client = client
	a.vdc = vdc
	slog.Info("authenticated against vcloud", "host", a.conf.Host, "org", a.conf.Org, "vdc", a.targetVDC)
	return nil
}

// Get all vApps of the target vdc.
func (a *api) GetAllVApps(ctx context.Context) ([]VAppRef, error) {
	if a.mon.RequestTimer != nil {
		hist := a.mon.RequestTimer.WithLabelValues("vcloud_vapps")
		timer := prometheus.NewTimer(hist)
		defer timer.ObserveDuration()
	}
	refs := []VAppRef{}
	for _, resource := range a.vdc.GetVappList() {
		refs = append(refs, VAppRef{Name: resource.Name, HREF: resource.HREF})
	}
	slog.Info("fetched vapps", "count", len(refs))
	return refs, nil
}

// Resolve a vApp handle by name, reusing already resolved handles.
func (a *api) vapp(name string) (*govcd.VApp, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if vapp, ok := a.vapps[name]; ok {
		return vapp, nil
	}
	vapp, err := a.vdc.GetVAppByName(name, true)
	if err != nil {
		return nil, &ResourceResolutionError{Kind: "vapp", Name: name, Err: err}
	}
	a.vapps[name] = vapp
	return vapp, nil
}

// Get the machines contained in one vApp.
func (a *api) GetVAppMachineRefs(ctx context.Context, ref VAppRef) ([]MachineRef, error) {
	if a.mon.RequestTimer != nil {
		hist := a.mon.RequestTimer.WithLabelValues("vcloud_vapp")
		timer := prometheus.NewTimer(hist)
		defer timer.ObserveDuration()
	}
	vapp, err := a.vapp(ref.Name)
	if err != nil {
		return nil, err
	}
	refs := []MachineRef{}
	if vapp.VApp.Children != nil {
		for _, vm := range vapp.VApp.Children.VM {
			refs = append(refs, MachineRef{Name: vm.Name})
		}
	}
	slog.Debug("fetched vapp machines", "vapp", ref.Name, "count", len(refs))
	return refs, nil
}

// Get one machine of a vApp, including its metadata entries.
func (a *api) GetMachine(ctx context.Context, ref VAppRef, name string) (*Machine, error) {
	if a.mon.RequestTimer != nil {
		hist := a.mon.RequestTimer.WithLabelValues("vcloud_vm")
		timer := prometheus.NewTimer(hist)
		defer timer.ObserveDuration()
	}
	vapp, err := a.vapp(ref.Name)
	if err != nil {
		return nil, err
	}
	vm, err := vapp.GetVMByName(name, false)
	if err != nil {
		return nil, &ResourceResolutionError{Kind: "vm", Name: name, Err: err}
	}

	machine := &Machine{Name: vm.VM.Name, Status: vm.VM.Status}
	if ncs := vm.VM.NetworkConnectionSection; ncs != nil {
		for _, connection := range ncs.NetworkConnection {
			machine.Connections = append(machine.Connections, Connection{
				Network:   connection.Network,
				IPAddress: connection.IPAddress,
				Index:     connection.NetworkConnectionIndex,
			})
		}
	}
	if spec := vm.VM.VmSpecSection; spec != nil {
		machineSpec := &MachineSpec{
			OSType:       spec.OsType,
			ToolsVersion: spec.VmToolsVersion,
		}
		if spec.HardwareVersion != nil {
			machineSpec.HardwareVersion = spec.HardwareVersion.Value
		}
		machine.Spec = machineSpec
	}
	if capabilities := vm.VM.VMCapabilities; capabilities != nil {
		machine.Capabilities = &MachineCapabilities{
			MemoryHotAdd: capabilities.MemoryHotAddEnabled,
			CPUHotAdd:    capabilities.CPUHotAddEnabled,
		}
	}
	if gcs := vm.VM.GuestCustomizationSection; gcs != nil {
		machine.GuestCustomization = &GuestCustomization{MachineID: gcs.VirtualMachineID}
	}
	if profile := vm.VM.StorageProfile; profile != nil {
		machine.StorageProfile = &StorageProfile{Name: profile.Name}
	}

	metadata, err := vm.GetMetadata()
	if err != nil {
		return nil, &ResourceResolutionError{Kind: "vm metadata", Name: name, Err: err}
	}
	machine.Metadata = map[string]string{}
	if metadata != nil {
		for _, entry := range metadata.MetadataEntry {
			if entry.TypedValue == nil {
				continue
			}
			machine.Metadata[entry.Key] = entry.TypedValue.Value
		}
	}

	if a.mon.RequestProcessedCounter != nil {
		a.mon.RequestProcessedCounter.WithLabelValues("vcloud_vm").Inc()
	}
	return machine, nil
}
