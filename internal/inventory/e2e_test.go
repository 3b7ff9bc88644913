// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery/vcloud"
	testlibVcloud "github.com/cobaltcore-dev/vcd-inventory/testlib/vcloud"
)

// Discovery and inventory build wired together, without cache or remote
// endpoint involved.
func buildInventory(t *testing.T, inventoryConf conf.InventoryConfig) *MemoryInventory {
	t.Helper()
	machine := testlibVcloud.WellFormedMachine("Web-01", "10.0.0.5", "192.168.1.5")
	machine.Metadata = map[string]string{"env": `["prod","east"]`}
	api := &testlibVcloud.MockAPI{VApps: []testlibVcloud.MockVApp{
		{Name: "app1", Machines: []vcloud.Machine{machine}},
	}}
	source := vcloud.NewSource(api, discovery.Monitor{}, conf.DiscoveryConfig{
		TargetVDC: "vdc", CIDR: "10.0.0.0/24",
	})
	ctx := t.Context()
	if err := source.Init(ctx); err != nil {
		t.Fatal(err)
	}
	assets, err := source.Discover(ctx)
	if err != nil {
		t.Fatal(err)
	}
	sink := NewMemoryInventory()
	builder := Builder{Sink: sink, Conf: inventoryConf}
	builder.Build(assets)
	return sink
}

func TestEndToEndGrouping(t *testing.T) {
	sink := buildInventory(t, conf.InventoryConfig{
		RootGroup: "discovered",
		GroupKeys: []string{"env"},
	})

	vars := sink.HostVars("web_01")
	if vars == nil {
		t.Fatal("expected host web_01 in the inventory")
	}
	if vars["ansible_host"] != "10.0.0.5" {
		t.Errorf("expected ansible_host 10.0.0.5, got %v", vars["ansible_host"])
	}

	rendered, err := sink.Render()
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(rendered, &out); err != nil {
		t.Fatal(err)
	}
	for _, groupName := range []string{"discovered", "prod", "east"} {
		raw, ok := out[groupName]
		if !ok {
			t.Fatalf("expected group %s in the rendered inventory", groupName)
		}
		var g renderedGroup
		if err := json.Unmarshal(raw, &g); err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(g.Hosts, "web_01") {
			t.Errorf("expected web_01 in group %s, got %v", groupName, g.Hosts)
		}
	}
}

func TestEndToEndFilteredOut(t *testing.T) {
	sink := buildInventory(t, conf.InventoryConfig{
		RootGroup: "discovered",
		GroupKeys: []string{"env"},
		Filters:   map[string]string{"env": "qa"},
	})

	if vars := sink.HostVars("web_01"); vars != nil {
		t.Fatalf("expected host to be excluded, got vars %v", vars)
	}
	if g := sink.groups["prod"]; g != nil {
		t.Error("expected no prod group for an excluded host")
	}
}

func TestEndToEndInitFailure(t *testing.T) {
	api := &testlibVcloud.MockAPI{
		InitErr: &vcloud.AuthenticationError{Host: "https://vcd.example.com", Err: fmt.Errorf("401")},
	}
	source := vcloud.NewSource(api, discovery.Monitor{}, conf.DiscoveryConfig{
		TargetVDC: "vdc", CIDR: "10.0.0.0/24",
	})
	err := source.Init(t.Context())
	var authErr *vcloud.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected an AuthenticationError, got %v", err)
	}
}

func TestEndToEndMachineFetchFailure(t *testing.T) {
	machine := testlibVcloud.WellFormedMachine("Web-01", "10.0.0.5")
	api := &testlibVcloud.MockAPI{
		VApps: []testlibVcloud.MockVApp{
			{Name: "app1", Machines: []vcloud.Machine{machine}},
		},
		MachineErrs: map[string]error{
			"Web-01": &vcloud.ResourceResolutionError{Kind: "vm", Name: "Web-01", Err: fmt.Errorf("504")},
		},
	}
	// Resolution errors stay fatal even when malformed machines are skipped.
	source := vcloud.NewSource(api, discovery.Monitor{}, conf.DiscoveryConfig{
		TargetVDC: "vdc", CIDR: "10.0.0.0/24", SkipMalformed: true,
	})
	ctx := t.Context()
	if err := source.Init(ctx); err != nil {
		t.Fatal(err)
	}
	_, err := source.Discover(ctx)
	var resErr *vcloud.ResourceResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected a ResourceResolutionError, got %v", err)
	}
}
