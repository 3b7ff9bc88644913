// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestMemoryInventoryIdempotentDeclarations(t *testing.T) {
	sink := NewMemoryInventory()
	sink.AddGroup("all")
	sink.AddGroup("all")
	sink.AddHost("web_01", "all")
	sink.AddHost("web_01", "all")
	sink.SetVariable("web_01", "ansible_host", "10.0.0.5")
	sink.SetVariable("web_01", "ansible_host", "10.0.0.9")

	if len(sink.groups) != 1 || len(sink.groups["all"].hosts) != 1 {
		t.Error("expected idempotent group and host declarations")
	}
	if sink.HostVars("web_01")["ansible_host"] != "10.0.0.9" {
		t.Error("expected the later variable value to win")
	}
}

func TestMemoryInventoryAddChild(t *testing.T) {
	sink := NewMemoryInventory()
	sink.AddHost("web_01", "all")
	sink.AddGroup("prod")
	// A known host links as a member, an unknown name as a subgroup.
	sink.AddChild("prod", "web_01")
	sink.AddChild("prod", "web_tier")

	g := sink.groups["prod"]
	if !g.hosts["web_01"] {
		t.Error("expected web_01 as member of prod")
	}
	if !g.children["web_tier"] {
		t.Error("expected web_tier as subgroup of prod")
	}
}

func TestMemoryInventoryRender(t *testing.T) {
	sink := NewMemoryInventory()
	sink.AddGroup("discovered")
	sink.AddHost("web_01", "discovered")
	sink.SetVariable("web_01", "ansible_host", "10.0.0.5")
	sink.AddGroup("prod")
	sink.AddChild("prod", "web_01")

	rendered, err := sink.Render()
	if err != nil {
		t.Fatal(err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(rendered, &out); err != nil {
		t.Fatal(err)
	}

	var meta struct {
		Hostvars map[string]map[string]any `json:"hostvars"`
	}
	if err := json.Unmarshal(out["_meta"], &meta); err != nil {
		t.Fatal(err)
	}
	if meta.Hostvars["web_01"]["ansible_host"] != "10.0.0.5" {
		t.Errorf("unexpected hostvars %v", meta.Hostvars)
	}

	var all renderedGroup
	if err := json.Unmarshal(out["all"], &all); err != nil {
		t.Fatal(err)
	}
	for _, child := range []string{"discovered", "prod", "ungrouped"} {
		if !slices.Contains(all.Children, child) {
			t.Errorf("expected %s in all.children, got %v", child, all.Children)
		}
	}

	var discovered renderedGroup
	if err := json.Unmarshal(out["discovered"], &discovered); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(discovered.Hosts, "web_01") {
		t.Errorf("expected web_01 in discovered.hosts, got %v", discovered.Hosts)
	}

	var prod renderedGroup
	if err := json.Unmarshal(out["prod"], &prod); err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(prod.Hosts, "web_01") {
		t.Errorf("expected web_01 in prod.hosts, got %v", prod.Hosts)
	}
}

func TestMemoryInventoryHostVarsUnknownHost(t *testing.T) {
	sink := NewMemoryInventory()
	if vars := sink.HostVars("nope"); vars != nil {
		t.Errorf("expected nil for unknown host, got %v", vars)
	}
}
