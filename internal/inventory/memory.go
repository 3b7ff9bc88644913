// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

import (
	"encoding/json"
	"slices"
)

// In-memory inventory sink. Renders the collected hosts and groups as the
// JSON structure dynamic inventory consumers expect.
type MemoryInventory struct {
	groups   map[string]*group
	hostvars map[string]map[string]any
}

type group struct {
	hosts    map[string]bool
	children map[string]bool
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		groups:   map[string]*group{},
		hostvars: map[string]map[string]any{},
	}
}

func (i *MemoryInventory) group(name string) *group {
	g, ok := i.groups[name]
	if !ok {
		g = &group{hosts: map[string]bool{}, children: map[string]bool{}}
		i.groups[name] = g
	}
	return g
}

func (i *MemoryInventory) AddGroup(name string) {
	i.group(name)
}

func (i *MemoryInventory) AddHost(name, parentGroup string) {
	i.group(parentGroup).hosts[name] = true
	if _, ok := i.hostvars[name]; !ok {
		i.hostvars[name] = map[string]any{}
	}
}

func (i *MemoryInventory) AddChild(parentGroup, childName string) {
	g := i.group(parentGroup)
	// A known host links as a group member, anything else as a subgroup.
	if _, ok := i.hostvars[childName]; ok {
		g.hosts[childName] = true
		return
	}
	g.children[childName] = true
}

func (i *MemoryInventory) SetVariable(hostName, varName string, value any) {
	vars, ok := i.hostvars[hostName]
	if !ok {
		vars = map[string]any{}
		i.hostvars[hostName] = vars
	}
	vars[varName] = value
}

// Variables of one host, for the --host contract. Nil if the host is not
// part of the inventory.
func (i *MemoryInventory) HostVars(name string) map[string]any {
	return i.hostvars[name]
}

type renderedGroup struct {
	Hosts    []string `json:"hosts,omitempty"`
	Children []string `json:"children,omitempty"`
}

// Render the inventory as dynamic inventory JSON: a _meta.hostvars block
// plus one entry per group, with an "all" group parenting every other group.
func (i *MemoryInventory) Render() ([]byte, error) {
	out := map[string]any{
		"_meta": map[string]any{"hostvars": i.hostvars},
	}
	allChildren := []string{"ungrouped"}
	for name, g := range i.groups {
		if name == "all" {
			continue
		}
		allChildren = append(allChildren, name)
		out[name] = renderedGroup{
			Hosts:    sortedKeys(g.hosts),
			Children: sortedKeys(g.children),
		}
	}
	slices.Sort(allChildren)
	all := renderedGroup{Children: allChildren}
	if g, ok := i.groups["all"]; ok {
		all.Hosts = sortedKeys(g.hosts)
	}
	out["all"] = all
	return json.MarshalIndent(out, "", "  ")
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
