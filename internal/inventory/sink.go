// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package inventory

// Sink receives host and group declarations from the inventory build.
// Implementations must tolerate repeated declarations of the same group,
// host, child edge or variable.
type Sink interface {
	// Declare a group. Creating an existing group is a no-op.
	AddGroup(name string)
	// Declare a host under a parent group.
	AddHost(name, parentGroup string)
	// Link a host as child of a group.
	AddChild(parentGroup, childName string)
	// Set a variable on a host. A later value overwrites an earlier one.
	SetVariable(hostName, varName string, value any)
}
