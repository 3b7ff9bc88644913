// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

// Power state labels for the numeric entity status codes returned by vCloud
// Director. This vocabulary is closed: a code outside of it is an error, not
// a default.
var StatusLabels = map[int]string{
	-1: "Could not be created",
	0:  "Unresolved",
	1:  "Resolved",
	2:  "Deployed",
	3:  "Suspended",
	4:  "Powered on",
	5:  "Waiting for user input",
	6:  "Unknown state",
	7:  "Unrecognized state",
	8:  "Powered off",
	9:  "Inconsistent state",
	10: "Children do not all have the same status",
	11: "Upload initiated, OVF descriptor pending",
	12: "Upload initiated, copying contents",
	13: "Upload initiated, disk contents pending",
	14: "Upload has been quarantined",
	15: "Upload quarantine period has expired",
}
