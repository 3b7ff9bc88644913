// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import "fmt"

// The endpoint or the credentials were rejected. Fatal for the whole run.
type AuthenticationError struct {
	Host string
	Err  error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("failed to authenticate against %s: %v", e.Host, e.Err)
}

func (e *AuthenticationError) Unwrap() error { return e.Err }

// A named org, vdc, vapp or vm could not be resolved, or the lookup failed
// on the transport level. Fatal by default.
type ResourceResolutionError struct {
	Kind string
	Name string
	Err  error
}

func (e *ResourceResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s %q: %v", e.Kind, e.Name, e.Err)
}

func (e *ResourceResolutionError) Unwrap() error { return e.Err }

// A machine resource is missing an expected section, or carries a status
// code outside the known vocabulary.
type MalformedMachineError struct {
	Machine string
	Reason  string
}

func (e *MalformedMachineError) Error() string {
	return fmt.Sprintf("malformed machine %q: %s", e.Machine, e.Reason)
}
