// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package discovery

import "context"

// Common interface for asset sources.
type Source interface {
	// Initialize the source, e.g. authenticate remote clients.
	Init(ctx context.Context) error
	// Discover all assets from the source.
	Discover(ctx context.Context) ([]Asset, error)
}
