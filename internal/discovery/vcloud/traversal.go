// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package vcloud

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// Traversal of the target virtual datacenter: all vApps, all machines
// within each vApp, in listing order.
type traversal struct {
	// vCloud API to fetch the data.
	api API
	// Monitor to track the traversal.
	mon discovery.Monitor
	// Configuration for the traversal.
	conf conf.DiscoveryConfig
	// Extractor turning machine records into assets.
	extractor *Extractor
}

// Create a new discovery source for a vCloud Director virtual datacenter.
func NewSource(api API, mon discovery.Monitor, c conf.DiscoveryConfig) discovery.Source {
	return &traversal{api: api, mon: mon, conf: c}
}

// Init the traversal: parse the CIDR filter and authenticate the client.
func (t *traversal) Init(ctx context.Context) error {
	extractor, err := NewExtractor(t.conf.CIDR)
	if err != nil {
		return err
	}
	t.extractor = extractor
	return t.api.Init(ctx)
}

// Discover all assets in the target virtual datacenter. The result order is
// traversal order: vApps in listing order, machines within a vApp in listing
// order, regardless of the worker count.
func (t *traversal) Discover(ctx context.Context) ([]discovery.Asset, error) {
	label := "vcloud"
	if t.mon.RunTimer != nil {
		hist := t.mon.RunTimer.WithLabelValues(label)
		timer := prometheus.NewTimer(hist)
		defer timer.ObserveDuration()
	}
	vapps, err := t.api.GetAllVApps(ctx)
	if err != nil {
		return nil, err
	}
	assets := []discovery.Asset{}
	for _, vapp := range vapps {
		refs, err := t.api.GetVAppMachineRefs(ctx, vapp)
		if err != nil {
			return nil, err
		}
		extracted, err := t.extractMachines(ctx, vapp, refs)
		if err != nil {
			return nil, err
		}
		assets = append(assets, extracted...)
	}
	if t.mon.ObjectsGauge != nil {
		t.mon.ObjectsGauge.WithLabelValues(label).Set(float64(len(assets)))
	}
	if t.mon.RequestProcessedCounter != nil {
		t.mon.RequestProcessedCounter.WithLabelValues(label).Inc()
	}
	slog.Info("discovered assets", "vapps", len(vapps), "count", len(assets))
	return assets, nil
}

// Extract the machines of one vApp. With workers > 1 the extractions run
// concurrently; every task writes only its own result slot, so the collected
// order stays deterministic, and the group join is the completion barrier.
func (t *traversal) extractMachines(ctx context.Context, vapp VAppRef, refs []MachineRef) ([]discovery.Asset, error) {
	results := make([]*discovery.Asset, len(refs))
	group, ctx := errgroup.WithContext(ctx)
	workers := t.conf.Workers
	if workers < 1 {
		workers = 1
	}
	group.SetLimit(workers)
	for i, ref := range refs {
		group.Go(func() error {
			machine, err := t.api.GetMachine(ctx, vapp, ref.Name)
			if err != nil {
				return err
			}
			asset, err := t.extractor.Extract(machine)
			if err != nil {
				var malformed *MalformedMachineError
				if t.conf.SkipMalformed && errors.As(err, &malformed) {
					slog.Warn("skipping malformed machine", "vapp", vapp.Name, "machine", ref.Name, "error", err)
					return nil
				}
				return err
			}
			if asset == nil {
				slog.Debug("machine has no address in the configured range", "vapp", vapp.Name, "machine", ref.Name)
				return nil
			}
			slog.Debug("machine found", "name", asset.Name, "ip", asset.IP)
			results[i] = asset
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	assets := make([]discovery.Asset, 0, len(results))
	for _, asset := range results {
		if asset != nil {
			assets = append(assets, *asset)
		}
	}
	return assets, nil
}
