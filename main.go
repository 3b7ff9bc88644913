// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cobaltcore-dev/vcd-inventory/internal/cache"
	"github.com/cobaltcore-dev/vcd-inventory/internal/conf"
	"github.com/cobaltcore-dev/vcd-inventory/internal/db"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery"
	"github.com/cobaltcore-dev/vcd-inventory/internal/discovery/vcloud"
	"github.com/cobaltcore-dev/vcd-inventory/internal/inventory"
	"github.com/cobaltcore-dev/vcd-inventory/internal/monitoring"
	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/must"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Environment variable naming the config file when no positional
// argument is given.
const configPathEnv = "VCD_INVENTORY_CONFIG"

// Run the prometheus metrics server while the discovery is in flight.
func runMonitoringServer(ctx context.Context, registry *monitoring.Registry, config conf.MonitoringConfig) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	slog.Info("metrics listening", "port", config.Port)
	addr := fmt.Sprintf(":%d", config.Port)
	if err := httpext.ListenAndServeContext(ctx, addr, mux); err != nil {
		slog.Error("metrics server failed", "error", err)
	}
}

// Fetch the asset list, either from the cache or through a fresh
// traversal of the target virtual datacenter.
func getAssets(ctx context.Context, config conf.Config, mon discovery.Monitor, store cache.Store, cacheKey string) []discovery.Asset {
	if store != nil {
		assets, ok, err := store.Get(cacheKey)
		must.Succeed(err)
		if ok {
			return assets
		}
	}
	discoveryConf := config.GetDiscoveryConfig()
	api := vcloud.NewAPI(mon, config.GetVCloudConfig(), discoveryConf.TargetVDC)
	source := vcloud.NewSource(api, mon, discoveryConf)
	must.Succeed(source.Init(ctx))
	assets := must.Return(source.Discover(ctx))
	if store != nil {
		must.Succeed(store.Put(cacheKey, assets))
	}
	return assets
}

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		// If called with `--version`, report version and exit (the Dockerfile
		// uses this to check if the binary was built correctly)
		bininfo.HandleVersionArgument()
	}

	list := flag.Bool("list", false, "print the full inventory as JSON")
	host := flag.String("host", "", "print the variables of a single host as JSON")
	flushCache := flag.Bool("flush-cache", false, "drop all cached discovery results before the run")
	flag.Parse()

	if *host != "" && *list {
		fmt.Fprintln(os.Stderr, "--list and --host are mutually exclusive")
		os.Exit(2)
	}

	configPath := flag.Arg(0)
	if configPath == "" {
		configPath = os.Getenv(configPathEnv)
	}
	if configPath == "" {
		fmt.Fprintf(os.Stderr, "usage: %s [--list | --host NAME] [--flush-cache] CONFIG\n", os.Args[0])
		os.Exit(2)
	}
	config := must.Return(conf.NewConfigFromFile(configPath))
	must.Succeed(config.Validate())
	config.GetLoggingConfig().SetDefaultLogger()

	// Set runtime concurrency to match an imposed CPU limit.
	undoMaxprocs := must.Return(maxprocs.Set(maxprocs.Logger(slog.Debug)))
	defer undoMaxprocs()

	ctx := httpext.ContextWithSIGINT(context.Background(), 0)

	registry := monitoring.NewRegistry(config.GetMonitoringConfig())
	mon := discovery.NewDiscoveryMonitor(registry)
	if port := config.GetMonitoringConfig().Port; port > 0 {
		go runMonitoringServer(ctx, registry, config.GetMonitoringConfig())
	}

	cacheConf := config.GetCacheConfig()
	var store cache.Store
	if cacheConf.Enabled {
		database := must.Return(db.NewDB(cacheConf))
		defer database.Close()
		store = cache.NewStore(database, mon)
		must.Succeed(store.Init())
		if *flushCache || cacheConf.Flush {
			must.Succeed(store.Clear())
		}
	}

	assets := getAssets(ctx, config, mon, store, cache.Key(configPath))

	inv := inventory.NewMemoryInventory()
	builder := inventory.Builder{Sink: inv, Conf: config.GetInventoryConfig()}
	builder.Build(assets)

	// Printing the full inventory is the default action, matching how
	// inventory scripts are usually invoked.
	if *host != "" {
		vars := inv.HostVars(*host)
		if vars == nil {
			vars = map[string]any{}
		}
		out := must.Return(json.MarshalIndent(vars, "", "  "))
		fmt.Println(string(out))
		return
	}
	out := must.Return(inv.Render())
	fmt.Println(string(out))
}
