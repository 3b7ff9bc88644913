// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package containers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"testing"

	"github.com/ory/dockertest"
	"github.com/ory/dockertest/docker"
)

// Credentials of the throwaway postgres container.
const (
	PostgresUser     = "postgres"
	PostgresPassword = "secret"
	PostgresDatabase = "vcd_inventory"
)

// Throwaway postgres container backing cache tests that need a real
// database instead of the default sqlite file.
type PostgresContainer struct {
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

func (c PostgresContainer) GetPort() string {
	return c.resource.GetPort("5432/tcp")
}

func (c *PostgresContainer) Init(t *testing.T) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not construct pool: %s", err)
	}
	c.pool = pool
	if err = pool.Client.Ping(); err != nil {
		t.Fatalf("could not connect to Docker: %s", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "17",
		Env: []string{
			"POSTGRES_USER=" + PostgresUser,
			"POSTGRES_PASSWORD=" + PostgresPassword,
			"POSTGRES_DB=" + PostgresDatabase,
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		// set AutoRemove to true so that stopped container goes away by itself
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		t.Fatalf("could not start resource: %s", err)
	}
	c.resource = resource
	// The cache round-trip tests write and re-read full inventory payloads,
	// so the container gets a generous expiry before docker reaps it.
	if err := c.resource.Expire(120); err != nil {
		t.Fatalf("could not set expiration: %s", err)
	}
	psqlInfo := fmt.Sprintf(
		"host=localhost port=%s user=%s password=%s dbname=%s sslmode=disable",
		resource.GetPort("5432/tcp"), PostgresUser, PostgresPassword, PostgresDatabase,
	)
	sqlDB, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		t.Fatalf("could not connect to sql db: %s", err)
	}
	if err = pool.Retry(sqlDB.Ping); err != nil {
		t.Fatalf("postgres db is not ready in time: %s", err)
	}
}

func (c *PostgresContainer) Close() {
	if err := c.pool.Purge(c.resource); err != nil {
		slog.Error("could not purge postgres container", "error", err)
	}
}
