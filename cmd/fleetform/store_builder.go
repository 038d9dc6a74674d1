package main

import (
	"fmt"
	"strings"

	"github.com/fleetform/fleetform/adapters/store/inmem"
	"github.com/fleetform/fleetform/adapters/store/rdb"
	"github.com/fleetform/fleetform/domain"
)

// newEndpointRepository builds the endpoint store from a db-url.
// "mem:" keeps records in process memory; sqlite URLs persist them.
func newEndpointRepository(dbURL string) (domain.EndpointRepository, error) {
	if dbURL == "" || dbURL == "mem:" || strings.HasPrefix(dbURL, "mem:") {
		return inmem.NewEndpointRepository(), nil
	}
	db, err := rdb.OpenFromURL(dbURL)
	if err != nil {
		return nil, fmt.Errorf("open endpoint store: %w", err)
	}
	if err := rdb.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate endpoint store: %w", err)
	}
	return rdb.NewEndpointRepository(db), nil
}
