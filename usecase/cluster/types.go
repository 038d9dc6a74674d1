// Package cluster provisions a managed cluster with real capacity: the
// cluster itself, its dedicated node pool, and the access credential, as
// three ordered nodes in a provisioning graph.
package cluster

import (
	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
)

// UseCase wires the provider driver needed for cluster provisioning.
type UseCase struct {
	Driver providerdrv.Driver
}
