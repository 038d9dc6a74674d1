// Package providerdrv defines the provider driver contract and the registry
// drivers self-register into. Implementations live under
// adapters/drivers/provider/<name> and register from init().
package providerdrv

import (
	"context"
	"fmt"

	"github.com/fleetform/fleetform/domain/model"
)

// Driver abstracts the cloud control-plane operations one provider family
// supports. Every call is an opaque asynchronous provider operation from the
// caller's point of view: it either returns typed results or fails, and the
// driver performs no retries of its own.
type Driver interface {
	// ID returns the provider identifier (e.g., "gke", "aks").
	ID() string

	// ClusterCreate creates the managed cluster with the smallest possible
	// throwaway default node pool. Real capacity arrives with NodePoolCreate.
	ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (*model.ClusterInfo, error)

	// NodePoolCreate creates the dedicated, separately autoscaled node pool.
	NodePoolCreate(ctx context.Context, info *model.ClusterInfo, pool *model.NodePoolSpec) error

	// ClusterAccess derives the authentication material for the cluster.
	// Callers must not invoke this before the dedicated node pool exists;
	// the provisioning graph encodes that edge.
	ClusterAccess(ctx context.Context, info *model.ClusterInfo) (*model.AccessCredential, error)

	// FileShareCreate creates a managed network file share sized to the
	// spec and reports its NFS location.
	FileShareCreate(ctx context.Context, spec *model.StorageSpec) (*model.FileShareInfo, error)
}

// Factory constructs a driver from provider settings.
type Factory func(settings map[string]string) (Driver, error)

var registry = map[string]Factory{}

// Register makes a driver available by name. Drivers call this from init().
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New resolves and constructs the driver for a provider.
func New(p *model.Provider) (Driver, error) {
	factory, ok := registry[p.Driver]
	if !ok {
		return nil, fmt.Errorf("unknown provider driver: %s", p.Driver)
	}
	drv, err := factory(p.Settings)
	if err != nil {
		return nil, fmt.Errorf("create driver %s: %w", p.Driver, err)
	}
	return drv, nil
}
