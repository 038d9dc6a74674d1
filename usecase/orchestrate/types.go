// Package orchestrate fans one run out over every configured cluster target.
// Each target is an independent, concurrent provisioning subgraph; no edge
// exists between targets, so one hanging or failing target never delays the
// others.
package orchestrate

import (
	"context"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain"
	"github.com/fleetform/fleetform/domain/model"
)

// KubeClientFunc builds a cluster client from an access credential.
type KubeClientFunc func(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error)

// UseCase wires the dependencies of a run.
type UseCase struct {
	// Endpoints records resolved URLs when non-nil.
	Endpoints domain.EndpointRepository

	// NewDriver resolves a provider driver; nil uses the registry.
	NewDriver func(p *model.Provider) (providerdrv.Driver, error)

	// KubeClient overrides cluster client construction; nil uses client-go.
	KubeClient KubeClientFunc
}

func (u *UseCase) newDriver(p *model.Provider) (providerdrv.Driver, error) {
	if u.NewDriver != nil {
		return u.NewDriver(p)
	}
	return providerdrv.New(p)
}
