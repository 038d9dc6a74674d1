// Package storage provisions the shared NFS layer: managed file share,
// persistent volume, and bound claim, as ordered graph nodes.
package storage

import (
	"context"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
)

// KubeClientFunc builds a cluster client from an access credential. Tests
// substitute a fake clientset here.
type KubeClientFunc func(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error)

// DefaultKubeClient builds a real client-go client.
func DefaultKubeClient(_ context.Context, cred *model.AccessCredential) (*kube.Client, error) {
	return kube.NewClientFromCredential(cred, &kube.Options{UserAgent: "fleetform"})
}

// UseCase wires the provider driver and cluster client factory needed for
// storage provisioning.
type UseCase struct {
	Driver     providerdrv.Driver
	KubeClient KubeClientFunc
}

func (u *UseCase) kubeClient(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error) {
	if u.KubeClient != nil {
		return u.KubeClient(ctx, cred)
	}
	return DefaultKubeClient(ctx, cred)
}
