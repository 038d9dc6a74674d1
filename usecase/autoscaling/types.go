// Package autoscaling attaches a CPU-utilization replica policy to a
// deployed workload.
package autoscaling

import (
	"context"

	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
)

// KubeClientFunc builds a cluster client from an access credential.
type KubeClientFunc func(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error)

// UseCase wires the cluster client factory needed for policy binding.
type UseCase struct {
	KubeClient KubeClientFunc
}

func (u *UseCase) kubeClient(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error) {
	if u.KubeClient != nil {
		return u.KubeClient(ctx, cred)
	}
	return kube.NewClientFromCredential(cred, &kube.Options{UserAgent: "fleetform"})
}
