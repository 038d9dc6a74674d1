// Package app deploys the replicated web workload and its load-balanced
// endpoint onto a provisioned cluster, and resolves the reachable URL.
package app

import (
	"context"

	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
)

// KubeClientFunc builds a cluster client from an access credential. Tests
// substitute a fake clientset here.
type KubeClientFunc func(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error)

// UseCase wires the cluster client factory needed for workload deployment.
type UseCase struct {
	KubeClient KubeClientFunc
}

func (u *UseCase) kubeClient(ctx context.Context, cred *model.AccessCredential) (*kube.Client, error) {
	if u.KubeClient != nil {
		return u.KubeClient(ctx, cred)
	}
	return kube.NewClientFromCredential(cred, &kube.Options{UserAgent: "fleetform"})
}
