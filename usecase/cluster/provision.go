package cluster

import (
	"context"

	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
	"github.com/fleetform/fleetform/internal/logging"
)

// ProvisionInput represents a command to provision a cluster.
type ProvisionInput struct {
	Spec *model.ClusterSpec
}

// Provision declares the cluster provisioning nodes on g and returns the
// deferred handle. The handle node depends on the node pool, not just the
// cluster: consumers never observe a cluster whose only capacity is the
// throwaway default pool.
func (u *UseCase) Provision(g *graph.Graph, in ProvisionInput) *graph.Output[*model.ClusterHandle] {
	spec := in.Spec

	info := graph.Add(g, spec.Name+"/cluster", func(ctx context.Context) (*model.ClusterInfo, error) {
		logging.FromContext(ctx).Info(ctx, "creating cluster", "cluster", spec.Name, "location", spec.Location)
		out, err := u.Driver.ClusterCreate(ctx, spec)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
		}
		return out, nil
	})

	pool := graph.Add(g, spec.Name+"/nodepool", func(ctx context.Context) (*model.ClusterInfo, error) {
		ci, err := info.Value(ctx)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info(ctx, "creating node pool", "cluster", spec.Name, "pool", spec.NodePool.Name)
		if err := u.Driver.NodePoolCreate(ctx, ci, &spec.NodePool); err != nil {
			return nil, &model.ProvisioningError{Resource: "node pool " + spec.NodePool.Name, Err: err}
		}
		return ci, nil
	}, info)

	return graph.Add(g, spec.Name+"/access", func(ctx context.Context) (*model.ClusterHandle, error) {
		ci, err := pool.Value(ctx)
		if err != nil {
			return nil, err
		}
		cred, err := u.Driver.ClusterAccess(ctx, ci)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "cluster access " + spec.Name, Err: err}
		}
		return &model.ClusterHandle{Name: spec.Name, Credential: cred}, nil
	}, pool)
}
