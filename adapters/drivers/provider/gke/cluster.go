package gke

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	container "cloud.google.com/go/container/apiv1"
	"cloud.google.com/go/container/apiv1/containerpb"

	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/logging"
)

// defaultPoolName is the name GKE gives the pool it forces at creation time.
const defaultPoolName = "default-pool"

// execAuthAPIVersion is the client-go credential plugin API served by
// gke-gcloud-auth-plugin.
const execAuthAPIVersion = "client.authentication.k8s.io/v1beta1"

// ClusterCreate creates the managed cluster with a single-node throwaway
// default pool, then deletes that pool when the spec requests it. GKE
// cannot create a cluster with zero node pools, and the API has no
// remove-default-pool flag, so the flag is realized as create-then-delete.
func (d *driver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (info *model.ClusterInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	log := logging.FromContext(ctx)

	client, err := container.NewClusterManagerClient(ctx, d.ClientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create cluster manager client: %w", err)
	}
	defer client.Close()

	req := &containerpb.CreateClusterRequest{
		Parent: d.locationPath(spec.Location),
		Cluster: &containerpb.Cluster{
			Name:             spec.Name,
			InitialNodeCount: 1,
			Network:          d.Network,
			NodeConfig: &containerpb.NodeConfig{
				MachineType: spec.NodePool.MachineType,
			},
		},
	}
	op, err := client.CreateCluster(ctx, req)
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
	}
	if err := d.waitOperation(ctx, client, spec.Location, op.GetName()); err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
	}

	if spec.RemoveDefaultNodePool {
		log.Info(ctx, "removing default node pool", "cluster", spec.Name)
		delOp, err := client.DeleteNodePool(ctx, &containerpb.DeleteNodePoolRequest{
			Name: fmt.Sprintf("%s/nodePools/%s", d.clusterPath(spec.Location, spec.Name), defaultPoolName),
		})
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "default node pool", Err: err}
		}
		if err := d.waitOperation(ctx, client, spec.Location, delOp.GetName()); err != nil {
			return nil, &model.ProvisioningError{Resource: "default node pool", Err: err}
		}
	}

	cluster, err := client.GetCluster(ctx, &containerpb.GetClusterRequest{
		Name: d.clusterPath(spec.Location, spec.Name),
	})
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
	}

	caCert, err := base64.StdEncoding.DecodeString(cluster.GetMasterAuth().GetClusterCaCertificate())
	if err != nil {
		return nil, fmt.Errorf("decode cluster CA certificate: %w", err)
	}

	return &model.ClusterInfo{
		Name:     spec.Name,
		Location: spec.Location,
		Endpoint: cluster.GetEndpoint(),
		CACert:   caCert,
	}, nil
}

// NodePoolCreate creates the dedicated autoscaled node pool.
func (d *driver) NodePoolCreate(ctx context.Context, info *model.ClusterInfo, pool *model.NodePoolSpec) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolCreate")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	client, err := container.NewClusterManagerClient(ctx, d.ClientOpts...)
	if err != nil {
		return fmt.Errorf("create cluster manager client: %w", err)
	}
	defer client.Close()

	req := &containerpb.CreateNodePoolRequest{
		Parent: d.clusterPath(info.Location, info.Name),
		NodePool: &containerpb.NodePool{
			Name:             pool.Name,
			InitialNodeCount: pool.InitialCount,
			Config: &containerpb.NodeConfig{
				MachineType: pool.MachineType,
				Preemptible: pool.Preemptible,
			},
			Autoscaling: &containerpb.NodePoolAutoscaling{
				Enabled:      true,
				MinNodeCount: pool.MinCount,
				MaxNodeCount: pool.MaxCount,
			},
		},
	}
	op, err := client.CreateNodePool(ctx, req)
	if err != nil {
		return &model.ProvisioningError{Resource: "node pool " + pool.Name, Err: err}
	}
	if err := d.waitOperation(ctx, client, info.Location, op.GetName()); err != nil {
		return &model.ProvisioningError{Resource: "node pool " + pool.Name, Err: err}
	}
	return nil
}

// ClusterAccess assembles the access credential. GKE authenticates through
// an exec plugin rather than raw client keys.
func (d *driver) ClusterAccess(ctx context.Context, info *model.ClusterInfo) (cred *model.AccessCredential, err error) {
	_, cleanup := d.withMethodLogger(ctx, "ClusterAccess")
	defer func() { cleanup(err) }()

	if info.Endpoint == "" {
		return nil, fmt.Errorf("cluster %s has no endpoint", info.Name)
	}
	return &model.AccessCredential{
		Endpoint: "https://" + info.Endpoint,
		CACert:   info.CACert,
		Exec: &model.ExecCredential{
			Command:    "gke-gcloud-auth-plugin",
			APIVersion: execAuthAPIVersion,
		},
	}, nil
}

// waitOperation polls a cluster operation until it completes.
func (d *driver) waitOperation(ctx context.Context, client *container.ClusterManagerClient, location, opName string) error {
	name := fmt.Sprintf("%s/operations/%s", d.locationPath(location), opName)
	for {
		op, err := client.GetOperation(ctx, &containerpb.GetOperationRequest{Name: name})
		if err != nil {
			return fmt.Errorf("get operation %s: %w", opName, err)
		}
		if op.GetStatus() == containerpb.Operation_DONE {
			if e := op.GetError(); e != nil {
				return fmt.Errorf("operation %s failed: %s", opName, e.GetMessage())
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(10 * time.Second):
		}
	}
}
