package storage

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
	"github.com/fleetform/fleetform/internal/logging"
	"github.com/fleetform/fleetform/internal/naming"
)

// ProvisionInput represents a command to provision shared storage.
type ProvisionInput struct {
	TargetName string
	Spec       *model.StorageSpec

	// Access is the cluster handle the volume and claim are created in.
	// The file share itself needs no cluster, only the provider API.
	Access *graph.Output[*model.ClusterHandle]
}

// Provision declares the storage nodes on g and returns the deferred claim
// handle. The volume's and claim's storage class names are checked for
// textual equality before the claim is submitted; a mismatch aborts as a
// configuration defect.
func (u *UseCase) Provision(g *graph.Graph, in ProvisionInput) *graph.Output[*model.StorageClaimHandle] {
	spec := in.Spec
	volumeName := naming.VolumeName(in.TargetName)
	claimName := naming.ClaimName(in.TargetName)

	share := graph.Add(g, in.TargetName+"/fileshare", func(ctx context.Context) (*model.FileShareInfo, error) {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Info(ctx, "creating file share", "share", spec.Name, "capacityGB", spec.CapacityGB)
		info, err := u.Driver.FileShareCreate(ctx, spec)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "file share " + spec.Name, Err: err}
		}
		return info, nil
	})

	volume := graph.Add(g, in.TargetName+"/volume", func(ctx context.Context) (*model.FileShareInfo, error) {
		info, err := share.Value(ctx)
		if err != nil {
			return nil, err
		}
		handle, err := in.Access.Value(ctx)
		if err != nil {
			return nil, err
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "volume " + volumeName, Err: err}
		}
		pv := kube.BuildPersistentVolume(volumeName, info, spec.StorageClassName)
		if err := cli.EnsurePersistentVolume(ctx, pv); err != nil {
			return nil, &model.ProvisioningError{Resource: "volume " + volumeName, Err: err}
		}
		return info, nil
	}, share, in.Access)

	return graph.Add(g, in.TargetName+"/claim", func(ctx context.Context) (*model.StorageClaimHandle, error) {
		info, err := volume.Value(ctx)
		if err != nil {
			return nil, err
		}
		handle, err := in.Access.Value(ctx)
		if err != nil {
			return nil, err
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "claim " + claimName, Err: err}
		}
		pv, err := cli.Clientset.CoreV1().PersistentVolumes().Get(ctx, volumeName, metav1.GetOptions{})
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "volume " + volumeName, Err: err}
		}
		if err := model.CheckBinding(pv.Spec.StorageClassName, spec.StorageClassName); err != nil {
			return nil, err
		}
		pvc := kube.BuildPersistentVolumeClaim(claimName, volumeName, spec.StorageClassName, info.CapacityGB)
		if err := cli.EnsurePersistentVolumeClaim(ctx, pvc); err != nil {
			return nil, &model.ProvisioningError{Resource: "claim " + claimName, Err: err}
		}
		return &model.StorageClaimHandle{
			ClaimName:        claimName,
			VolumeName:       volumeName,
			StorageClassName: spec.StorageClassName,
			CapacityGB:       info.CapacityGB,
		}, nil
	}, volume, in.Access)
}
