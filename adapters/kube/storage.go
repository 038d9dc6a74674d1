package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fleetform/fleetform/domain/model"
)

// BuildPersistentVolume renders the volume manifest backing a network file
// share. Reclaim policy is Retain: share data survives claim deletion.
func BuildPersistentVolume(name string, share *model.FileShareInfo, storageClassName string) *corev1.PersistentVolume {
	return &corev1.PersistentVolume{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Spec: corev1.PersistentVolumeSpec{
			Capacity: corev1.ResourceList{
				corev1.ResourceStorage: resource.MustParse(fmt.Sprintf("%dGi", share.CapacityGB)),
			},
			AccessModes:                   []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany},
			PersistentVolumeReclaimPolicy: corev1.PersistentVolumeReclaimRetain,
			StorageClassName:              storageClassName,
			PersistentVolumeSource: corev1.PersistentVolumeSource{
				NFS: &corev1.NFSVolumeSource{
					Server: share.ServerAddress,
					Path:   share.ExportPath,
				},
			},
		},
	}
}

// BuildPersistentVolumeClaim renders the claim referencing the volume by
// name. Class name and capacity must mirror the volume's; callers validate
// the class equality before submission.
func BuildPersistentVolumeClaim(claimName, volumeName, storageClassName string, capacityGB int64) *corev1.PersistentVolumeClaim {
	className := storageClassName
	return &corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{Name: claimName, Namespace: Namespace},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes:      []corev1.PersistentVolumeAccessMode{corev1.ReadWriteMany},
			StorageClassName: &className,
			VolumeName:       volumeName,
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(fmt.Sprintf("%dGi", capacityGB)),
				},
			},
		},
	}
}

// EnsurePersistentVolume creates the volume, updating it when it exists.
func (c *Client) EnsurePersistentVolume(ctx context.Context, pv *corev1.PersistentVolume) error {
	pvs := c.Clientset.CoreV1().PersistentVolumes()
	_, err := pvs.Create(ctx, pv, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = pvs.Update(ctx, pv, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("ensure persistent volume %s: %w", pv.Name, err)
	}
	return nil
}

// EnsurePersistentVolumeClaim creates the claim, updating it when it exists.
func (c *Client) EnsurePersistentVolumeClaim(ctx context.Context, pvc *corev1.PersistentVolumeClaim) error {
	pvcs := c.Clientset.CoreV1().PersistentVolumeClaims(pvc.Namespace)
	_, err := pvcs.Create(ctx, pvc, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = pvcs.Update(ctx, pvc, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("ensure persistent volume claim %s: %w", pvc.Name, err)
	}
	return nil
}
