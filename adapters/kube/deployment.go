package kube

import (
	"context"
	"fmt"
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"

	"github.com/fleetform/fleetform/domain/model"
)

// sharedVolumeName is the in-pod name of the mounted storage claim.
const sharedVolumeName = "shared-data"

// BuildDeployment renders the workload manifest. When claim is nil the
// volume list and the mount are omitted entirely; the workload runs without
// persistent storage.
func BuildDeployment(spec *model.DeploymentSpec, claim *model.StorageClaimHandle) (*appsv1.Deployment, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("deployment name is required")
	}
	cpuRequest, err := resource.ParseQuantity(spec.CPURequest)
	if err != nil {
		return nil, fmt.Errorf("parse CPU request %q: %w", spec.CPURequest, err)
	}
	cpuLimit, err := resource.ParseQuantity(spec.CPULimit)
	if err != nil {
		return nil, fmt.Errorf("parse CPU limit %q: %w", spec.CPULimit, err)
	}

	labels := map[string]string{"app": spec.Name}

	// Stable env ordering keeps manifests diffable across runs.
	names := make([]string, 0, len(spec.Env))
	for k := range spec.Env {
		names = append(names, k)
	}
	sort.Strings(names)
	env := make([]corev1.EnvVar, 0, len(names))
	for _, k := range names {
		env = append(env, corev1.EnvVar{Name: k, Value: spec.Env[k]})
	}

	container := corev1.Container{
		Name:  "webapp",
		Image: spec.Image(),
		Ports: []corev1.ContainerPort{{ContainerPort: spec.ContainerPort}},
		Env:   env,
		Resources: corev1.ResourceRequirements{
			Requests: corev1.ResourceList{corev1.ResourceCPU: cpuRequest},
			Limits:   corev1.ResourceList{corev1.ResourceCPU: cpuLimit},
		},
		LivenessProbe:  buildProbe(spec.LivenessPath, spec.ContainerPort),
		ReadinessProbe: buildProbe(spec.ReadinessPath, spec.ContainerPort),
	}

	podSpec := corev1.PodSpec{}
	if claim != nil {
		container.VolumeMounts = []corev1.VolumeMount{
			{Name: sharedVolumeName, MountPath: model.ClaimMountPath},
		}
		podSpec.Volumes = []corev1.Volume{
			{
				Name: sharedVolumeName,
				VolumeSource: corev1.VolumeSource{
					PersistentVolumeClaim: &corev1.PersistentVolumeClaimVolumeSource{
						ClaimName: claim.ClaimName,
					},
				},
			},
		}
	}
	for _, ha := range spec.HostAliases {
		podSpec.HostAliases = append(podSpec.HostAliases, corev1.HostAlias{
			IP:        ha.IP,
			Hostnames: ha.Hostnames,
		})
	}
	podSpec.Containers = []corev1.Container{container}

	replicas := spec.Replicas
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: spec.Name, Namespace: Namespace, Labels: labels},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       podSpec,
			},
		},
	}, nil
}

func buildProbe(path string, port int32) *corev1.Probe {
	if path == "" {
		return nil
	}
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: path,
				Port: intstr.FromInt32(port),
			},
		},
		InitialDelaySeconds: model.ProbeInitialDelaySeconds,
		TimeoutSeconds:      model.ProbeTimeoutSeconds,
		PeriodSeconds:       model.ProbePeriodSeconds,
		FailureThreshold:    model.ProbeFailureThreshold,
	}
}

// EnsureDeployment creates the deployment, updating it when it exists.
func (c *Client) EnsureDeployment(ctx context.Context, dep *appsv1.Deployment) error {
	deps := c.Clientset.AppsV1().Deployments(dep.Namespace)
	_, err := deps.Create(ctx, dep, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = deps.Update(ctx, dep, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("ensure deployment %s: %w", dep.Name, err)
	}
	return nil
}
