package kube

import (
	"context"
	"fmt"

	autoscalingv2 "k8s.io/api/autoscaling/v2"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/fleetform/fleetform/domain/model"
)

// BuildHorizontalPodAutoscaler renders the CPU-utilization replica policy.
// The deployment is addressed by name only; it must exist first.
func BuildHorizontalPodAutoscaler(spec *model.AutoscalingPolicySpec) *autoscalingv2.HorizontalPodAutoscaler {
	minReplicas := spec.MinReplicas
	target := spec.TargetCPUUtilization
	return &autoscalingv2.HorizontalPodAutoscaler{
		ObjectMeta: metav1.ObjectMeta{Name: spec.DeploymentName, Namespace: Namespace},
		Spec: autoscalingv2.HorizontalPodAutoscalerSpec{
			ScaleTargetRef: autoscalingv2.CrossVersionObjectReference{
				APIVersion: "apps/v1",
				Kind:       "Deployment",
				Name:       spec.DeploymentName,
			},
			MinReplicas: &minReplicas,
			MaxReplicas: spec.MaxReplicas,
			Metrics: []autoscalingv2.MetricSpec{
				{
					Type: autoscalingv2.ResourceMetricSourceType,
					Resource: &autoscalingv2.ResourceMetricSource{
						Name: "cpu",
						Target: autoscalingv2.MetricTarget{
							Type:               autoscalingv2.UtilizationMetricType,
							AverageUtilization: &target,
						},
					},
				},
			},
		},
	}
}

// EnsureHorizontalPodAutoscaler creates the policy, updating it when it exists.
func (c *Client) EnsureHorizontalPodAutoscaler(ctx context.Context, hpa *autoscalingv2.HorizontalPodAutoscaler) error {
	hpas := c.Clientset.AutoscalingV2().HorizontalPodAutoscalers(hpa.Namespace)
	_, err := hpas.Create(ctx, hpa, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		_, err = hpas.Update(ctx, hpa, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("ensure autoscaling policy %s: %w", hpa.Name, err)
	}
	return nil
}
