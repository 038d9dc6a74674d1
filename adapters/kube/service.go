package kube

import (
	"context"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/fleetform/fleetform/domain/model"
)

// ingressPollInterval is how often the load-balancer status is re-read
// while waiting for an external endpoint.
const ingressPollInterval = 2 * time.Second

// BuildService renders the load-balancer service manifest. StaticIP pins
// the allocated address when the provider requires pre-allocation.
func BuildService(spec *model.ServiceSpec, appName string) *corev1.Service {
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: spec.Name, Namespace: Namespace},
		Spec: corev1.ServiceSpec{
			Type:     corev1.ServiceTypeLoadBalancer,
			Selector: map[string]string{"app": appName},
			Ports: []corev1.ServicePort{
				{
					Port:       spec.Port,
					TargetPort: intstr.FromInt32(spec.TargetPort),
				},
			},
		},
	}
	if spec.StaticIP != "" {
		svc.Spec.LoadBalancerIP = spec.StaticIP
	}
	return svc
}

// EnsureService creates the service, updating it when it exists.
func (c *Client) EnsureService(ctx context.Context, svc *corev1.Service) error {
	svcs := c.Clientset.CoreV1().Services(svc.Namespace)
	_, err := svcs.Create(ctx, svc, metav1.CreateOptions{})
	if apierrors.IsAlreadyExists(err) {
		existing, getErr := svcs.Get(ctx, svc.Name, metav1.GetOptions{})
		if getErr != nil {
			return fmt.Errorf("ensure service %s: %w", svc.Name, getErr)
		}
		// ClusterIP is immutable; carry it over on update.
		svc.ResourceVersion = existing.ResourceVersion
		svc.Spec.ClusterIP = existing.Spec.ClusterIP
		_, err = svcs.Update(ctx, svc, metav1.UpdateOptions{})
	}
	if err != nil {
		return fmt.Errorf("ensure service %s: %w", svc.Name, err)
	}
	return nil
}

// WaitServiceIngress polls the service status until the cloud provider
// reports a load-balancer ingress entry, then returns it.
func (c *Client) WaitServiceIngress(ctx context.Context, name string) (model.LoadBalancerIngress, error) {
	var out model.LoadBalancerIngress
	err := wait.PollUntilContextCancel(ctx, ingressPollInterval, true, func(ctx context.Context) (bool, error) {
		svc, err := c.Clientset.CoreV1().Services(Namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return false, err
		}
		ing := svc.Status.LoadBalancer.Ingress
		if len(ing) == 0 {
			return false, nil
		}
		out = model.LoadBalancerIngress{Hostname: ing[0].Hostname, IP: ing[0].IP}
		return true, nil
	})
	if err != nil {
		return model.LoadBalancerIngress{}, fmt.Errorf("await load balancer for service %s: %w", name, err)
	}
	return out, nil
}
