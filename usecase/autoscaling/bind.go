package autoscaling

import (
	"context"

	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
	"github.com/fleetform/fleetform/internal/logging"
)

// BindInput represents a command to bind a replica policy to a deployment.
type BindInput struct {
	TargetName string
	Policy     *model.AutoscalingPolicySpec

	// Access is the cluster carrying the target deployment.
	Access *graph.Output[*model.ClusterHandle]

	// Workload orders the policy after the deployment it references by name.
	Workload graph.Dep
}

// Bind declares the policy node on g and returns its deferred name. The
// policy references the deployment by name only; the workload edge exists so
// the reference resolves by the time the policy is submitted.
func (u *UseCase) Bind(g *graph.Graph, in BindInput) *graph.Output[string] {
	return graph.Add(g, in.TargetName+"/autoscaling", func(ctx context.Context) (string, error) {
		handle, err := in.Access.Value(ctx)
		if err != nil {
			return "", err
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return "", &model.DeploymentError{Resource: "autoscaling policy " + in.Policy.DeploymentName, Err: err}
		}
		hpa := kube.BuildHorizontalPodAutoscaler(in.Policy)
		if err := cli.EnsureHorizontalPodAutoscaler(ctx, hpa); err != nil {
			return "", &model.DeploymentError{Resource: "autoscaling policy " + in.Policy.DeploymentName, Err: err}
		}
		logging.FromContext(ctx).Info(ctx, "autoscaling policy bound",
			"target", in.TargetName, "deployment", in.Policy.DeploymentName,
			"min", in.Policy.MinReplicas, "max", in.Policy.MaxReplicas)
		return hpa.Name, nil
	}, in.Access, in.Workload)
}
