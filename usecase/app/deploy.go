package app

import (
	"context"

	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
	"github.com/fleetform/fleetform/internal/logging"
)

// DeployInput represents a command to deploy the workload to one cluster.
type DeployInput struct {
	TargetName string
	Deployment *model.DeploymentSpec
	Service    *model.ServiceSpec

	// Access is the cluster the workload lands on.
	Access *graph.Output[*model.ClusterHandle]

	// Claim is the optional shared storage mount; nil deploys without
	// persistent storage.
	Claim *graph.Output[*model.StorageClaimHandle]
}

// Deploy declares the workload, service, and URL-resolution nodes on g and
// returns the deferred reachable URL. Which load-balancer status field
// carries the address is decided by the target name, not the service object.
func (u *UseCase) Deploy(g *graph.Graph, in DeployInput) *graph.Output[model.AppURL] {
	deps := []graph.Dep{in.Access}
	if in.Claim != nil {
		deps = append(deps, in.Claim)
	}

	workload := graph.Add(g, in.TargetName+"/deployment", func(ctx context.Context) (*model.ClusterHandle, error) {
		handle, err := in.Access.Value(ctx)
		if err != nil {
			return nil, err
		}
		var claim *model.StorageClaimHandle
		if in.Claim != nil {
			if claim, err = in.Claim.Value(ctx); err != nil {
				return nil, err
			}
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return nil, &model.DeploymentError{Resource: "deployment " + in.Deployment.Name, Err: err}
		}
		dep, err := kube.BuildDeployment(in.Deployment, claim)
		if err != nil {
			return nil, &model.DeploymentError{Resource: "deployment " + in.Deployment.Name, Err: err}
		}
		logging.FromContext(ctx).Info(ctx, "deploying workload",
			"target", in.TargetName, "image", in.Deployment.Image(), "replicas", in.Deployment.Replicas)
		if err := cli.EnsureDeployment(ctx, dep); err != nil {
			return nil, &model.DeploymentError{Resource: "deployment " + in.Deployment.Name, Err: err}
		}
		return handle, nil
	}, deps...)

	service := graph.Add(g, in.TargetName+"/service", func(ctx context.Context) (*model.ClusterHandle, error) {
		handle, err := workload.Value(ctx)
		if err != nil {
			return nil, err
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return nil, &model.DeploymentError{Resource: "service " + in.Service.Name, Err: err}
		}
		svc := kube.BuildService(in.Service, in.Deployment.Name)
		if err := cli.EnsureService(ctx, svc); err != nil {
			return nil, &model.DeploymentError{Resource: "service " + in.Service.Name, Err: err}
		}
		return handle, nil
	}, workload)

	return graph.Add(g, in.TargetName+"/url", func(ctx context.Context) (model.AppURL, error) {
		handle, err := service.Value(ctx)
		if err != nil {
			return model.AppURL{}, err
		}
		cli, err := u.kubeClient(ctx, handle.Credential)
		if err != nil {
			return model.AppURL{}, &model.DeploymentError{Resource: "service " + in.Service.Name, Err: err}
		}
		ingress, err := cli.WaitServiceIngress(ctx, in.Service.Name)
		if err != nil {
			return model.AppURL{}, &model.DeploymentError{Resource: "service " + in.Service.Name, Err: err}
		}
		address, err := ingress.Resolve(model.EndpointPolicyFor(in.TargetName))
		if err != nil {
			return model.AppURL{}, &model.DeploymentError{Resource: "service " + in.Service.Name, Err: err}
		}
		// The URL carries the declared external port, not the container port.
		url := model.EndpointURL(address, in.Service.Port)
		logging.FromContext(ctx).Info(ctx, "endpoint resolved", "target", in.TargetName, "url", url)
		return model.AppURL{ClusterName: in.TargetName, URL: url}, nil
	}, service)
}
