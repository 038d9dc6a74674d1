package orchestrate

import (
	"github.com/fleetform/fleetform/config/fleetcfg"
	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/naming"
)

// TargetPlan is everything one target's subgraph needs, fully resolved
// before any provisioning starts.
type TargetPlan struct {
	Target  model.ClusterTarget
	Cluster model.ClusterSpec
	Storage model.StorageSpec
	Deploy  model.DeploymentSpec
	Service model.ServiceSpec

	// Policy is nil when the configuration carries no autoscaling block.
	Policy *model.AutoscalingPolicySpec
}

// BuildPlan resolves configuration and environment into per-target plans.
// All configuration defects surface here, before the first provider call.
func BuildPlan(cfg *fleetcfg.Root, env *fleetcfg.Env) ([]TargetPlan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	plans := make([]TargetPlan, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		d := cfg.Defaults
		deployName := naming.DeploymentName(t.Name)

		plan := TargetPlan{
			Target: model.ClusterTarget{
				Name: t.Name,
				Provider: model.Provider{
					Name:     t.Name,
					Driver:   t.Driver,
					Settings: t.Settings,
				},
				Location: t.Location,
				StaticIP: t.StaticIP,
			},
			Cluster: model.ClusterSpec{
				Name:                  t.Name,
				Provider:              t.Driver,
				Location:              t.Location,
				RemoveDefaultNodePool: true,
				NodePool: model.NodePoolSpec{
					Name:         naming.NodePoolName(t.Name),
					MachineType:  d.MachineType,
					InitialCount: d.MinNodes,
					MinCount:     d.MinNodes,
					MaxCount:     d.MaxNodes,
					Preemptible:  d.Preemptible,
				},
			},
			Storage: model.StorageSpec{
				Name:             naming.FileShareName(t.Name),
				CapacityGB:       env.StorageGB,
				StorageClassName: model.StorageClassName,
			},
			Deploy: model.DeploymentSpec{
				Name:          deployName,
				ImageTag:      env.ImageTag,
				Replicas:      d.Replicas,
				ContainerPort: env.ContainerPort,
				CPURequest:    d.CPURequest,
				CPULimit:      d.CPULimit,
				Env:           env.WorkloadEnv,
				HostAliases:   env.HostAliases,
				LivenessPath:  d.LivenessPath,
				ReadinessPath: d.ReadinessPath,
			},
			Service: model.ServiceSpec{
				Name:       naming.ServiceName(t.Name),
				Port:       model.ServiceExposedPort,
				TargetPort: env.ContainerPort,
				StaticIP:   t.StaticIP,
			},
		}
		if a := d.Autoscaling; a != nil {
			plan.Policy = &model.AutoscalingPolicySpec{
				DeploymentName:       deployName,
				TargetCPUUtilization: a.TargetCPUUtilization,
				MinReplicas:          a.MinReplicas,
				MaxReplicas:          a.MaxReplicas,
			}
		}
		plans = append(plans, plan)
	}
	return plans, nil
}
