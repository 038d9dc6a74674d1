package model

// AutoscalingPolicySpec binds observed CPU utilization to a replica range on
// an existing deployment. The deployment is addressed by name (a weak
// reference); the policy resource must be created after the deployment
// exists, which callers express as a graph dependency. Once the policy
// exists its MinReplicas supersedes the deployment's static replica count
// for live reconciliation; that reconciliation happens in the cluster, not
// here.
type AutoscalingPolicySpec struct {
	DeploymentName       string
	TargetCPUUtilization int32 // percent
	MinReplicas          int32
	MaxReplicas          int32
}
