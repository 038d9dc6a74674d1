package aks

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerservice/armcontainerservice"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/kubeconfig"
	"github.com/fleetform/fleetform/internal/logging"
)

// systemPoolName is the minimal system pool AKS requires at creation time.
// AKS cannot run without one system pool, so unlike GKE the throwaway pool
// stays, sized to the smallest usable footprint; workload capacity comes
// from the dedicated user pool.
const systemPoolName = "system"

// systemPoolVMSize is the smallest supported system pool size.
const systemPoolVMSize = "Standard_B2s"

// ClusterCreate creates the resource group and the managed cluster.
func (d *driver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (info *model.ClusterInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterCreate")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	log := logging.FromContext(ctx)

	rgClient, err := armresources.NewResourceGroupsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create resource group client: %w", err)
	}
	rgParams := armresources.ResourceGroup{
		Location: to.Ptr(d.AzureLocation),
		Tags: map[string]*string{
			"managed-by": to.Ptr("fleetform"),
		},
	}
	if _, err := rgClient.CreateOrUpdate(ctx, d.ResourceGroup, rgParams, nil); err != nil {
		return nil, &model.ProvisioningError{Resource: "resource group " + d.ResourceGroup, Err: err}
	}

	aksClient, err := armcontainerservice.NewManagedClustersClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create AKS client: %w", err)
	}

	log.Info(ctx, "creating managed cluster", "cluster", spec.Name, "resourceGroup", d.ResourceGroup)
	params := armcontainerservice.ManagedCluster{
		Location: to.Ptr(d.AzureLocation),
		Identity: &armcontainerservice.ManagedClusterIdentity{
			Type: to.Ptr(armcontainerservice.ResourceIdentityTypeSystemAssigned),
		},
		Properties: &armcontainerservice.ManagedClusterProperties{
			DNSPrefix: to.Ptr(spec.Name),
			AgentPoolProfiles: []*armcontainerservice.ManagedClusterAgentPoolProfile{
				{
					Name:   to.Ptr(systemPoolName),
					Count:  to.Ptr[int32](1),
					VMSize: to.Ptr(systemPoolVMSize),
					Mode:   to.Ptr(armcontainerservice.AgentPoolModeSystem),
					Type:   to.Ptr(armcontainerservice.AgentPoolTypeVirtualMachineScaleSets),
				},
			},
		},
	}
	poller, err := aksClient.BeginCreateOrUpdate(ctx, d.ResourceGroup, spec.Name, params, nil)
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster " + spec.Name, Err: err}
	}

	return &model.ClusterInfo{
		Name:     spec.Name,
		Location: d.AzureLocation,
	}, nil
}

// NodePoolCreate creates the dedicated user-mode agent pool with autoscaling.
func (d *driver) NodePoolCreate(ctx context.Context, info *model.ClusterInfo, pool *model.NodePoolSpec) (err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "NodePoolCreate")
	defer func() { cleanup(err) }()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	client, err := armcontainerservice.NewAgentPoolsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return fmt.Errorf("create agent pools client: %w", err)
	}

	props := &armcontainerservice.ManagedClusterAgentPoolProfileProperties{
		VMSize:            to.Ptr(pool.MachineType),
		Count:             to.Ptr(pool.InitialCount),
		MinCount:          to.Ptr(pool.MinCount),
		MaxCount:          to.Ptr(pool.MaxCount),
		EnableAutoScaling: to.Ptr(true),
		Mode:              to.Ptr(armcontainerservice.AgentPoolModeUser),
		Type:              to.Ptr(armcontainerservice.AgentPoolTypeVirtualMachineScaleSets),
	}
	if pool.Preemptible {
		props.ScaleSetPriority = to.Ptr(armcontainerservice.ScaleSetPrioritySpot)
	}

	poller, err := client.BeginCreateOrUpdate(ctx, d.ResourceGroup, info.Name, pool.Name,
		armcontainerservice.AgentPool{Properties: props}, nil)
	if err != nil {
		return &model.ProvisioningError{Resource: "node pool " + pool.Name, Err: err}
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return &model.ProvisioningError{Resource: "node pool " + pool.Name, Err: err}
	}
	return nil
}

// ClusterAccess fetches admin credentials and reduces them to the client
// cert/key pair of the current context.
func (d *driver) ClusterAccess(ctx context.Context, info *model.ClusterInfo) (cred *model.AccessCredential, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "ClusterAccess")
	defer func() { cleanup(err) }()

	client, err := armcontainerservice.NewManagedClustersClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create AKS client: %w", err)
	}
	resp, err := client.ListClusterAdminCredentials(ctx, d.ResourceGroup, info.Name, nil)
	if err != nil {
		return nil, &model.ProvisioningError{Resource: "cluster credentials " + info.Name, Err: err}
	}
	if len(resp.Kubeconfigs) == 0 || len(resp.Kubeconfigs[0].Value) == 0 {
		return nil, fmt.Errorf("cluster %s returned no admin kubeconfig", info.Name)
	}
	return kubeconfig.ExtractCredential(resp.Kubeconfigs[0].Value)
}
