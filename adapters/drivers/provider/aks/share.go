package aks

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"

	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/logging"
	"github.com/fleetform/fleetform/internal/naming"
)

// FileShareCreate provisions a Premium FileStorage account and an NFS file
// share inside it. NFS shares require HTTPS-only traffic disabled and the
// premium tier; quota is the requested capacity in GiB.
func (d *driver) FileShareCreate(ctx context.Context, spec *model.StorageSpec) (info *model.FileShareInfo, err error) {
	ctx, cleanup := d.withMethodLogger(ctx, "FileShareCreate")
	defer func() { cleanup(err) }()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	log := logging.FromContext(ctx)
	accountName := naming.StorageAccountName(spec.Name)

	accountsClient, err := armstorage.NewAccountsClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage accounts client: %w", err)
	}

	if _, err := accountsClient.GetProperties(ctx, d.ResourceGroup, accountName, nil); err != nil {
		log.Info(ctx, "creating storage account", "account", accountName, "resourceGroup", d.ResourceGroup)
		params := armstorage.AccountCreateParameters{
			SKU: &armstorage.SKU{
				Name: to.Ptr(armstorage.SKUNamePremiumLRS),
			},
			Kind:     to.Ptr(armstorage.KindFileStorage),
			Location: to.Ptr(d.AzureLocation),
			Properties: &armstorage.AccountPropertiesCreateParameters{
				EnableHTTPSTrafficOnly: to.Ptr(false),
				MinimumTLSVersion:      to.Ptr(armstorage.MinimumTLSVersionTLS12),
			},
		}
		poller, err := accountsClient.BeginCreate(ctx, d.ResourceGroup, accountName, params, nil)
		if err != nil {
			return nil, &model.ProvisioningError{Resource: "storage account " + accountName, Err: err}
		}
		if _, err := poller.PollUntilDone(ctx, nil); err != nil {
			return nil, &model.ProvisioningError{Resource: "storage account " + accountName, Err: err}
		}
	}

	sharesClient, err := armstorage.NewFileSharesClient(d.AzureSubscriptionId, d.TokenCredential, nil)
	if err != nil {
		return nil, fmt.Errorf("create file shares client: %w", err)
	}
	share := armstorage.FileShare{
		FileShareProperties: &armstorage.FileShareProperties{
			ShareQuota:       to.Ptr(int32(spec.CapacityGB)),
			EnabledProtocols: to.Ptr(armstorage.EnabledProtocolsNFS),
		},
	}
	if _, err := sharesClient.Create(ctx, d.ResourceGroup, accountName, spec.Name, share, nil); err != nil {
		return nil, &model.ProvisioningError{Resource: "file share " + spec.Name, Err: err}
	}

	return &model.FileShareInfo{
		ServerAddress: accountName + ".file.core.windows.net",
		ExportPath:    fmt.Sprintf("/%s/%s", accountName, spec.Name),
		CapacityGB:    spec.CapacityGB,
	}, nil
}
