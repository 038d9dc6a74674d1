// Package aks implements the provider driver for Azure Kubernetes Service
// with Azure Files (NFS) shared storage.
package aks

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/domain/model"
)

// driver implements the AKS provider driver.
type driver struct {
	TokenCredential     azcore.TokenCredential
	AzureSubscriptionId string
	AzureLocation       string
	ResourceGroup       string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "aks" }

func init() {
	providerdrv.Register("aks", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}

		subscriptionID := get("AZURE_SUBSCRIPTION_ID")
		location := get("AZURE_LOCATION")
		resourceGroup := get("AZURE_RESOURCE_GROUP")
		missing := make([]string, 0, 3)
		if subscriptionID == "" {
			missing = append(missing, "AZURE_SUBSCRIPTION_ID")
		}
		if location == "" {
			missing = append(missing, "AZURE_LOCATION")
		}
		if resourceGroup == "" {
			missing = append(missing, "AZURE_RESOURCE_GROUP")
		}
		if len(missing) > 0 {
			return nil, &model.ConfigurationError{
				Field:  strings.Join(missing, ", "),
				Reason: "required AKS settings are not set",
			}
		}

		var cred azcore.TokenCredential
		var err error
		switch authMethod := get("AZURE_AUTH_METHOD"); authMethod {
		case "client_secret":
			tenantID := get("AZURE_TENANT_ID")
			clientID := get("AZURE_CLIENT_ID")
			clientSecret := get("AZURE_CLIENT_SECRET")
			if tenantID == "" || clientID == "" || clientSecret == "" {
				return nil, fmt.Errorf("client_secret auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET")
			}
			cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		case "managed_identity":
			opts := &azidentity.ManagedIdentityCredentialOptions{}
			if clientID := get("AZURE_CLIENT_ID"); clientID != "" {
				opts.ID = azidentity.ClientID(clientID)
			}
			cred, err = azidentity.NewManagedIdentityCredential(opts)
		case "workload_identity":
			tenantID := get("AZURE_TENANT_ID")
			clientID := get("AZURE_CLIENT_ID")
			tokenFile := get("AZURE_FEDERATED_TOKEN_FILE")
			if tenantID == "" || clientID == "" || tokenFile == "" {
				return nil, fmt.Errorf("workload_identity auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_FEDERATED_TOKEN_FILE")
			}
			cred, err = azidentity.NewWorkloadIdentityCredential(&azidentity.WorkloadIdentityCredentialOptions{
				TenantID:      tenantID,
				ClientID:      clientID,
				TokenFilePath: tokenFile,
			})
		case "", "azure_cli":
			cred, err = azidentity.NewAzureCLICredential(nil)
		default:
			return nil, fmt.Errorf("unsupported AZURE_AUTH_METHOD: %s", authMethod)
		}
		if err != nil {
			return nil, fmt.Errorf("create Azure credential: %w", err)
		}

		return &driver{
			TokenCredential:     cred,
			AzureSubscriptionId: subscriptionID,
			AzureLocation:       location,
			ResourceGroup:       resourceGroup,
		}, nil
	})
}

var _ providerdrv.Driver = (*driver)(nil)
