// Package kubeconfig extracts access credentials from provider-returned
// kubeconfig documents. Providers that hand back a full kubeconfig (AKS
// admin credentials) get reduced here to the single cluster/user pair the
// rest of the system works with.
package kubeconfig

import (
	"fmt"

	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/fleetform/fleetform/domain/model"
)

// ExtractCredential parses kubeconfig bytes and returns the access
// credential of the current context. File references are inlined first so
// the returned credential is self-contained.
func ExtractCredential(data []byte) (*model.AccessCredential, error) {
	cfg, err := clientcmd.Load(data)
	if err != nil {
		return nil, fmt.Errorf("parse kubeconfig: %w", err)
	}

	curCtxName := cfg.CurrentContext
	if curCtxName == "" {
		if len(cfg.Contexts) != 1 {
			return nil, fmt.Errorf("kubeconfig has no current context")
		}
		for k := range cfg.Contexts {
			curCtxName = k
		}
		cfg.CurrentContext = curCtxName
	} else if cfg.Contexts[curCtxName] == nil {
		return nil, fmt.Errorf("context %q not found in kubeconfig", curCtxName)
	}

	// Keep only the selected context and inline referenced files.
	if err := clientcmdapi.MinifyConfig(cfg); err != nil {
		return nil, fmt.Errorf("minify kubeconfig: %w", err)
	}
	if err := clientcmdapi.FlattenConfig(cfg); err != nil {
		return nil, fmt.Errorf("flatten kubeconfig: %w", err)
	}

	curCtx := cfg.Contexts[cfg.CurrentContext]
	cluster, ok := cfg.Clusters[curCtx.Cluster]
	if !ok {
		return nil, fmt.Errorf("referenced cluster %q not found", curCtx.Cluster)
	}
	user, ok := cfg.AuthInfos[curCtx.AuthInfo]
	if !ok {
		return nil, fmt.Errorf("referenced user %q not found", curCtx.AuthInfo)
	}

	cred := &model.AccessCredential{
		Endpoint:   cluster.Server,
		CACert:     cluster.CertificateAuthorityData,
		ClientCert: user.ClientCertificateData,
		ClientKey:  user.ClientKeyData,
	}
	if user.Exec != nil {
		cred.Exec = &model.ExecCredential{
			Command:    user.Exec.Command,
			Args:       user.Exec.Args,
			APIVersion: user.Exec.APIVersion,
		}
	}
	if cred.Endpoint == "" {
		return nil, fmt.Errorf("kubeconfig cluster %q has no server", curCtx.Cluster)
	}
	if cred.Exec == nil && (len(cred.ClientCert) == 0 || len(cred.ClientKey) == 0) {
		return nil, fmt.Errorf("kubeconfig user %q carries neither client keys nor an exec plugin", curCtx.AuthInfo)
	}
	return cred, nil
}
