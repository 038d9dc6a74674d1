// Package kube wraps the Kubernetes clients and manifest construction used
// to deploy workloads onto provisioned clusters. Client construction lives
// here; provider-specific credential retrieval lives in the provider
// drivers, which hand over an AccessCredential.
package kube

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"

	"github.com/fleetform/fleetform/domain/model"
)

// Namespace is the namespace all workload objects are created in.
const Namespace = "default"

// Client wraps the typed Kubernetes clientset and its REST config.
type Client struct {
	// RESTConfig is the configuration used to talk to the API server.
	RESTConfig *rest.Config
	// Clientset provides typed clients for built-in resources.
	Clientset kubernetes.Interface
}

// Options controls client construction tuning. All fields are optional.
type Options struct {
	UserAgent string
	QPS       float32
	Burst     int
}

func (o *Options) applyDefaults() {
	if o.QPS <= 0 {
		o.QPS = 20
	}
	if o.Burst <= 0 {
		o.Burst = 50
	}
}

// NewClientFromCredential constructs a Client from an access credential.
// Exec-based credentials become a client-go exec provider; otherwise the
// raw client cert/key pair is used.
func NewClientFromCredential(cred *model.AccessCredential, opts *Options) (*Client, error) {
	if cred == nil || cred.Endpoint == "" {
		return nil, fmt.Errorf("access credential has no endpoint")
	}
	cfg := &rest.Config{
		Host: cred.Endpoint,
		TLSClientConfig: rest.TLSClientConfig{
			CAData: cred.CACert,
		},
	}
	switch {
	case cred.Exec != nil:
		cfg.ExecProvider = &clientcmdapi.ExecConfig{
			Command:         cred.Exec.Command,
			Args:            cred.Exec.Args,
			APIVersion:      cred.Exec.APIVersion,
			InteractiveMode: clientcmdapi.NeverExecInteractiveMode,
		}
	case len(cred.ClientCert) > 0 && len(cred.ClientKey) > 0:
		cfg.TLSClientConfig.CertData = cred.ClientCert
		cfg.TLSClientConfig.KeyData = cred.ClientKey
	default:
		return nil, fmt.Errorf("access credential carries neither client keys nor an exec plugin")
	}
	return NewClientFromRESTConfig(cfg, opts)
}

// NewClientFromRESTConfig constructs a Client from an existing rest.Config.
func NewClientFromRESTConfig(cfg *rest.Config, opts *Options) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("REST config is nil")
	}
	if opts == nil {
		opts = &Options{}
	}
	opts.applyDefaults()

	cfg.QPS = opts.QPS
	cfg.Burst = opts.Burst
	if opts.UserAgent != "" {
		_ = rest.AddUserAgent(cfg, opts.UserAgent)
	}

	cs, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("build clientset: %w", err)
	}
	return &Client{RESTConfig: cfg, Clientset: cs}, nil
}
