package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/adapters/kube"
	"github.com/fleetform/fleetform/adapters/store/inmem"
	"github.com/fleetform/fleetform/config/fleetcfg"
	"github.com/fleetform/fleetform/domain/model"
)

// fakeDriver serves one target with canned provider responses.
type fakeDriver struct {
	id string

	// hang blocks ClusterCreate until the context is cancelled.
	hang bool
}

func (d *fakeDriver) ID() string { return d.id }

func (d *fakeDriver) ClusterCreate(ctx context.Context, spec *model.ClusterSpec) (*model.ClusterInfo, error) {
	if d.hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &model.ClusterInfo{Name: spec.Name, Location: spec.Location, Endpoint: "https://203.0.113.1", CACert: []byte("ca")}, nil
}

func (d *fakeDriver) NodePoolCreate(_ context.Context, _ *model.ClusterInfo, _ *model.NodePoolSpec) error {
	return nil
}

func (d *fakeDriver) ClusterAccess(_ context.Context, info *model.ClusterInfo) (*model.AccessCredential, error) {
	return &model.AccessCredential{Endpoint: info.Endpoint, CACert: info.CACert, ClientCert: []byte("c"), ClientKey: []byte("k")}, nil
}

func (d *fakeDriver) FileShareCreate(_ context.Context, spec *model.StorageSpec) (*model.FileShareInfo, error) {
	return &model.FileShareInfo{ServerAddress: "10.9.8.7", ExportPath: "/share1", CapacityGB: spec.CapacityGB}, nil
}

// ingressByTarget maps target names to the ingress their fake cloud reports.
func testUseCase(t *testing.T, ingressByTarget map[string]corev1.LoadBalancerIngress, hung map[string]bool) *UseCase {
	t.Helper()
	clients := map[string]*kube.Client{}
	for name, ing := range ingressByTarget {
		cs := fake.NewSimpleClientset()
		ing := ing
		cs.PrependReactor("create", "services", func(action k8stesting.Action) (bool, runtime.Object, error) {
			svc := action.(k8stesting.CreateAction).GetObject().(*corev1.Service)
			svc.Status.LoadBalancer.Ingress = []corev1.LoadBalancerIngress{ing}
			return false, nil, nil
		})
		clients[name] = &kube.Client{Clientset: cs}
	}
	return &UseCase{
		Endpoints: inmem.NewEndpointRepository(),
		NewDriver: func(p *model.Provider) (providerdrv.Driver, error) {
			return &fakeDriver{id: p.Driver, hang: hung[p.Name]}, nil
		},
		KubeClient: func(_ context.Context, _ *model.AccessCredential) (*kube.Client, error) {
			// Tests deploy to at most one cluster at a time.
			for _, c := range clients {
				return c, nil
			}
			return nil, errors.New("no client configured")
		},
	}
}

func testConfig(targets ...fleetcfg.Target) *fleetcfg.Root {
	return &fleetcfg.Root{
		Version: "v1",
		Defaults: fleetcfg.Defaults{
			Replicas: 3, CPURequest: "100m", CPULimit: "500m",
			MachineType: "e2-standard-2", MinNodes: 1, MaxNodes: 5,
			LivenessPath: "/healthz", ReadinessPath: "/ready",
		},
		Targets: targets,
	}
}

func testEnv() *fleetcfg.Env {
	return &fleetcfg.Env{
		ImageTag:      "latest",
		ContainerPort: 3000,
		StorageGB:     1024,
		WorkloadEnv:   map[string]string{"NODE_ENV": "production"},
	}
}

func TestBuildPlan(t *testing.T) {
	cfg := testConfig(fleetcfg.Target{Name: "gke", Driver: "gke", Location: "us-central1", StaticIP: "203.0.113.9"})
	plans, err := BuildPlan(cfg, testEnv())
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("plans = %d", len(plans))
	}
	p := plans[0]
	if !p.Cluster.RemoveDefaultNodePool {
		t.Error("default node pool must be removed")
	}
	if p.Cluster.NodePool.Name != "gke-pool" || p.Cluster.NodePool.MaxCount != 5 {
		t.Errorf("node pool = %+v", p.Cluster.NodePool)
	}
	if p.Storage.CapacityGB != 1024 || p.Storage.StorageClassName != model.StorageClassName {
		t.Errorf("storage = %+v", p.Storage)
	}
	if p.Deploy.Name != "gke-webapp" || p.Deploy.ContainerPort != 3000 {
		t.Errorf("deploy = %+v", p.Deploy)
	}
	if p.Service.Port != 80 || p.Service.TargetPort != 3000 || p.Service.StaticIP != "203.0.113.9" {
		t.Errorf("service = %+v", p.Service)
	}
	if p.Policy != nil {
		t.Errorf("policy = %+v, want nil without an autoscaling block", p.Policy)
	}
}

func TestBuildPlanAutoscaling(t *testing.T) {
	cfg := testConfig(fleetcfg.Target{Name: "gke", Driver: "gke", Location: "us-central1"})
	cfg.Defaults.Autoscaling = &fleetcfg.Autoscaling{TargetCPUUtilization: 60, MinReplicas: 2, MaxReplicas: 10}
	plans, err := BuildPlan(cfg, testEnv())
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	p := plans[0].Policy
	if p == nil || p.DeploymentName != "gke-webapp" || p.TargetCPUUtilization != 60 {
		t.Errorf("policy = %+v", p)
	}
}

func TestBuildPlanRejectsInvalidConfig(t *testing.T) {
	if _, err := BuildPlan(&fleetcfg.Root{}, testEnv()); err == nil {
		t.Fatal("expected error for empty target list")
	}
}

func TestUpSingleTargetEndToEnd(t *testing.T) {
	cfg := testConfig(fleetcfg.Target{Name: "gke", Driver: "gke", Location: "us-central1"})
	plans, err := BuildPlan(cfg, testEnv())
	if err != nil {
		t.Fatal(err)
	}
	u := testUseCase(t, map[string]corev1.LoadBalancerIngress{"gke": {IP: "10.0.0.5"}}, nil)

	out, err := u.Up(context.Background(), UpInput{Plans: plans})
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if len(out.URLs) != 1 {
		t.Fatalf("URLs = %+v", out.URLs)
	}
	if out.URLs[0].ClusterName != "gke" || out.URLs[0].URL != "http://10.0.0.5:80" {
		t.Errorf("url = %+v", out.URLs[0])
	}

	recorded, err := u.Endpoints.List(context.Background())
	if err != nil || len(recorded) != 1 {
		t.Fatalf("recorded = %v, %v", recorded, err)
	}
	if recorded[0].URL != "http://10.0.0.5:80" || recorded[0].RunID != out.RunID {
		t.Errorf("record = %+v", recorded[0])
	}
}

func TestUpCustomTargetUsesHostname(t *testing.T) {
	cfg := testConfig(fleetcfg.Target{Name: "onprem", Driver: "fake", Location: "dc-1"})
	plans, err := BuildPlan(cfg, testEnv())
	if err != nil {
		t.Fatal(err)
	}
	u := testUseCase(t, map[string]corev1.LoadBalancerIngress{"onprem": {Hostname: "lb.example.com"}}, nil)

	out, err := u.Up(context.Background(), UpInput{Plans: plans})
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if out.URLs[0].URL != "http://lb.example.com:80" {
		t.Errorf("url = %q", out.URLs[0].URL)
	}
}

func TestUpHungTargetDoesNotBlockOthers(t *testing.T) {
	cfg := testConfig(
		fleetcfg.Target{Name: "stuck", Driver: "fake", Location: "dc-1"},
		fleetcfg.Target{Name: "onprem", Driver: "fake", Location: "dc-2"},
	)
	plans, err := BuildPlan(cfg, testEnv())
	if err != nil {
		t.Fatal(err)
	}
	u := testUseCase(t,
		map[string]corev1.LoadBalancerIngress{"onprem": {Hostname: "lb.example.com"}},
		map[string]bool{"stuck": true},
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan model.AppURL, len(plans))
	done := make(chan struct{})
	var upErr error
	go func() {
		defer close(done)
		_, upErr = u.Up(ctx, UpInput{Plans: plans, Results: results})
	}()

	// The healthy target resolves while the stuck one is still hanging.
	select {
	case url := <-results:
		if url.ClusterName != "onprem" || url.URL != "http://lb.example.com:80" {
			t.Errorf("url = %+v", url)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("healthy target did not complete while the other hung")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Up did not return after cancellation")
	}
	if upErr == nil {
		t.Error("expected the hung target's cancellation error")
	}
}
