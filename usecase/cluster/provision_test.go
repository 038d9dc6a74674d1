package cluster

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
)

// fakeDriver records call order and serves canned results.
type fakeDriver struct {
	mu    sync.Mutex
	calls []string

	clusterErr error
	poolErr    error
	accessErr  error
}

func (d *fakeDriver) record(call string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, call)
}

func (d *fakeDriver) ID() string { return "fake" }

func (d *fakeDriver) ClusterCreate(_ context.Context, spec *model.ClusterSpec) (*model.ClusterInfo, error) {
	d.record("cluster")
	if d.clusterErr != nil {
		return nil, d.clusterErr
	}
	return &model.ClusterInfo{Name: spec.Name, Location: spec.Location, Endpoint: "https://203.0.113.1", CACert: []byte("ca")}, nil
}

func (d *fakeDriver) NodePoolCreate(_ context.Context, _ *model.ClusterInfo, _ *model.NodePoolSpec) error {
	d.record("nodepool")
	return d.poolErr
}

func (d *fakeDriver) ClusterAccess(_ context.Context, info *model.ClusterInfo) (*model.AccessCredential, error) {
	d.record("access")
	if d.accessErr != nil {
		return nil, d.accessErr
	}
	return &model.AccessCredential{
		Endpoint: info.Endpoint, CACert: info.CACert,
		ClientCert: []byte("cert"), ClientKey: []byte("key"),
	}, nil
}

func (d *fakeDriver) FileShareCreate(_ context.Context, _ *model.StorageSpec) (*model.FileShareInfo, error) {
	d.record("fileshare")
	return &model.FileShareInfo{}, nil
}

func testSpec() *model.ClusterSpec {
	return &model.ClusterSpec{
		Name: "edge-1", Provider: "fake", Location: "us-central1",
		RemoveDefaultNodePool: true,
		NodePool:              model.NodePoolSpec{Name: "edge-1-pool", MachineType: "e2-standard-2", MinCount: 1, MaxCount: 5},
	}
}

func TestProvisionOrdersClusterPoolAccess(t *testing.T) {
	drv := &fakeDriver{}
	g := graph.New("edge-1")
	handle := (&UseCase{Driver: drv}).Provision(g, ProvisionInput{Spec: testSpec()})

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"cluster", "nodepool", "access"}
	if len(drv.calls) != len(want) {
		t.Fatalf("calls = %v", drv.calls)
	}
	for i := range want {
		if drv.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", drv.calls, want)
		}
	}

	h, err := handle.Value(context.Background())
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if h.Name != "edge-1" || h.Credential == nil || h.Credential.Endpoint == "" {
		t.Errorf("handle = %+v", h)
	}
}

func TestProvisionAccessDependsOnNodePool(t *testing.T) {
	g := graph.New("edge-1")
	(&UseCase{Driver: &fakeDriver{}}).Provision(g, ProvisionInput{Spec: testSpec()})

	edges := map[graph.Edge]bool{}
	for _, e := range g.Edges() {
		edges[e] = true
	}
	if !edges[graph.Edge{From: "edge-1/access", To: "edge-1/nodepool"}] {
		t.Errorf("missing access -> nodepool edge; edges = %v", g.Edges())
	}
	if edges[graph.Edge{From: "edge-1/access", To: "edge-1/cluster"}] {
		t.Errorf("access must not depend on the cluster directly; edges = %v", g.Edges())
	}
}

func TestProvisionClusterFailureSkipsDependents(t *testing.T) {
	boom := errors.New("quota exceeded")
	drv := &fakeDriver{clusterErr: boom}
	g := graph.New("edge-1")
	handle := (&UseCase{Driver: drv}).Provision(g, ProvisionInput{Spec: testSpec()})

	err := g.Run(context.Background())
	if err == nil {
		t.Fatal("expected run error")
	}
	var provErr *model.ProvisioningError
	if !errors.As(err, &provErr) || !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if len(drv.calls) != 1 {
		t.Errorf("calls = %v, want only the cluster create", drv.calls)
	}
	if _, err := handle.Value(context.Background()); !errors.Is(err, graph.ErrSkipped) {
		t.Errorf("handle err = %v, want skipped", err)
	}
}
