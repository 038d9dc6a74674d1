package orchestrate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	providerdrv "github.com/fleetform/fleetform/adapters/drivers/provider"
	"github.com/fleetform/fleetform/domain/model"
	"github.com/fleetform/fleetform/internal/graph"
	"github.com/fleetform/fleetform/internal/logging"
	ucapp "github.com/fleetform/fleetform/usecase/app"
	ucautoscaling "github.com/fleetform/fleetform/usecase/autoscaling"
	uccluster "github.com/fleetform/fleetform/usecase/cluster"
	ucstorage "github.com/fleetform/fleetform/usecase/storage"
)

// UpInput represents a command to provision and deploy every target.
type UpInput struct {
	// RunID groups the run's endpoint records; generated when empty.
	RunID string

	Plans []TargetPlan

	// Results receives each AppURL as its target completes, when non-nil.
	// The channel is not closed by Up.
	Results chan<- model.AppURL
}

// UpOutput carries the resolved endpoints of a run.
type UpOutput struct {
	RunID string

	// URLs is ordered by completion of each target's subgraph, not by the
	// declared target order.
	URLs []model.AppURL
}

// Up runs every target plan as an independent subgraph and waits for all of
// them to settle. A failed target contributes an error without stopping the
// others; Up returns the joined errors alongside the successful URLs.
func (u *UseCase) Up(ctx context.Context, in UpInput) (*UpOutput, error) {
	runID := in.RunID
	if runID == "" {
		runID = "run-" + uuid.NewString()
	}
	log := logging.FromContext(ctx).With("runId", runID)
	ctx = logging.WithLogger(ctx, log)

	// Driver resolution is startup validation: a misconfigured target aborts
	// the run before any provider call is made.
	drivers := make([]providerdrv.Driver, len(in.Plans))
	for i := range in.Plans {
		drv, err := u.newDriver(&in.Plans[i].Target.Provider)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", in.Plans[i].Target.Name, err)
		}
		drivers[i] = drv
	}

	out := &UpOutput{RunID: runID}
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)

	for i := range in.Plans {
		plan := &in.Plans[i]
		drv := drivers[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, err := u.runTarget(ctx, plan, drv, runID)
			mu.Lock()
			if err != nil {
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			out.URLs = append(out.URLs, url)
			mu.Unlock()
			if in.Results != nil {
				in.Results <- url
			}
		}()
	}
	wg.Wait()

	return out, errors.Join(errs...)
}

// runTarget builds and runs one target's subgraph.
func (u *UseCase) runTarget(ctx context.Context, plan *TargetPlan, drv providerdrv.Driver, runID string) (model.AppURL, error) {
	name := plan.Target.Name
	ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With("target", name))

	g := graph.New(name)
	access := (&uccluster.UseCase{Driver: drv}).Provision(g, uccluster.ProvisionInput{Spec: &plan.Cluster})
	claim := (&ucstorage.UseCase{Driver: drv, KubeClient: ucstorage.KubeClientFunc(u.KubeClient)}).Provision(g, ucstorage.ProvisionInput{
		TargetName: name,
		Spec:       &plan.Storage,
		Access:     access,
	})
	url := (&ucapp.UseCase{KubeClient: ucapp.KubeClientFunc(u.KubeClient)}).Deploy(g, ucapp.DeployInput{
		TargetName: name,
		Deployment: &plan.Deploy,
		Service:    &plan.Service,
		Access:     access,
		Claim:      claim,
	})
	if plan.Policy != nil {
		(&ucautoscaling.UseCase{KubeClient: ucautoscaling.KubeClientFunc(u.KubeClient)}).Bind(g, ucautoscaling.BindInput{
			TargetName: name,
			Policy:     plan.Policy,
			Access:     access,
			Workload:   url,
		})
	}

	if err := g.Run(ctx); err != nil {
		return model.AppURL{}, err
	}
	resolved, err := url.Value(ctx)
	if err != nil {
		return model.AppURL{}, err
	}

	if u.Endpoints != nil {
		rec := &model.EndpointRecord{RunID: runID, ClusterName: resolved.ClusterName, URL: resolved.URL}
		if err := u.Endpoints.Create(ctx, rec); err != nil {
			logging.FromContext(ctx).Error(ctx, "failed to record endpoint", "error", err)
		}
	}
	return resolved, nil
}
