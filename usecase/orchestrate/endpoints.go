package orchestrate

import (
	"context"
	"fmt"

	"github.com/fleetform/fleetform/domain/model"
)

// ListEndpoints returns every recorded endpoint, oldest first.
func (u *UseCase) ListEndpoints(ctx context.Context) ([]*model.EndpointRecord, error) {
	if u.Endpoints == nil {
		return nil, fmt.Errorf("no endpoint store configured")
	}
	return u.Endpoints.List(ctx)
}
