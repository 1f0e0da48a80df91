package explainer

import (
	"context"

	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
)

/*
UnavailableIndex stands in for a schema index that could not be built, so a
question still reaches the web fallback instead of failing outright.
*/
type UnavailableIndex struct {
	Err error
}

func (index UnavailableIndex) FindClosest(context.Context, string, float64) (schema.Match, error) {
	return schema.Match{}, &errors.StoreExecutionError{Statement: "schema extraction", Cause: index.Err}
}
