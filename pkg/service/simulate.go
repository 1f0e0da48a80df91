package service

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/simulator"
)

type SimulateResponse struct {
	Plan         simulator.Plan                  `json:"plan"`
	Projection   []simulator.Point               `json:"projection"`
	DepletionAge int                             `json:"depletion_age,omitempty"`
	Comparison   map[string]simulator.Comparison `json:"comparison,omitempty"`
}

/*
handleSimulate fills any field missing from the body with the default
profile's value before validating.
*/
func (srv *Server) handleSimulate(ctx fiber.Ctx) error {
	profile := simulator.DefaultProfile()

	if len(ctx.Body()) > 0 {
		if err := json.Unmarshal(ctx.Body(), &profile); err != nil {
			return writeError(ctx, errors.ErrInvalidRequest.WithMessagef("invalid body: %v", err))
		}
	}

	if err := profile.Validate(); err != nil {
		return writeError(ctx, errors.ErrInvalidRequest.WithMessagef("%v", err))
	}

	plan := simulator.Sustainability(profile)
	projection := simulator.Project(profile, plan)

	resp := SimulateResponse{
		Plan:         plan,
		Projection:   projection,
		DepletionAge: simulator.Depletion(projection),
	}

	if srv.expenditure != nil {
		resp.Comparison = simulator.Compare(profile, srv.expenditure)
	}

	return ctx.JSON(resp)
}
