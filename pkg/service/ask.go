package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/explainer"
	"github.com/theapemachine/cpf-explainer/pkg/metrics"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
)

type AskRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id,omitempty"`
}

type AskResponse struct {
	explainer.Outcome
	SessionID string `json:"session_id"`
}

/*
CycleEvent is what /events subscribers see for each answered question.
*/
type CycleEvent struct {
	CycleID   string            `json:"cycle_id"`
	SessionID string            `json:"session_id"`
	State     explainer.State   `json:"state"`
	Trail     []explainer.State `json:"trail"`
	Query     string            `json:"query,omitempty"`
}

func (srv *Server) handleAsk(ctx fiber.Ctx) error {
	var req AskRequest

	if err := json.Unmarshal(ctx.Body(), &req); err != nil {
		return writeError(ctx, errors.ErrInvalidRequest.WithMessagef("invalid body: %v", err))
	}

	if strings.TrimSpace(req.Question) == "" {
		return writeError(ctx, errors.ErrInvalidRequest.WithMessagef("question is required"))
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	var index explainer.TermIndex

	built, err := srv.sessions.GetOrCreate(ctx, req.SessionID, srv.sessionIndex)

	if err != nil {
		log.Warn("schema index unavailable", "session", req.SessionID, "error", err)
		index = explainer.UnavailableIndex{Err: err}
	} else {
		index = built
	}

	outcome, err := srv.explainer.ForIndex(index).Explain(ctx, req.Question)

	if err != nil {
		return writeError(ctx, errors.ErrInternal.WithMessagef("%v", err))
	}

	if err := srv.events.Broadcast(CycleEvent{
		CycleID:   outcome.CycleID,
		SessionID: req.SessionID,
		State:     outcome.State,
		Trail:     outcome.Trail,
		Query:     outcome.Query,
	}); err != nil {
		log.Warn("failed to broadcast cycle", "error", err)
	}

	return ctx.JSON(AskResponse{Outcome: outcome, SessionID: req.SessionID})
}

func (srv *Server) sessionIndex(ctx context.Context) (*schema.Index, error) {
	index, err := srv.buildIndex(ctx)

	if err != nil {
		return nil, err
	}

	for kind, count := range index.Counts() {
		metrics.SchemaTerms.WithLabelValues(kind.String()).Set(float64(count))
	}

	return index, nil
}
