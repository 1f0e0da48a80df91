// Package service exposes the explainer and the simulator over HTTP.
package service

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
	fiberadaptor "github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/theapemachine/cpf-explainer/pkg/errors"
	"github.com/theapemachine/cpf-explainer/pkg/explainer"
	"github.com/theapemachine/cpf-explainer/pkg/metrics"
	"github.com/theapemachine/cpf-explainer/pkg/schema"
	"github.com/theapemachine/cpf-explainer/pkg/service/sse"
	"github.com/theapemachine/cpf-explainer/pkg/simulator"
	"github.com/theapemachine/cpf-explainer/pkg/stores"
)

/*
IndexBuilder creates a ready-to-query schema index for a new session.
*/
type IndexBuilder func(ctx context.Context) (*schema.Index, error)

/*
Server is safe for concurrent use: each session gets its own schema index and
the explainer itself holds no per-question state.
*/
type Server struct {
	app         *fiber.App
	explainer   *explainer.Explainer
	sessions    *stores.InMemorySessionStore[*schema.Index]
	events      *sse.Broker
	buildIndex  IndexBuilder
	expenditure simulator.ExpenditureTable
	addr        string
}

type ServerOption func(*Server)

func NewServer(base *explainer.Explainer, buildIndex IndexBuilder, options ...ServerOption) *Server {
	srv := &Server{
		app: fiber.New(fiber.Config{
			AppName:      "cpf-explainer",
			ServerHeader: "CPF-Explainer",
		}),
		explainer:  base,
		sessions:   stores.NewInMemorySessionStore[*schema.Index](24 * time.Hour),
		events:     sse.NewBroker(),
		buildIndex: buildIndex,
		addr:       ":3210",
	}

	for _, option := range options {
		option(srv)
	}

	srv.routes()

	return srv
}

func WithAddr(host string, port int) ServerOption {
	return func(srv *Server) {
		srv.addr = fmt.Sprintf("%s:%d", host, port)
	}
}

/*
WithExpenditure enables household spending comparison on /simulate.
*/
func WithExpenditure(table simulator.ExpenditureTable) ServerOption {
	return func(srv *Server) {
		srv.expenditure = table
	}
}

func WithSessionTTL(ttl time.Duration) ServerOption {
	return func(srv *Server) {
		srv.sessions = stores.NewInMemorySessionStore[*schema.Index](ttl)
	}
}

func (srv *Server) routes() {
	srv.app.Use(logger.New(logger.Config{
		Next: func(c fiber.Ctx) bool {
			return c.Path() == "/metrics" || c.Path() == "/events"
		},
	}), srv.countRequests)
	srv.app.Get("/", srv.handleRoot)
	srv.app.Get("/livez", healthcheck.New())
	srv.app.Get("/metrics", fiberadaptor.HTTPHandler(promhttp.Handler()))
	srv.app.Get("/events", srv.handleEvents)
	srv.app.Post("/ask", srv.handleAsk)
	srv.app.Post("/simulate", srv.handleSimulate)
}

/*
Start serves until Shutdown is called or ctx is done. Expired sessions are
swept hourly while it runs.
*/
func (srv *Server) Start(ctx context.Context) error {
	go srv.sessions.RunCleanup(ctx, time.Hour)

	go func() {
		<-ctx.Done()
		srv.events.Close()

		if err := srv.app.Shutdown(); err != nil {
			log.Error("failed to shut down", "error", err)
		}
	}()

	log.Info("listening", "addr", srv.addr)

	return srv.app.Listen(srv.addr, fiber.ListenConfig{DisableStartupMessage: true})
}

/*
App exposes the fiber app, mainly for tests.
*/
func (srv *Server) App() *fiber.App {
	return srv.app
}

func (srv *Server) handleRoot(ctx fiber.Ctx) error {
	return ctx.SendString("OK")
}

/*
handleEvents streams a summary of every finished query cycle.
*/
func (srv *Server) handleEvents(ctx fiber.Ctx) error {
	ctx.Set("Content-Type", "text/event-stream")
	ctx.Set("Cache-Control", "no-cache")
	ctx.Set("Connection", "keep-alive")

	streamCtx := ctx

	return ctx.SendStreamWriter(func(w *bufio.Writer) {
		srv.events.Stream(streamCtx, w)
	})
}

func (srv *Server) countRequests(ctx fiber.Ctx) error {
	err := ctx.Next()

	metrics.HTTPRequestsTotal.WithLabelValues(
		ctx.Method(), ctx.Route().Path, strconv.Itoa(ctx.Response().StatusCode()),
	).Inc()

	return err
}

func writeError(ctx fiber.Ctx, apiErr *errors.APIError) error {
	return ctx.Status(apiErr.Code).JSON(apiErr)
}
