package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/i474232898/morning-briefing/internal/briefing"
	"github.com/i474232898/morning-briefing/internal/common"
	"github.com/i474232898/morning-briefing/internal/store"
)

var validate = validator.New()

const defaultRunsLimit = 10

// Briefer is the part of the briefing service exposed over HTTP.
type Briefer interface {
	Preview(ctx context.Context) (briefing.Composition, error)
	Run(ctx context.Context) (briefing.RunRecord, error)
}

// RunLister reads the run log.
type RunLister interface {
	Latest() (briefing.RunRecord, error)
	Recent(n int) []briefing.RunRecord
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. Manual runs are
// bounded by runTimeout; gatherer may be nil to skip /metrics.
func RegisterRoutes(app *fiber.App, svc Briefer, runs RunLister, gatherer prometheus.Gatherer, runTimeout time.Duration) {
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	v1 := app.Group("/api/v1")

	v1.Get("/briefing/preview", func(c *fiber.Ctx) error {
		comp, err := svc.Preview(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to compose briefing")
		}
		return c.JSON(comp)
	})

	v1.Post("/briefing/run", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if runTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, runTimeout)
			defer cancel()
		}

		rec, err := svc.Run(ctx)
		if err != nil {
			code := fiber.StatusInternalServerError
			switch {
			case errors.Is(err, common.ErrDeliveryFailed):
				code = fiber.StatusBadGateway
			case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
				code = fiber.StatusServiceUnavailable
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
				"run":     rec,
			})
		}
		return c.JSON(rec)
	})

	v1.Get("/runs", func(c *fiber.Ctx) error {
		var q runsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		return c.JSON(fiber.Map{
			"limit": q.Limit,
			"runs":  runs.Recent(q.Limit),
		})
	})

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		rec, err := runs.Latest()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no briefing runs recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read run log")
		}
		return c.JSON(rec)
	})
}

// ErrorHandler renders every error as a JSON body.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// runsQuery holds query parameters for the run log endpoint.
type runsQuery struct {
	Limit int `validate:"min=1,max=100"`
}

func (q *runsQuery) bind(c *fiber.Ctx) error {
	q.Limit = defaultRunsLimit
	raw := c.Query("limit")
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("limit must be an integer")
	}
	q.Limit = n
	return nil
}
