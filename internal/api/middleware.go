package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/metrics"
)

const headerRequestID = "X-Request-Id"

// requestID assigns a request id (or honors the caller's) and threads it
// through the request context.
func (s *Server) requestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.SetUserContext(ctxutil.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

func (s *Server) logRequests() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		route := c.Route().Path
		metrics.APIRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		rid, _ := ctxutil.RequestID(c.UserContext())
		s.log.Infow("request",
			"method", c.Method(),
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", rid,
		)
		return err
	}
}
