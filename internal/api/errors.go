package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/ctxutil"
	"github.com/edusuite/colegio/internal/metrics"
	"github.com/edusuite/colegio/internal/observability"
)

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Count     int    `json:"count,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// respondErr maps the engine's error taxonomy onto HTTP statuses:
// validation 422, precondition/referential 409, not found 404, the rest 500.
func (s *Server) respondErr(c *fiber.Ctx, err error) error {
	rid, _ := ctxutil.RequestID(c.UserContext())
	body := errorBody{Error: err.Error(), RequestID: rid}

	var pe *academics.PreconditionError
	var verrs validator.ValidationErrors
	switch {
	case academics.IsValidation(err) || errors.As(err, &verrs):
		body.Kind = "validation"
		return c.Status(fiber.StatusUnprocessableEntity).JSON(body)
	case errors.As(err, &pe):
		body.Kind = "precondition"
		body.Count = pe.Count
		return c.Status(fiber.StatusConflict).JSON(body)
	case academics.IsReferential(err):
		body.Kind = "referential"
		return c.Status(fiber.StatusConflict).JSON(body)
	case errors.Is(err, academics.ErrNotFound):
		body.Kind = "not_found"
		return c.Status(fiber.StatusNotFound).JSON(body)
	default:
		metrics.HandlerErrors.Inc()
		observability.CaptureErr(err)
		s.log.Errorw("internal error", "err", err, "request_id", rid)
		body.Kind = "internal"
		body.Error = "error interno"
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

func (s *Server) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return &academics.ValidationError{Reason: "cuerpo de la petición inválido: " + err.Error()}
	}
	return s.validate.Struct(dst)
}

func pathID(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &academics.ValidationError{Reason: "identificador inválido"}
	}
	return int64(id), nil
}
