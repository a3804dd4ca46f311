package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edusuite/colegio/internal/metrics"
)

func (s *Server) createCycle(c *fiber.Ctx) error {
	var req createCycleRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return s.respondErr(c, err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return s.respondErr(c, err)
	}
	cycle, err := s.svc.CreateCycle(c.UserContext(), req.Name, start, end)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (s *Server) listCycles(c *fiber.Ctx) error {
	cycles, err := s.svc.Cycles(c.UserContext())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(cycles)
}

func (s *Server) getCycle(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	cycle, err := s.svc.Cycle(c.UserContext(), id)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(cycle)
}

func (s *Server) activateCycle(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.ActivateCycle(c.UserContext(), id); err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) finalizeCycle(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	summary, err := s.svc.FinalizeCycle(c.UserContext(), id)
	if err != nil {
		return s.respondErr(c, err)
	}
	metrics.PromotionOutcomes.WithLabelValues("promoted").Add(float64(summary.Promoted))
	metrics.PromotionOutcomes.WithLabelValues("repeats").Add(float64(summary.Repeats))
	metrics.PromotionOutcomes.WithLabelValues("graduated").Add(float64(summary.Graduated))
	return c.JSON(summary)
}
