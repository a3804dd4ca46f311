package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edusuite/colegio/internal/metrics"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Server) createPeriod(c *fiber.Ctx) error {
	cycleID, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	var req createPeriodRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	p := models.AcademicPeriod{
		CycleID:  cycleID,
		Sequence: req.Sequence,
		Name:     req.Name,
		LeadDays: req.LeadDays,
	}
	if p.StartDate, err = parseDate(req.StartDate); err != nil {
		return s.respondErr(c, err)
	}
	if p.EndDate, err = parseDate(req.EndDate); err != nil {
		return s.respondErr(c, err)
	}
	if p.GradeLockDate, err = parseDate(req.GradeLockDate); err != nil {
		return s.respondErr(c, err)
	}
	created, err := s.svc.CreatePeriod(c.UserContext(), p)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Server) listPeriods(c *fiber.Ctx) error {
	cycleID, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	periods, err := s.svc.Periods(c.UserContext(), cycleID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(periods)
}

func (s *Server) updatePeriod(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	var req updatePeriodRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	p := models.AcademicPeriod{ID: id, Name: req.Name, LeadDays: req.LeadDays}
	if p.StartDate, err = parseDate(req.StartDate); err != nil {
		return s.respondErr(c, err)
	}
	if p.EndDate, err = parseDate(req.EndDate); err != nil {
		return s.respondErr(c, err)
	}
	if p.GradeLockDate, err = parseDate(req.GradeLockDate); err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.UpdatePeriod(c.UserContext(), p); err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) deletePeriod(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.DeletePeriod(c.UserContext(), id); err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) closePeriod(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.ClosePeriod(c.UserContext(), id); err != nil {
		return s.respondErr(c, err)
	}
	metrics.PeriodsClosed.Inc()
	return c.SendStatus(fiber.StatusNoContent)
}
