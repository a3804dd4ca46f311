package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/models"
)

func (s *Server) createEnrollment(c *fiber.Ctx) error {
	var req createEnrollmentRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	e, err := s.svc.EnrollStudent(c.UserContext(), req.StudentID, req.CourseID, req.CycleID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) listEnrollments(c *fiber.Ctx) error {
	cycleID, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	enrollments, err := s.svc.ActiveEnrollments(c.UserContext(), cycleID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(enrollments)
}

func (s *Server) createGradeEntry(c *fiber.Ctx) error {
	var req createGradeEntryRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	e, err := s.svc.CreateGradeEntry(c.UserContext(), models.GradeEntry{
		StudentID:  req.StudentID,
		SubjectID:  req.SubjectID,
		CategoryID: req.CategoryID,
		Value:      req.Value,
		Remarks:    req.Remarks,
		PeriodID:   req.PeriodID,
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (s *Server) setGradeValue(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	var req setGradeValueRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.SetGradeValue(c.UserContext(), id, req.Value, req.Remarks); err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// studentAverages reports the three aggregator granularities. Query params
// pick the scope: subject_id (+ optional period_id), period_id alone, or
// cycle_id.
func (s *Server) studentAverages(c *fiber.Ctx) error {
	studentID, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	ctx := c.UserContext()

	if v := c.Query("cycle_id"); v != "" {
		cycleID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s.respondErr(c, &academics.ValidationError{Reason: "cycle_id inválido"})
		}
		avg, err := s.svc.StudentCycleAverage(ctx, studentID, cycleID)
		if err != nil {
			if errors.Is(err, academics.ErrNoGradeData) {
				return c.JSON(fiber.Map{"scope": "cycle", "no_data": true})
			}
			return s.respondErr(c, err)
		}
		return c.JSON(fiber.Map{"scope": "cycle", "average": avg})
	}

	if v := c.Query("subject_id"); v != "" {
		subjectID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s.respondErr(c, &academics.ValidationError{Reason: "subject_id inválido"})
		}
		var periodID *int64
		if pv := c.Query("period_id"); pv != "" {
			p, err := strconv.ParseInt(pv, 10, 64)
			if err != nil {
				return s.respondErr(c, &academics.ValidationError{Reason: "period_id inválido"})
			}
			periodID = &p
		}
		agg, err := s.svc.SubjectAverage(ctx, studentID, subjectID, periodID)
		if err != nil {
			return s.respondErr(c, err)
		}
		return c.JSON(fiber.Map{"scope": "subject", "average": agg.Average, "count": agg.Count})
	}

	if v := c.Query("period_id"); v != "" {
		periodID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s.respondErr(c, &academics.ValidationError{Reason: "period_id inválido"})
		}
		agg, err := s.svc.PeriodAverage(ctx, studentID, periodID)
		if err != nil {
			return s.respondErr(c, err)
		}
		return c.JSON(fiber.Map{"scope": "period", "average": agg.Average, "count": agg.Count})
	}

	return s.respondErr(c, &academics.ValidationError{
		Reason: "indique cycle_id, subject_id o period_id",
	})
}
