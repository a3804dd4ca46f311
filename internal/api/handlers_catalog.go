package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/edusuite/colegio/internal/models"
)

func (s *Server) createSite(c *fiber.Ctx) error {
	var req createSiteRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	id, err := s.store.CreateSite(c.UserContext(), req.Name)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) createCourse(c *fiber.Ctx) error {
	var req createCourseRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	id, err := s.store.CreateCourse(c.UserContext(), models.Course{
		SiteID:       req.SiteID,
		Name:         req.Name,
		GradeLevel:   req.GradeLevel,
		NextCourseID: req.NextCourseID,
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) setNextCourse(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	var req setNextCourseRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	if err := s.svc.SetNextCourse(c.UserContext(), id, req.NextCourseID); err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listCourses(c *fiber.Ctx) error {
	siteID, err := pathID(c, "id")
	if err != nil {
		return s.respondErr(c, err)
	}
	courses, err := s.store.CoursesBySite(c.UserContext(), siteID)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(courses)
}

func (s *Server) createSubject(c *fiber.Ctx) error {
	var req createSubjectRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	id, err := s.store.CreateSubject(c.UserContext(), models.Subject{
		CourseID: req.CourseID,
		Name:     req.Name,
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) createCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	id, err := s.store.CreateCategory(c.UserContext(), req.Name, req.Weight)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) listCategories(c *fiber.Ctx) error {
	categories, err := s.store.Categories(c.UserContext())
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.JSON(categories)
}

func (s *Server) upsertGradeConfig(c *fiber.Ctx) error {
	var req upsertGradeConfigRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	err := s.store.UpsertGradeConfig(c.UserContext(), models.GradeConfiguration{
		SubjectID:        req.SubjectID,
		MinScore:         req.MinScore,
		MaxScore:         req.MaxScore,
		PassingThreshold: req.PassingThreshold,
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	id, err := s.store.CreateUser(c.UserContext(), models.User{
		Name: req.Name,
		Role: models.Role(req.Role),
	})
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) recordAttendance(c *fiber.Ctx) error {
	var req recordAttendanceRequest
	if err := s.parseBody(c, &req); err != nil {
		return s.respondErr(c, err)
	}
	if _, err := parseDate(req.Day); err != nil {
		return s.respondErr(c, err)
	}
	err := s.store.RecordAttendance(c.UserContext(), req.StudentID, req.PeriodID, req.Day, *req.Present)
	if err != nil {
		return s.respondErr(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
