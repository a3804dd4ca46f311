package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
	"github.com/edusuite/colegio/internal/db"
)

// Server is the JSON admin surface over the academic engine. Everything that
// scopes a request (cycle, course, subject) travels as an explicit
// parameter; there is no ambient "selected course" state.
type Server struct {
	log      *zap.SugaredLogger
	svc      *academics.Service
	store    *db.Store
	validate *validator.Validate
	app      *fiber.App
}

func New(log *zap.SugaredLogger, svc *academics.Service, store *db.Store) *Server {
	s := &Server{
		log:      log,
		svc:      svc,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		app: fiber.New(fiber.Config{
			AppName:               "colegio",
			DisableStartupMessage: true,
		}),
	}
	s.app.Use(s.requestID())
	s.app.Use(s.logRequests())
	s.routes()
	return s
}

func (s *Server) routes() {
	v1 := s.app.Group("/api/v1")

	v1.Post("/cycles", s.createCycle)
	v1.Get("/cycles", s.listCycles)
	v1.Get("/cycles/:id", s.getCycle)
	v1.Post("/cycles/:id/activate", s.activateCycle)
	v1.Post("/cycles/:id/finalize", s.finalizeCycle)

	v1.Post("/cycles/:id/periods", s.createPeriod)
	v1.Get("/cycles/:id/periods", s.listPeriods)
	v1.Put("/periods/:id", s.updatePeriod)
	v1.Delete("/periods/:id", s.deletePeriod)
	v1.Post("/periods/:id/close", s.closePeriod)

	v1.Post("/enrollments", s.createEnrollment)
	v1.Get("/cycles/:id/enrollments", s.listEnrollments)

	v1.Post("/grades", s.createGradeEntry)
	v1.Put("/grades/:id/value", s.setGradeValue)
	v1.Get("/students/:id/averages", s.studentAverages)

	v1.Post("/sites", s.createSite)
	v1.Post("/courses", s.createCourse)
	v1.Put("/courses/:id/next", s.setNextCourse)
	v1.Get("/sites/:id/courses", s.listCourses)
	v1.Post("/subjects", s.createSubject)
	v1.Post("/categories", s.createCategory)
	v1.Get("/categories", s.listCategories)
	v1.Put("/grade-config", s.upsertGradeConfig)
	v1.Post("/users", s.createUser)
	v1.Post("/attendance", s.recordAttendance)
}

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) Shutdown() error { return s.app.Shutdown() }
