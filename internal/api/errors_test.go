package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/edusuite/colegio/internal/academics"
)

func newTestServer() *Server {
	return &Server{
		log:      zap.NewNop().Sugar(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		app:      fiber.New(fiber.Config{DisableStartupMessage: true}),
	}
}

func TestRespondErr(t *testing.T) {
	s := newTestServer()
	var retErr error
	s.app.Get("/boom", func(c *fiber.Ctx) error { return s.respondErr(c, retErr) })

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
		wantCount  int
	}{
		{"validation", &academics.ValidationError{Reason: "mal"}, fiber.StatusUnprocessableEntity, "validation", 0},
		{"precondition carries the blocking count",
			&academics.PreconditionError{Reason: "faltan", Count: 3}, fiber.StatusConflict, "precondition", 3},
		{"referential", &academics.ReferentialError{Reason: "en uso"}, fiber.StatusConflict, "referential", 0},
		{"not found wrapped", fmt.Errorf("ciclo: %w", academics.ErrNotFound), fiber.StatusNotFound, "not_found", 0},
		{"internal", errors.New("se cayó la base"), fiber.StatusInternalServerError, "internal", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			retErr = c.err
			resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer func() { _ = resp.Body.Close() }()
			if resp.StatusCode != c.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, c.wantStatus)
			}
			var body errorBody
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Kind != c.wantKind {
				t.Fatalf("kind = %q, want %q", body.Kind, c.wantKind)
			}
			if body.Count != c.wantCount {
				t.Fatalf("count = %d, want %d", body.Count, c.wantCount)
			}
		})
	}

	t.Run("internal errors hide the message", func(t *testing.T) {
		retErr = errors.New("password=hunter2")
		resp, err := s.app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		var body errorBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Error != "error interno" {
			t.Fatalf("error = %q, internals leaked", body.Error)
		}
	})
}

func TestParseDate(t *testing.T) {
	if _, err := parseDate("2026-01-20"); err != nil {
		t.Fatalf("parseDate: %v", err)
	}
	if _, err := parseDate("20/01/2026"); !academics.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestParseBodyValidates(t *testing.T) {
	s := newTestServer()
	s.app.Post("/cycles", func(c *fiber.Ctx) error {
		var req createCycleRequest
		if err := s.parseBody(c, &req); err != nil {
			return s.respondErr(c, err)
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	req := httptest.NewRequest(fiber.MethodPost, "/cycles",
		strings.NewReader(`{"name": "", "start_date": "2026-01-20"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := s.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != fiber.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}
