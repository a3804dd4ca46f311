package api

import (
	"time"

	"github.com/edusuite/colegio/internal/academics"
)

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &academics.ValidationError{Reason: "fecha inválida, use AAAA-MM-DD: " + s}
	}
	return t, nil
}

type createCycleRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type createPeriodRequest struct {
	Sequence      int    `json:"sequence" validate:"required,min=1"`
	Name          string `json:"name" validate:"required"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	GradeLockDate string `json:"grade_lock_date" validate:"required"`
	LeadDays      int    `json:"lead_days" validate:"min=0"`
}

type updatePeriodRequest struct {
	Name          string `json:"name" validate:"required"`
	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	GradeLockDate string `json:"grade_lock_date" validate:"required"`
	LeadDays      int    `json:"lead_days" validate:"min=0"`
}

type createEnrollmentRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
	CourseID  int64 `json:"course_id" validate:"required"`
	CycleID   int64 `json:"cycle_id" validate:"required"`
}

type createGradeEntryRequest struct {
	StudentID  int64    `json:"student_id" validate:"required"`
	SubjectID  int64    `json:"subject_id" validate:"required"`
	CategoryID int64    `json:"category_id" validate:"required"`
	Value      *float64 `json:"value"`
	Remarks    *string  `json:"remarks"`
	PeriodID   *int64   `json:"period_id"`
}

type setGradeValueRequest struct {
	Value   float64 `json:"value" validate:"min=0"`
	Remarks *string `json:"remarks"`
}

type createSiteRequest struct {
	Name string `json:"name" validate:"required"`
}

type createCourseRequest struct {
	SiteID       int64  `json:"site_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	GradeLevel   int    `json:"grade_level" validate:"required,min=1"`
	NextCourseID *int64 `json:"next_course_id"`
}

type setNextCourseRequest struct {
	NextCourseID *int64 `json:"next_course_id"`
}

type createSubjectRequest struct {
	CourseID int64  `json:"course_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type createCategoryRequest struct {
	Name   string  `json:"name" validate:"required"`
	Weight float64 `json:"weight" validate:"required,gt=0,lte=100"`
}

type upsertGradeConfigRequest struct {
	SubjectID        *int64  `json:"subject_id"`
	MinScore         float64 `json:"min_score" validate:"min=0"`
	MaxScore         float64 `json:"max_score" validate:"required,gtfield=MinScore"`
	PassingThreshold float64 `json:"passing_threshold" validate:"required"`
}

type createUserRequest struct {
	Name string `json:"name" validate:"required"`
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

type recordAttendanceRequest struct {
	StudentID int64  `json:"student_id" validate:"required"`
	PeriodID  int64  `json:"period_id" validate:"required"`
	Day       string `json:"day" validate:"required"`
	Present   *bool  `json:"present" validate:"required"`
}
