package models

// Site is a school campus. Courses belong to exactly one site.
type Site struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Course is one grade-level group ("9A", "11B") within a site.
// NextCourseID is the explicit promotion target set by an administrator;
// nil marks a terminal grade whose promoted students graduate.
type Course struct {
	ID           int64  `db:"id"`
	SiteID       int64  `db:"site_id"`
	Name         string `db:"name"`
	GradeLevel   int    `db:"grade_level"`
	NextCourseID *int64 `db:"next_course_id"`
}

// Subject is a teachable unit inside a course.
type Subject struct {
	ID       int64  `db:"id"`
	CourseID int64  `db:"course_id"`
	Name     string `db:"name"`
}
