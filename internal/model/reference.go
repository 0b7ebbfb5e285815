package model

// AcademicYear is a school year, e.g. 2567.
type AcademicYear struct {
	ID   int64 `json:"id" db:"id"`
	Year int   `json:"year" db:"year"`
}

// Semester is a term within an academic year.
type Semester struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// GradeLevel is a school grade (class level), distinct from a grade label.
type GradeLevel struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Subject is a taught subject.
type Subject struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// ScoreType classifies score items (homework, midterm, final, ...).
type ScoreType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Meta bundles all reference data for clients building selection forms.
type Meta struct {
	Years      []AcademicYear `json:"years"`
	Semesters  []Semester     `json:"semesters"`
	Grades     []GradeLevel   `json:"grades"`
	Subjects   []Subject      `json:"subjects"`
	ScoreTypes []ScoreType    `json:"score_types"`
}

// ReferenceImport is the JSON layout of a reference-data seed file.
type ReferenceImport struct {
	Years      []int    `json:"years"`
	Semesters  []string `json:"semesters"`
	Grades     []string `json:"grades"`
	Subjects   []string `json:"subjects"`
	ScoreTypes []string `json:"score_types"`
}
