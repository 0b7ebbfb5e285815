package store

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS academic_years (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	year INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS semesters (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS grades (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subjects (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS score_types (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS rooms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	grade_id INTEGER NOT NULL,
	room_no INTEGER NOT NULL,
	UNIQUE (grade_id, room_no)
);

CREATE TABLE IF NOT EXISTS score_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	max_score REAL NOT NULL,
	type_id INTEGER NOT NULL,
	grade_id INTEGER NOT NULL,
	subject_id INTEGER NOT NULL,
	academic_year_id INTEGER NOT NULL,
	semester_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS score_items_scope_idx
	ON score_items (grade_id, subject_id, academic_year_id, semester_id);

CREATE TABLE IF NOT EXISTS students (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	grade_id INTEGER NOT NULL,
	room_id INTEGER NOT NULL,
	academic_year_id INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS students_room_idx
	ON students (grade_id, room_id, academic_year_id);

CREATE TABLE IF NOT EXISTS scores (
	student_id INTEGER NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	score_item_id INTEGER NOT NULL REFERENCES score_items(id) ON DELETE CASCADE,
	score REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (student_id, score_item_id)
);

CREATE TABLE IF NOT EXISTS grade_ranges (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	grade_id INTEGER NOT NULL,
	subject_id INTEGER NOT NULL,
	academic_year_id INTEGER NOT NULL,
	semester_id INTEGER NOT NULL,
	grade_label TEXT NOT NULL,
	min_score REAL NOT NULL,
	UNIQUE (grade_id, subject_id, academic_year_id, semester_id, grade_label)
);

CREATE TABLE IF NOT EXISTS grading_policies (
	grade_id INTEGER NOT NULL,
	subject_id INTEGER NOT NULL,
	academic_year_id INTEGER NOT NULL,
	semester_id INTEGER NOT NULL,
	policy TEXT NOT NULL,
	PRIMARY KEY (grade_id, subject_id, academic_year_id, semester_id)
);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	hash TEXT NOT NULL
);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS academic_years (
	id BIGSERIAL PRIMARY KEY,
	year INTEGER NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS semesters (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS grades (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subjects (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS score_types (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS rooms (
	id BIGSERIAL PRIMARY KEY,
	grade_id BIGINT NOT NULL,
	room_no INTEGER NOT NULL,
	UNIQUE (grade_id, room_no)
);

CREATE TABLE IF NOT EXISTS score_items (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	max_score DOUBLE PRECISION NOT NULL,
	type_id BIGINT NOT NULL,
	grade_id BIGINT NOT NULL,
	subject_id BIGINT NOT NULL,
	academic_year_id BIGINT NOT NULL,
	semester_id BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS score_items_scope_idx
	ON score_items (grade_id, subject_id, academic_year_id, semester_id);

CREATE TABLE IF NOT EXISTS students (
	id BIGSERIAL PRIMARY KEY,
	code TEXT NOT NULL,
	name TEXT NOT NULL,
	grade_id BIGINT NOT NULL,
	room_id BIGINT NOT NULL,
	academic_year_id BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS students_room_idx
	ON students (grade_id, room_id, academic_year_id);

CREATE TABLE IF NOT EXISTS scores (
	student_id BIGINT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
	score_item_id BIGINT NOT NULL REFERENCES score_items(id) ON DELETE CASCADE,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (student_id, score_item_id)
);

CREATE TABLE IF NOT EXISTS grade_ranges (
	id BIGSERIAL PRIMARY KEY,
	grade_id BIGINT NOT NULL,
	subject_id BIGINT NOT NULL,
	academic_year_id BIGINT NOT NULL,
	semester_id BIGINT NOT NULL,
	grade_label TEXT NOT NULL,
	min_score DOUBLE PRECISION NOT NULL,
	UNIQUE (grade_id, subject_id, academic_year_id, semester_id, grade_label)
);

CREATE TABLE IF NOT EXISTS grading_policies (
	grade_id BIGINT NOT NULL,
	subject_id BIGINT NOT NULL,
	academic_year_id BIGINT NOT NULL,
	semester_id BIGINT NOT NULL,
	policy TEXT NOT NULL,
	PRIMARY KEY (grade_id, subject_id, academic_year_id, semester_id)
);

CREATE TABLE IF NOT EXISTS imported_files (
	path TEXT PRIMARY KEY,
	hash TEXT NOT NULL
);
`
