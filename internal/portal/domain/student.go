package domain

import "time"

type Grade struct {
	ID   string
	Name string
}

// Student is the record a parent code grants linkage to. The code core
// only reads students; roster management lives in the wider portal.
type Student struct {
	ID        string
	Name      string
	GradeID   string
	GradeName string
	CreatedAt time.Time
}

// Parent is a guardian account that can be linked to students by
// redeeming codes.
type Parent struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// StudentHint is the minimal-disclosure projection returned by the public
// validate endpoint: enough to confirm "this code is for J. S. in 1st
// Grade" without revealing the student record or surname.
type StudentHint struct {
	FirstName   string `json:"first_name"`
	LastInitial string `json:"last_initial"`
	GradeName   string `json:"grade_name"`
}
