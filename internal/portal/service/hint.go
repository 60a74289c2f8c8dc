package service

import (
	"strings"
	"unicode"

	"github.com/silveracademy/familyportal/internal/portal/domain"
)

// StudentHint projects a student to the minimal identity shown on the
// public validation endpoint: first name, uppercased initial of the
// second name token, and grade name. The surname never appears, so a
// valid code confirms "J. S. in 1st Grade" and nothing more.
func StudentHint(s domain.Student) domain.StudentHint {
	hint := domain.StudentHint{GradeName: s.GradeName}

	fields := strings.Fields(s.Name)
	if len(fields) == 0 {
		return hint
	}
	hint.FirstName = fields[0]
	if len(fields) > 1 {
		r := []rune(fields[1])
		hint.LastInitial = string(unicode.ToUpper(r[0]))
	}
	return hint
}
