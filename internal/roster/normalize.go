package roster

import (
	"strings"

	"golang.org/x/text/cases"
)

// Header aliases for each canonical field. Keys are matched after
// normalization (lowercased, non-alphanumerics stripped), so "Student ID",
// "Student_Id " and "StudentId" all collapse to the same key.
var (
	nameAliases     = []string{"Name", "Full Name", "Student Name"}
	studentIDAlias  = []string{"Student_Id", "Student ID", "StudentId"}
	emailAliases    = []string{"Email_id", "Email id", "Email", "Email ID", "Email Address"}
	courseAliases   = []string{"Course", "Program", "Branch"}
	codeAliases     = []string{"Code", "Workshop", "Event", "Batch"}
	positionAliases = []string{"Position", "Role", "Designation"}
	memberIDAliases = []string{"Mgmt_Id", "Mgmt ID", "Management ID", "Student_Id", "Student ID"}
)

var foldCaser = cases.Fold()

// normalizeKey collapses a header name to a canonical comparison key.
func normalizeKey(key string) string {
	var b strings.Builder
	for _, ch := range foldCaser.String(strings.TrimSpace(key)) {
		if ch == '_' || ('a' <= ch && ch <= 'z') || ('0' <= ch && ch <= '9') {
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// getFirst returns the first non-empty value among the aliased columns.
func getFirst(row map[string]string, aliases []string) string {
	normalized := make(map[string]string, len(row))
	for k, v := range row {
		normalized[normalizeKey(k)] = v
	}
	for _, alias := range aliases {
		if v, ok := normalized[normalizeKey(alias)]; ok && v != "" {
			return v
		}
	}
	return ""
}

// normalizeName collapses internal whitespace and folds case for matching.
func normalizeName(value string) string {
	return foldCaser.String(strings.Join(strings.Fields(value), " "))
}

// normalizeID trims whitespace. IDs stay strings: leading zeros are
// significant.
func normalizeID(value string) string {
	return strings.TrimSpace(value)
}

// normalizeStudent maps a raw CSV row onto the canonical Student shape.
func normalizeStudent(row map[string]string) Student {
	return Student{
		Name:      strings.TrimSpace(getFirst(row, nameAliases)),
		StudentID: normalizeID(getFirst(row, studentIDAlias)),
		Email:     strings.TrimSpace(getFirst(row, emailAliases)),
		Course:    strings.TrimSpace(getFirst(row, courseAliases)),
		Code:      strings.TrimSpace(getFirst(row, codeAliases)),
	}
}

// normalizeMember maps a raw CSV row onto the canonical Member shape.
func normalizeMember(row map[string]string) Member {
	return Member{
		Name:     strings.TrimSpace(getFirst(row, nameAliases)),
		MemberID: normalizeID(getFirst(row, memberIDAliases)),
		Email:    strings.TrimSpace(getFirst(row, emailAliases)),
		Position: strings.TrimSpace(getFirst(row, positionAliases)),
	}
}
