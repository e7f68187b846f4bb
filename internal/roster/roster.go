// Package roster reads student and management rosters from CSV exports and
// resolves certificate IDs. CSVs typically come out of spreadsheet/Forms
// exports, so header names vary and files may carry a BOM; both are
// tolerated.
package roster

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/space-cow-boy/certificate-distribution-platform/internal/errors"
)

// Student is one row of the student roster in canonical form.
type Student struct {
	Name      string `json:"name"`
	StudentID string `json:"student_id"`
	Email     string `json:"email"`
	Course    string `json:"course"`
	Code      string `json:"code"`
}

// Member is one row of the management roster in canonical form.
type Member struct {
	Name     string `json:"name"`
	MemberID string `json:"mgmt_id"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

// Roster provides lookups over the student and management CSVs. Files are
// re-read on every call: rosters are small and edits must take effect without
// a restart.
type Roster struct {
	studentCSV    string
	managementCSV string
	idPrefix      string
}

// New creates a Roster over the given CSV paths. idPrefix is the certificate
// ID prefix (default "CERT" upstream in config).
func New(studentCSV, managementCSV, idPrefix string) *Roster {
	return &Roster{
		studentCSV:    studentCSV,
		managementCSV: managementCSV,
		idPrefix:      idPrefix,
	}
}

// StudentCSVPath returns the resolved student roster path, falling back to
// the historical locations (students.csv, data/students.csv relative to the
// configured file) when the configured path does not exist.
func (r *Roster) StudentCSVPath() string {
	if _, err := os.Stat(r.studentCSV); err == nil {
		return r.studentCSV
	}
	base := filepath.Dir(r.studentCSV)
	for _, candidate := range []string{
		filepath.Join(base, "students.csv"),
		filepath.Join(base, "data", "students.csv"),
	} {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return r.studentCSV
}

// Students reads the full student roster.
func (r *Roster) Students() ([]Student, error) {
	path := r.StudentCSVPath()
	rows, err := readCSV(path)
	if err != nil {
		return nil, errors.RosterUnavailable(path, err)
	}

	students := make([]Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, normalizeStudent(row))
	}
	return students, nil
}

// Management reads the full management roster.
func (r *Roster) Management() ([]Member, error) {
	rows, err := readCSV(r.managementCSV)
	if err != nil {
		return nil, errors.RosterUnavailable(r.managementCSV, err)
	}

	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, normalizeMember(row))
	}
	return members, nil
}

// FindStudent looks a student up by name and ID. Both sides are normalized
// before comparison (case-insensitive, whitespace-collapsed names; trimmed
// IDs). A miss returns a not-found error; an unreadable CSV propagates as a
// roster error.
func (r *Roster) FindStudent(name, studentID string) (*Student, error) {
	students, err := r.Students()
	if err != nil {
		return nil, err
	}

	wantName := normalizeName(name)
	wantID := normalizeID(studentID)

	for i := range students {
		if normalizeName(students[i].Name) == wantName && normalizeID(students[i].StudentID) == wantID {
			return &students[i], nil
		}
	}
	return nil, errors.StudentNotFound(name, studentID)
}

// FindMember looks a management member up by name and ID.
func (r *Roster) FindMember(name, memberID string) (*Member, error) {
	members, err := r.Management()
	if err != nil {
		return nil, err
	}

	wantName := normalizeName(name)
	wantID := normalizeID(memberID)

	for i := range members {
		if normalizeName(members[i].Name) == wantName && normalizeID(members[i].MemberID) == wantID {
			return &members[i], nil
		}
	}
	return nil, errors.MemberNotFound(name, memberID)
}

// CertificateID returns the certificate ID for a student ID: {prefix}-{id}.
func (r *Roster) CertificateID(studentID string) string {
	return fmt.Sprintf("%s-%s", r.idPrefix, normalizeID(studentID))
}

// ManagementCertificateID returns the certificate ID for a management member:
// {prefix}-MGMT-{id}.
func (r *Roster) ManagementCertificateID(memberID string) string {
	return fmt.Sprintf("%s-MGMT-%s", r.idPrefix, normalizeID(memberID))
}

// Validate checks that the student roster is readable, non-empty, and carries
// the required columns (Name and a student ID under any recognized alias).
func (r *Roster) Validate() error {
	students, err := r.Students()
	if err != nil {
		return err
	}
	if len(students) == 0 {
		return errors.New(errors.CategoryRoster, errors.SeverityError, "student roster is empty").
			WithContext("path", r.StudentCSVPath())
	}
	for i, s := range students {
		if s.Name == "" || s.StudentID == "" {
			return errors.New(errors.CategoryRoster, errors.SeverityError, "student roster is missing required columns").
				WithContext("path", r.StudentCSVPath()).
				WithContext("row", i+1)
		}
	}
	return nil
}
