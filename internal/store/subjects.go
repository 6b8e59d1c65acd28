package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/coder-alair/shoorah-insights/internal/cohort"
)

// dobLayout is the storage format for dates of birth.
const dobLayout = "2006-01-02"

// InsertSubject stores a subject. Dates of birth are kept date-only.
func (db *DB) InsertSubject(s cohort.Subject) error {
	dob := ""
	if !s.DateOfBirth.IsZero() {
		dob = s.DateOfBirth.Format(dobLayout)
	}
	_, err := db.conn.Exec(
		`INSERT INTO subjects
		(id, company_id, department, country, ethnicity, gender, date_of_birth, account_status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.CompanyID, s.Department, s.Country, s.Ethnicity, s.Gender, dob, s.AccountStatus,
	)
	return err
}

// AddMember records a subject's membership in a company on the org index.
// The membership index is deliberately separate from the subject's own
// company_id column; the cohort resolver unions both.
func (db *DB) AddMember(companyID, subjectID string) error {
	_, err := db.conn.Exec(
		"INSERT OR IGNORE INTO org_members (company_id, subject_id) VALUES (?, ?)",
		companyID, subjectID,
	)
	return err
}

// FindSubjects queries the direct user index.
func (db *DB) FindSubjects(ctx context.Context, q cohort.Query) ([]cohort.Subject, error) {
	where, args := subjectClauses("", q)
	query := "SELECT id, company_id, department, country, ethnicity, gender, date_of_birth, account_status FROM subjects"
	if q.CompanyID != "" {
		where = append([]string{"company_id = ?"}, where...)
		args = append([]any{q.CompanyID}, args...)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSubjects(rows)
}

// FindMembers queries the org-membership index, joining back to subjects for
// the demographic columns.
func (db *DB) FindMembers(ctx context.Context, q cohort.Query) ([]cohort.Subject, error) {
	where, args := subjectClauses("s.", q)
	query := `SELECT s.id, s.company_id, s.department, s.country, s.ethnicity, s.gender, s.date_of_birth, s.account_status
		FROM org_members m JOIN subjects s ON s.id = m.subject_id`
	if q.CompanyID != "" {
		where = append([]string{"m.company_id = ?"}, where...)
		args = append([]any{q.CompanyID}, args...)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSubjects(rows)
}

// ListSubjects returns every stored subject, for the CLI listing.
func (db *DB) ListSubjects(ctx context.Context) ([]cohort.Subject, error) {
	rows, err := db.conn.QueryContext(ctx,
		"SELECT id, company_id, department, country, ethnicity, gender, date_of_birth, account_status FROM subjects ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanSubjects(rows)
}

// subjectClauses builds the demographic WHERE fragments shared by both
// indexes. prefix qualifies column names for joined queries.
func subjectClauses(prefix string, q cohort.Query) ([]string, []any) {
	var where []string
	var args []any

	eq := func(col, val string) {
		if val != "" {
			where = append(where, prefix+col+" = ?")
			args = append(args, val)
		}
	}
	eq("department", q.Department)
	eq("country", q.Country)
	eq("ethnicity", q.Ethnicity)
	eq("gender", q.Gender)

	// Date-only comparison: the bounds arrive at start/end of day, so the
	// stored YYYY-MM-DD values compare inclusively as plain strings.
	if !q.BornAfter.IsZero() {
		where = append(where, prefix+"date_of_birth >= ?")
		args = append(args, q.BornAfter.Format(dobLayout))
	}
	if !q.BornBefore.IsZero() {
		where = append(where, prefix+"date_of_birth <= ?")
		args = append(args, q.BornBefore.Format(dobLayout))
	}

	return where, args
}

func scanSubjects(rows *sql.Rows) ([]cohort.Subject, error) {
	var out []cohort.Subject
	for rows.Next() {
		var s cohort.Subject
		var dob string
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.Department, &s.Country,
			&s.Ethnicity, &s.Gender, &dob, &s.AccountStatus); err != nil {
			return nil, err
		}
		if dob != "" {
			t, err := time.Parse(dobLayout, dob)
			if err == nil {
				s.DateOfBirth = t
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
