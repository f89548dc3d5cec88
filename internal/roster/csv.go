package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/litclass/litclass-lms/internal/session"
)

// DefaultImportPassword is assigned when the roster sheet leaves the
// password column blank.
const DefaultImportPassword = "123"

// ImportedStudent is one row of the roster CSV
// (username,password,name,parentName,phone).
type ImportedStudent struct {
	Username   string
	Password   string
	Name       string
	ParentName string
	Phone      string
}

// ParseCSV reads a roster export. The first row is a header and is
// skipped; rows without a username or name are skipped too (blank padding
// rows are common in spreadsheet exports). Short rows are tolerated.
func ParseCSV(r io.Reader) ([]ImportedStudent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []ImportedStudent
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster csv: %w", err)
		}
		if first {
			first = false
			continue
		}
		get := func(i int) string {
			if i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		s := ImportedStudent{
			Username:   get(0),
			Password:   get(1),
			Name:       get(2),
			ParentName: get(3),
			Phone:      get(4),
		}
		if s.Username == "" || s.Name == "" {
			continue
		}
		if s.Password == "" {
			s.Password = DefaultImportPassword
		}
		out = append(out, s)
	}
	return out, nil
}

// Account converts an imported row to a new (unpersisted) account. The
// empty id routes the save to students.add.
func (s ImportedStudent) Account() *StudentAccount {
	return &StudentAccount{
		User: session.User{
			Username: s.Username,
			Name:     s.Name,
			Role:     session.RoleStudent,
		},
		Password:   s.Password,
		ParentName: s.ParentName,
		Phone:      s.Phone,
	}
}

// WriteCSV exports the roster back out in the import column layout.
// Passwords are not exported; the column is left blank.
func WriteCSV(w io.Writer, students []*StudentAccount) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"username", "password", "name", "parentName", "phone"}); err != nil {
		return err
	}
	for _, s := range students {
		if s == nil {
			continue
		}
		if err := cw.Write([]string{s.Username, "", s.Name, s.ParentName, s.Phone}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
