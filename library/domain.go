package library

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type Author struct {
	ID         int64
	FirstName  string
	LastName   string
	BirthDate  Date
	BirthPlace string

	Books []Book
}

// FullName is the first and last name separated by a space.
func (a Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type Book struct {
	ID          int64
	Title       string
	Category    Category
	Pages       int
	ReleaseDate Date

	Authors []Author
}

// Date is a calendar day in UTC, stored as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts a plain date as well as the timestamp forms drivers hand back.
func ParseDate(s string) (Date, error) {
	for _, layout := range []string{time.DateOnly, time.DateTime, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return Date{}, fmt.Errorf("parsing date %q", s)
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	var err error
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
	case string:
		*d, err = ParseDate(v)
	case []byte:
		*d, err = ParseDate(string(v))
	default:
		err = fmt.Errorf("cannot scan %T into Date", src)
	}
	return err
}
