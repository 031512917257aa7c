package library

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

// Category of a book. Stored by name.
type Category int

const (
	Fiction Category = iota + 1
	NonFiction
	SciFi
	Fantasy
	Mystery
	Romance
	History
)

// Categories lists every valid category in declaration order.
var Categories = []Category{Fiction, NonFiction, SciFi, Fantasy, Mystery, Romance, History}

var ErrUnknownCategory = errors.New("unknown category")

func (c Category) String() string {
	switch c {
	case Fiction:
		return "Fiction"
	case NonFiction:
		return "Non-Fiction"
	case SciFi:
		return "Sci-Fi"
	case Fantasy:
		return "Fantasy"
	case Mystery:
		return "Mystery"
	case Romance:
		return "Romance"
	case History:
		return "History"
	}
	return "Unknown"
}

func (c Category) Valid() bool {
	return c >= Fiction && c <= History
}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return c.String(), nil
}

func (c *Category) Scan(src any) error {
	var err error
	switch v := src.(type) {
	case string:
		*c, err = ParseCategory(v)
	case []byte:
		*c, err = ParseCategory(string(v))
	default:
		err = fmt.Errorf("cannot scan %T into Category", src)
	}
	return err
}
