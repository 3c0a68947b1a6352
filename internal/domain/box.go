package domain

import (
	"database/sql/driver"
	"fmt"
)

// Box is a Leitner stage. The progression is Box1 → Box2 → Box3 → Graduated.
type Box string

// Leitner boxes, in promotion order.
const (
	Box1      Box = "box1"
	Box2      Box = "box2"
	Box3      Box = "box3"
	Graduated Box = "graduated"
)

// Boxes lists every box in promotion order.
var Boxes = []Box{Box1, Box2, Box3, Graduated}

// IsValid reports whether b is one of the defined boxes.
func (b Box) IsValid() bool {
	switch b {
	case Box1, Box2, Box3, Graduated:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether b is the graduated box.
func (b Box) IsTerminal() bool {
	return b == Graduated
}

// Rank returns the position of b in the promotion order (box1 = 1,
// graduated = 4), or 0 for an unknown box.
func (b Box) Rank() int {
	switch b {
	case Box1:
		return 1
	case Box2:
		return 2
	case Box3:
		return 3
	case Graduated:
		return 4
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (b Box) String() string {
	return string(b)
}

// ParseBox converts s into a Box.
func ParseBox(s string) (Box, error) {
	b := Box(s)
	if !b.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBox, s)
	}
	return b, nil
}

// Scan implements sql.Scanner so boxes can be read straight from a text column.
func (b *Box) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidBox, src)
	}
	parsed, err := ParseBox(s)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Value implements driver.Valuer.
func (b Box) Value() (driver.Value, error) {
	if !b.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBox, string(b))
	}
	return string(b), nil
}
