package domain

import (
	"errors"
	"testing"
)

func TestBoxIsValid(t *testing.T) {
	t.Parallel()

	for _, b := range Boxes {
		if !b.IsValid() {
			t.Errorf("Expected %q to be valid", b)
		}
	}

	for _, b := range []Box{"", "box0", "box4", "BOX1", "learned"} {
		if b.IsValid() {
			t.Errorf("Expected %q to be invalid", b)
		}
	}
}

func TestBoxRankFollowsPromotionOrder(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(Boxes); i++ {
		if Boxes[i-1].Rank() >= Boxes[i].Rank() {
			t.Errorf("Expected rank of %s < rank of %s", Boxes[i-1], Boxes[i])
		}
	}

	if Box("nope").Rank() != 0 {
		t.Error("Expected unknown box to have rank 0")
	}
}

func TestParseBox(t *testing.T) {
	t.Parallel()

	b, err := ParseBox("box2")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if b != Box2 {
		t.Errorf("Expected box2, got %s", b)
	}

	_, err = ParseBox("box9")
	if !errors.Is(err, ErrInvalidBox) {
		t.Errorf("Expected ErrInvalidBox, got %v", err)
	}
}

func TestBoxScanAndValue(t *testing.T) {
	t.Parallel()

	var b Box
	if err := b.Scan([]byte("box3")); err != nil {
		t.Fatalf("Expected no error scanning bytes, got %v", err)
	}
	if b != Box3 {
		t.Errorf("Expected box3, got %s", b)
	}

	if err := b.Scan("graduated"); err != nil {
		t.Fatalf("Expected no error scanning string, got %v", err)
	}
	if !b.IsTerminal() {
		t.Error("Expected graduated box to be terminal")
	}

	if err := b.Scan(42); !errors.Is(err, ErrInvalidBox) {
		t.Errorf("Expected ErrInvalidBox for int source, got %v", err)
	}

	v, err := Box1.Value()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if v != "box1" {
		t.Errorf("Expected driver value box1, got %v", v)
	}

	if _, err := Box("x").Value(); !errors.Is(err, ErrInvalidBox) {
		t.Errorf("Expected ErrInvalidBox for invalid value, got %v", err)
	}
}
