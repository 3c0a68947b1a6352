package leitner

import (
	"fmt"

	"github.com/phrazzld/leitner-api/internal/domain"
)

// NextBox returns the box a card moves to after a review.
//
// A correct answer advances the card one stage; a graduated card stays
// graduated. A wrong answer sends box1..box3 back to box1. A graduated card
// answered wrongly remains graduated: graduation is terminal.
func NextBox(current domain.Box, isCorrect bool) (domain.Box, error) {
	switch current {
	case domain.Box1:
		if isCorrect {
			return domain.Box2, nil
		}
		return domain.Box1, nil
	case domain.Box2:
		if isCorrect {
			return domain.Box3, nil
		}
		return domain.Box1, nil
	case domain.Box3:
		if isCorrect {
			return domain.Graduated, nil
		}
		return domain.Box1, nil
	case domain.Graduated:
		return domain.Graduated, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidBox, string(current))
	}
}
