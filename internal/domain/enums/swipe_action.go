package enums

import (
	"errors"
	"strings"
)

// SwipeAction is the closed set of swipe polarities. Anything else coming
// off the wire is a validation error, never a silent fall-through.
type SwipeAction string

const (
	SwipeActionLike SwipeAction = "like"
	SwipeActionNope SwipeAction = "nope"
)

var ErrUnknownSwipeAction = errors.New("unknown swipe action")

func ParseSwipeAction(input string) (SwipeAction, error) {
	switch SwipeAction(strings.ToLower(strings.TrimSpace(input))) {
	case SwipeActionLike:
		return SwipeActionLike, nil
	case SwipeActionNope:
		return SwipeActionNope, nil
	default:
		return "", ErrUnknownSwipeAction
	}
}

func (a SwipeAction) IsLike() bool {
	return a == SwipeActionLike
}
