package models

import (
	"errors"
	"fmt"
	"slices"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

var bookingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}

// BlockingStatuses are the states that occupy a provider's calendar.
var BlockingStatuses = func() []BookingStatus {
	var blocking []BookingStatus
	for _, s := range bookingStatuses {
		if s.IsBlocking() {
			blocking = append(blocking, s)
		}
	}
	return blocking
}()

type BookingActor string

const (
	ActorCustomer BookingActor = "customer"
	ActorProvider BookingActor = "provider"
)

var (
	ErrUnknownStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrActorNotAllowed   = errors.New("actor not allowed to perform this transition")
)

var bookingTransitions = map[BookingStatus]map[BookingStatus]BookingActor{
	StatusPending: {
		StatusConfirmed: ActorProvider,
		StatusCancelled: ActorCustomer,
	},
	StatusConfirmed: {
		StatusInProgress: ActorProvider,
		StatusCancelled:  ActorCustomer,
	},
	StatusInProgress: {
		StatusCompleted: ActorProvider,
	},
}

func ParseBookingStatus(s string) (BookingStatus, error) {
	if st := BookingStatus(s); slices.Contains(bookingStatuses, st) {
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
}

// IsTerminal reports whether no further transition leaves s.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s BookingStatus) IsBlocking() bool {
	return s == StatusConfirmed || s == StatusInProgress
}

// RequiredActor reports which party may move a booking from s to next.
func (s BookingStatus) RequiredActor(next BookingStatus) (BookingActor, bool) {
	actor, ok := bookingTransitions[s][next]
	return actor, ok
}

// CheckTransition validates a move from s to next performed by actor.
// Actor errors take precedence over reachability.
func (s BookingStatus) CheckTransition(next BookingStatus, actor BookingActor) error {
	if !actorMayTarget(next, actor) {
		return fmt.Errorf("%w: %s cannot set status %s", ErrActorNotAllowed, actor, next)
	}
	if _, ok := s.RequiredActor(next); !ok {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return nil
}

func actorMayTarget(next BookingStatus, actor BookingActor) bool {
	for _, targets := range bookingTransitions {
		if a, ok := targets[next]; ok && a == actor {
			return true
		}
	}
	return false
}
