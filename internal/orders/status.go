package orders

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusOnTheWay  Status = "on-the-way"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid status")

var validNext = map[Status]map[Status]bool{
	StatusConfirmed: {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusOnTheWay: true, StatusCancelled: true},
	StatusOnTheWay:  {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

func (s Status) IsTerminal() bool {
	return s.Valid() && len(validNext[s]) == 0
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

var statusText = map[Status][2]string{
	StatusConfirmed: {"Confirmed", "Your order has been confirmed and is being prepared"},
	StatusPreparing: {"Preparing", "The restaurant is preparing your order"},
	StatusOnTheWay:  {"On the way", "Your order is out for delivery"},
	StatusDelivered: {"Delivered", "Your order has been delivered successfully"},
	StatusCancelled: {"Cancelled", "This order was cancelled"},
}

func (s Status) Label() string { return statusText[s][0] }

func (s Status) Description() string { return statusText[s][1] }
