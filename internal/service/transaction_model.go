package service

import (
	"github.com/gofrs/uuid/v5"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// TransactionCursor identifies a position in a paginated result set and
// carries the limit and category filter so subsequent pages are consistent.
type TransactionCursor struct {
	Position   int
	Limit      int
	CategoryID *uuid.UUID
}

func (c *TransactionCursor) normalized() TransactionCursor {
	cursor := TransactionCursor{Limit: defaultLimit}
	if c == nil {
		return cursor
	}
	cursor.CategoryID = c.CategoryID
	if c.Position > 0 {
		cursor.Position = c.Position
	}
	if c.Limit > 0 {
		cursor.Limit = min(c.Limit, maxLimit)
	}
	return cursor
}
