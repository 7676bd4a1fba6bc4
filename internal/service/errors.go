package service

import (
	"errors"

	"github.com/lib/pq"
)

// isUniqueViolation reports whether the error is a Postgres unique
// constraint violation. Services translate these into conflict responses so
// racing writers surface as 409s instead of 500s.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
