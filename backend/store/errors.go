package store

import "skillpractice/backend/apperr"

var (
	ErrProgressNotFound = apperr.NotFound("progress not found")
	ErrUserNotFound     = apperr.NotFound("user not found")
	ErrUserConflict     = apperr.Conflict("username or email already exists")
	ErrNothingToUpdate  = apperr.Invalid("no fields to update")
)
