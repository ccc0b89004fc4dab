package services

import "skillpractice/backend/apperr"

var (
	ErrCourseNotFound       = apperr.NotFound("course not found")
	ErrChallengesIncomplete = apperr.Precondition("not all challenges of the course are completed")
	ErrInvalidCredentials   = apperr.Unauthorized("invalid username or password")
	ErrAccountDisabled      = apperr.Unauthorized("account is disabled")
	ErrPasswordMismatch     = apperr.Invalid("passwords do not match")
	ErrCannotDeleteSelf     = apperr.Invalid("you cannot delete your own account")
	ErrNoUserIDs            = apperr.Invalid("no user ids given")
)
