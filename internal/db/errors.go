package db

import "errors"

// Domain-level database error sentinels.
var (
	// Edit request errors
	ErrEditRequestNotFound  = errors.New("edit request not found")
	ErrAlreadyReviewed      = errors.New("edit request has already been reviewed")
	ErrUnknownEditType      = errors.New("unknown edit type")
	ErrInvalidProposedData  = errors.New("proposed data is invalid for this edit type")
	ErrBlankReason          = errors.New("rejection reason must not be blank")
	ErrMissingRestaurantRef = errors.New("edit request has no target restaurant")

	// Complaint errors
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrComplaintResolved = errors.New("complaint has already been resolved")

	// Comment errors
	ErrCommentNotFound = errors.New("comment not found")

	// Restaurant errors
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)
