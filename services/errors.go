package services

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrServiceNotFound = errors.New("service not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrItemNotFound    = errors.New("item not found")

	ErrNotAuthorized   = errors.New("not authorized to perform this action")
	ErrNotBookingParty = errors.New("not authorized to access this booking")
	ErrNotCustomer     = errors.New("only the customer can perform this action")
	ErrProviderOnly    = errors.New("only service providers can create services")

	ErrServiceInactive      = errors.New("service is not available")
	ErrOwnService           = errors.New("you cannot book your own service")
	ErrBookingInPast        = errors.New("booking time must be in the future")
	ErrSchedulingConflict   = errors.New("provider is not available at the selected time")
	ErrBookingNotEditable   = errors.New("booking can no longer be modified")
	ErrBookingNotCompleted  = errors.New("can only review completed bookings")
	ErrAlreadyReviewed      = errors.New("booking already reviewed")
	ErrServiceReviewed      = errors.New("you have already reviewed this service")
	ErrNoCompletedBooking   = errors.New("you can only review services you have completed a booking for")
	ErrAlreadyLiked         = errors.New("post already liked")
	ErrNotLiked             = errors.New("post has not been liked yet")
	ErrInvalidItemStatus    = errors.New("invalid status")
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrIncorrectPassword    = errors.New("password is incorrect")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrUploaderUnconfigured = errors.New("media uploads are not configured")
	ErrInvalidUploadFolder  = errors.New("invalid upload folder")
)
