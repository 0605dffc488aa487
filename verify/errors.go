package verify

import "errors"

// Input errors keep the pending entry so the user can resend.
var (
	ErrNoAttachment = errors.New("no attachment")
	ErrNotImage     = errors.New("attachment is not an image")
)

// Transport errors end the attempt.
var (
	ErrFetch   = errors.New("could not download screenshot")
	ErrExtract = errors.New("could not read screenshot")
)

// Permission errors need an administrator.
var (
	ErrPermission = errors.New("bot lacks Manage Roles permission")
	ErrHierarchy  = errors.New("bot role is not above the target role")
)

// ErrThrottled is returned by Begin when a user starts verification too often.
var ErrThrottled = errors.New("too many verification attempts")
