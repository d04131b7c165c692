// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

// Failure reasons carried in the uniform reply payload. The strings are part
// of the wire contract with the frontend bundle and must not change.
const (
	ReasonUsernameAlreadyPicked = "invalid_username_already_picked"
	ReasonInvalidCredentials    = "invalid_credentials"
	ReasonInvalidEmail          = "invalid_email"
	ReasonInvalidSession        = "invalid_session"
	ReasonUnknownResource       = "unknown resource"
	ReasonRegistrationFailed    = "could not register account"
	ReasonEventFailed           = "could not create event"
	ReasonBadRequest            = "malformed request"
)

// Reply is the fixed response payload for register, sign-in and
// event-creation.
type Reply struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Ok returns the success reply.
func Ok() Reply {
	return Reply{Status: "ok"}
}

// Fail returns a failure reply with the given reason.
func Fail(reason string) Reply {
	return Reply{Status: "fail", Reason: reason}
}
