package fakeserver

import (
	"net/http"
)

// apiError is an application failure with its wire representation
type apiError struct {
	status      int
	code        string
	description string
}

func (e *apiError) Error() string {
	return e.description
}

var (
	errCredentialsInvalid = &apiError{http.StatusBadRequest, "USER_CREDENTIALS_INVALID", "Incorrect email/password combination"}
	errUserDuplicated     = &apiError{http.StatusConflict, "USER_DUPLICATED", "User with the mail already exists"}
	errUserNotFound       = &apiError{http.StatusNotFound, "USER_NOT_FOUND", "User with the email is not found"}
	errTeamNotFound       = &apiError{http.StatusNotFound, "TEAM_NOT_FOUND", "Team with the given parameters is not found, maybe you deleted it before"}
	errPlayerNotFound     = &apiError{http.StatusNotFound, "PLAYER_NOT_FOUND", "Player with the given parameters is not found, maybe you deleted it before"}
	errTransferDuplicated = &apiError{http.StatusConflict, "TRANSFER_DUPLICATED", "Player with the given parameters already exists in transfer list"}
	errTransferNotFound   = &apiError{http.StatusNotFound, "TRANSFER_NOT_FOUND", "Transfer with the given parameters is not found, the player was already moved out of the transfer list"}
	errInsufficientBudget = &apiError{http.StatusBadRequest, "TEAM_INSUFFICIENT_BUDGET", "Team budget is not sufficient to buy the player"}
	errForbidden          = &apiError{http.StatusForbidden, "UNAUTHORIZED_USER_ERROR", "User is not permitted to do this action on this data"}
	errUnauthenticated    = &apiError{http.StatusUnauthorized, "UNAUTHENTICATED", "Full authentication is required to access this resource"}
	errInvalidParameters  = &apiError{http.StatusBadRequest, "REQUEST_PARAMETERS_NOT_VALID", "One or more required fields are invalid"}
)

type fieldError struct {
	Field        string `json:"field"`
	RejectReason string `json:"rejectReason"`
}

// errorResponse is the body of every non-2xx response
type errorResponse struct {
	Status      string       `json:"status"`
	Description string       `json:"description"`
	Message     string       `json:"message,omitempty"`
	Error       string       `json:"error"`
	ErrorFields []fieldError `json:"errorFields,omitempty"`
}
