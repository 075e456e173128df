package auth

import (
	"errors"
	"net/http"

	"github.com/mcdev12/soccermanager/go/clients"
)

// InvalidCredentialsMessage is shown when login is rejected
const InvalidCredentialsMessage = "Incorrect email/password combination"

// credentialsRejected keeps a 401 from login out of the session-expired path:
// there is no session yet, so a rejection is a form error.
func credentialsRejected(err error) error {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		rejected := *apiErr
		rejected.StatusCode = http.StatusBadRequest
		if rejected.Message == "" {
			rejected.Message = InvalidCredentialsMessage
		}
		return &rejected
	}
	return err
}
