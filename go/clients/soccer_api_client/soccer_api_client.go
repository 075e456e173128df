package soccer_api_client

import (
	"github.com/mcdev12/soccermanager/go/clients"
)

// UserAgent identifies this client to the API
const UserAgent = "soccermanager-cli/1.0"

// SoccerApiClient talks to the soccer manager REST API
type SoccerApiClient struct {
	*clients.BaseClient
}

// NewSoccerApiClient creates a client for baseURL; authenticated calls use credentials
func NewSoccerApiClient(baseURL string, credentials clients.Credentials) *SoccerApiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &SoccerApiClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
	client.SetHeader("User-Agent", UserAgent)
	client.SetCredentials(credentials)
	return client
}
