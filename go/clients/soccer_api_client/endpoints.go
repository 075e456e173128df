package soccer_api_client

const (
	// Base URL of a local development server
	DefaultBaseURL = "http://localhost:8081"

	// API Endpoints
	AuthTokenEndpoint       = "/auth/token"
	UsersEndpoint           = "/users"
	UserEndpoint            = "/users/%d"
	TeamEndpoint            = "/teams/%d"
	TeamWithPlayersEndpoint = "/teams/%d?with_players=true"
	TeamPlayerEndpoint      = "/teams/%d/players/%d"
	TransfersEndpoint       = "/transfers"
	TeamTransfersEndpoint   = "/teams/%d/transfers"
	TeamTransferEndpoint    = "/teams/%d/transfers/%d"
)
