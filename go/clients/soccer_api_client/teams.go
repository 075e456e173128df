package soccer_api_client

import (
	"context"
	"fmt"

	"github.com/mcdev12/soccermanager/go/internal/models"
)

// GetTeam loads a team with its players eagerly in one round trip
func (c *SoccerApiClient) GetTeam(ctx context.Context, teamID int64) (*models.Team, error) {
	var team models.Team
	if err := c.Get(ctx, fmt.Sprintf(TeamWithPlayersEndpoint, teamID), &team); err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

// UpdateTeam writes name and/or country
func (c *SoccerApiClient) UpdateTeam(ctx context.Context, teamID int64, update models.TeamUpdate) (*models.Team, error) {
	var team models.Team
	if err := c.Patch(ctx, fmt.Sprintf(TeamEndpoint, teamID), update, &team); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return &team, nil
}

// UpdatePlayer writes a partial player update
func (c *SoccerApiClient) UpdatePlayer(ctx context.Context, teamID, playerID int64, update models.PlayerUpdate) (*models.Player, error) {
	var player models.Player
	if err := c.Patch(ctx, fmt.Sprintf(TeamPlayerEndpoint, teamID, playerID), update, &player); err != nil {
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	return &player, nil
}
