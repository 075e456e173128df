package roster_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/soccermanager/go/clients"
	"github.com/mcdev12/soccermanager/go/internal/failures"
	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/roster"
)

type teamsClient struct {
	mock.Mock
}

func (m *teamsClient) GetTeam(ctx context.Context, teamID int64) (*models.Team, error) {
	args := m.Called(ctx, teamID)
	team, _ := args.Get(0).(*models.Team)
	return team, args.Error(1)
}

func (m *teamsClient) UpdateTeam(ctx context.Context, teamID int64, update models.TeamUpdate) (*models.Team, error) {
	args := m.Called(ctx, teamID, update)
	team, _ := args.Get(0).(*models.Team)
	return team, args.Error(1)
}

func (m *teamsClient) UpdatePlayer(ctx context.Context, teamID, playerID int64, update models.PlayerUpdate) (*models.Player, error) {
	args := m.Called(ctx, teamID, playerID, update)
	player, _ := args.Get(0).(*models.Player)
	return player, args.Error(1)
}

func sampleTeam() *models.Team {
	return &models.Team{
		ID:          7,
		Name:        "Gophers FC",
		Country:     "Norway",
		MarketValue: "4000000",
		Budget:      "5000000",
		Players: []models.Player{
			{ID: 1, FirstName: "Ada", Position: models.PositionAttacker},
			{ID: 2, FirstName: "Bo", Position: models.PositionDefender},
			{ID: 3, FirstName: "Cy", Position: models.PositionGoalkeeper},
			{ID: 4, FirstName: "Di", Position: models.PositionDefender},
			{ID: 5, FirstName: "Ed", Position: models.PositionMidfielder},
		},
	}
}

func playerIDs(team models.Team) []int64 {
	ids := make([]int64, len(team.Players))
	for i, p := range team.Players {
		ids[i] = p.ID
	}
	return ids
}

func TestApp_FetchSortsByPosition(t *testing.T) {
	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).Return(sampleTeam(), nil)

	app := roster.NewApp(client)
	team, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 2, 4, 5, 1}, playerIDs(team))

	cached, ok := app.Snapshot()
	require.True(t, ok)
	assert.Equal(t, team, cached)
}

func TestApp_FetchIsIdempotent(t *testing.T) {
	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).Return(sampleTeam(), nil)

	app := roster.NewApp(client)
	first, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)
	second, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApp_SnapshotIsACopy(t *testing.T) {
	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).Return(sampleTeam(), nil)

	app := roster.NewApp(client)
	team, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)

	team.Players[0].FirstName = "mutated"
	cached, _ := app.Snapshot()
	assert.NotEqual(t, "mutated", cached.Players[0].FirstName)
}

func TestApp_FetchDropsResponseForClosedScope(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).
		Run(func(mock.Arguments) { cancel() }).
		Return(sampleTeam(), nil)

	app := roster.NewApp(client)
	_, err := app.Fetch(ctx, 7)

	assert.True(t, failures.IsCancelled(err))
	_, ok := app.Snapshot()
	assert.False(t, ok)
}

func TestApp_UpdatePlayerReloadsOnSuccess(t *testing.T) {
	age := 30
	update := models.PlayerUpdate{Age: &age}

	reloaded := sampleTeam()
	reloaded.MarketValue = "4100000"

	client := new(teamsClient)
	client.On("UpdatePlayer", mock.Anything, int64(7), int64(2), update).Return(&models.Player{ID: 2, Age: 30}, nil).Once()
	client.On("GetTeam", mock.Anything, int64(7)).Return(reloaded, nil).Once()

	app := roster.NewApp(client)
	require.NoError(t, app.UpdatePlayer(context.Background(), 7, 2, update))

	cached, ok := app.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "4100000", cached.MarketValue)
	client.AssertExpectations(t)
}

func TestApp_FailedWriteLeavesCacheUntouched(t *testing.T) {
	name := "Renamed"
	update := models.TeamUpdate{Name: &name}

	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).Return(sampleTeam(), nil).Once()
	client.On("UpdateTeam", mock.Anything, int64(7), update).
		Return(nil, &clients.APIError{StatusCode: http.StatusBadRequest, Message: "name is too long"})

	app := roster.NewApp(client)
	_, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)

	err = app.UpdateTeam(context.Background(), 7, update)
	require.Error(t, err)
	assert.True(t, failures.IsValidation(err))

	cached, _ := app.Snapshot()
	assert.Equal(t, "Gophers FC", cached.Name)
	client.AssertNumberOfCalls(t, "GetTeam", 1)
}

func TestApp_ReloadFailureAfterWrite(t *testing.T) {
	name := "Renamed"
	update := models.TeamUpdate{Name: &name}

	client := new(teamsClient)
	client.On("UpdateTeam", mock.Anything, int64(7), update).Return(&models.Team{ID: 7, Name: name}, nil)
	client.On("GetTeam", mock.Anything, int64(7)).Return(nil, errors.New("connection reset"))

	app := roster.NewApp(client)
	err := app.UpdateTeam(context.Background(), 7, update)

	assert.ErrorIs(t, err, roster.ErrStaleAfterWrite)
	var classified *failures.Error
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, "failed to load team data", classified.Message)
}

func TestApp_EmptyUpdateIsNoop(t *testing.T) {
	client := new(teamsClient)
	app := roster.NewApp(client)

	require.NoError(t, app.UpdateTeam(context.Background(), 7, models.TeamUpdate{}))
	require.NoError(t, app.UpdatePlayer(context.Background(), 7, 1, models.PlayerUpdate{}))
	client.AssertNotCalled(t, "UpdateTeam", mock.Anything, mock.Anything, mock.Anything)
}

func TestApp_ResetDropsCache(t *testing.T) {
	client := new(teamsClient)
	client.On("GetTeam", mock.Anything, int64(7)).Return(sampleTeam(), nil)

	app := roster.NewApp(client)
	_, err := app.Fetch(context.Background(), 7)
	require.NoError(t, err)

	app.Reset()
	_, ok := app.Snapshot()
	assert.False(t, ok)
}
