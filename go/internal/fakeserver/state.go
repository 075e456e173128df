package fakeserver

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/money"
)

const (
	ageMin              = 18
	ageMax              = 40
	playerInitialValue  = 1000000
	teamInitialBudget   = 5000000
	initialGoalkeepers  = 3
	initialDefenders    = 6
	initialMidfielders  = 6
	initialAttackers    = 5
	valueIncreaseMinPct = 10
	valueIncreaseMaxPct = 100
)

type user struct {
	id       int64
	email    string
	fullName string
	role     models.Role
	hash     []byte
	teamID   int64
}

type team struct {
	id      int64
	userID  int64
	name    string
	country string
	budget  decimal.Decimal
	players []int64
}

type player struct {
	id        int64
	teamID    int64
	firstName string
	lastName  string
	country   string
	age       int
	position  models.Position
	value     decimal.Decimal
}

type listing struct {
	id       int64
	playerID int64
	askPrice decimal.Decimal
}

// state is the in-memory game world
type state struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	nextID   int64
	users    map[int64]*user
	emails   map[string]int64
	teams    map[int64]*team
	players  map[int64]*player
	listings map[int64]*listing
}

func newState(seed int64) *state {
	return &state{
		rnd:      rand.New(rand.NewSource(seed)),
		users:    make(map[int64]*user),
		emails:   make(map[string]int64),
		teams:    make(map[int64]*team),
		players:  make(map[int64]*player),
		listings: make(map[int64]*listing),
	}
}

func (s *state) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *state) register(reg models.Registration) (*user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[reg.Email]; taken {
		return nil, errUserDuplicated
	}

	u := &user{
		id:       s.id(),
		email:    reg.Email,
		fullName: reg.FullName,
		role:     reg.Role,
		hash:     hash,
	}
	t := s.createTeam(u.id)
	u.teamID = t.id

	s.users[u.id] = u
	s.emails[u.email] = u.id
	return u, nil
}

func (s *state) createTeam(userID int64) *team {
	t := &team{
		id:      s.id(),
		userID:  userID,
		name:    pick(s.rnd, teamNames),
		country: pick(s.rnd, countries),
		budget:  decimal.NewFromInt(teamInitialBudget),
	}
	s.teams[t.id] = t

	for _, group := range []struct {
		position models.Position
		count    int
	}{
		{models.PositionGoalkeeper, initialGoalkeepers},
		{models.PositionDefender, initialDefenders},
		{models.PositionMidfielder, initialMidfielders},
		{models.PositionAttacker, initialAttackers},
	} {
		for i := 0; i < group.count; i++ {
			p := &player{
				id:        s.id(),
				teamID:    t.id,
				firstName: pick(s.rnd, firstNames),
				lastName:  pick(s.rnd, lastNames),
				country:   pick(s.rnd, countries),
				age:       ageMin + s.rnd.Intn(ageMax-ageMin),
				position:  group.position,
				value:     decimal.NewFromInt(playerInitialValue),
			}
			s.players[p.id] = p
			t.players = append(t.players, p.id)
		}
	}
	return t
}

func (s *state) authenticate(creds models.Credentials) (*user, error) {
	s.mu.Lock()
	id, ok := s.emails[creds.Email]
	var u *user
	if ok {
		u = s.users[id]
	}
	s.mu.Unlock()

	if u == nil {
		return nil, errCredentialsInvalid
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(creds.Password)); err != nil {
		return nil, errCredentialsInvalid
	}
	return u, nil
}

func (s *state) userExists(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[id]
	return ok
}

func (s *state) getUser(id int64) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, errUserNotFound
	}
	return u.model(), nil
}

func (s *state) updateUser(id int64, update userUpdate) (models.User, error) {
	var hash []byte
	if update.Password != nil {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.MinCost); err != nil {
			return models.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, errUserNotFound
	}
	if update.Email != nil && *update.Email != u.email {
		if _, taken := s.emails[*update.Email]; taken {
			return models.User{}, errUserDuplicated
		}
		delete(s.emails, u.email)
		u.email = *update.Email
		s.emails[u.email] = u.id
	}
	if update.FullName != nil {
		u.fullName = *update.FullName
	}
	if hash != nil {
		u.hash = hash
	}
	return u.model(), nil
}

// deleteUser cascades to the team, its players and their listings
func (s *state) deleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return errUserNotFound
	}
	if t, ok := s.teams[u.teamID]; ok {
		for _, pid := range t.players {
			for lid, l := range s.listings {
				if l.playerID == pid {
					delete(s.listings, lid)
				}
			}
			delete(s.players, pid)
		}
		delete(s.teams, t.id)
	}
	delete(s.emails, u.email)
	delete(s.users, id)
	return nil
}

func (s *state) getTeam(id int64, withPlayers bool) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return models.Team{}, errTeamNotFound
	}
	return s.teamModel(t, withPlayers), nil
}

func (s *state) updateTeam(id int64, update models.TeamUpdate) (models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return models.Team{}, errTeamNotFound
	}
	if update.Name != nil {
		t.name = *update.Name
	}
	if update.Country != nil {
		t.country = *update.Country
	}
	return s.teamModel(t, false), nil
}

func (s *state) updatePlayer(teamID, playerID int64, update models.PlayerUpdate) (models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return models.Player{}, errPlayerNotFound
	}
	if p.teamID != teamID {
		return models.Player{}, errForbidden
	}
	if update.FirstName != nil {
		p.firstName = *update.FirstName
	}
	if update.LastName != nil {
		p.lastName = *update.LastName
	}
	if update.Age != nil {
		p.age = *update.Age
	}
	if update.Country != nil {
		p.country = *update.Country
	}
	if update.Position != nil {
		p.position = *update.Position
	}
	return p.model(), nil
}

// allListings returns every listing ordered by ask price
func (s *state) allListings() []models.TransferListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*listing, 0, len(s.listings))
	for _, l := range s.listings {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].askPrice.Cmp(out[j].askPrice); c != 0 {
			return c < 0
		}
		return out[i].id < out[j].id
	})

	result := make([]models.TransferListing, 0, len(out))
	for _, l := range out {
		result = append(result, s.listingModel(l))
	}
	return result
}

func (s *state) createListing(teamID, playerID int64, askPrice decimal.Decimal) (models.TransferListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return models.TransferListing{}, errPlayerNotFound
	}
	if p.teamID != teamID {
		return models.TransferListing{}, errForbidden
	}
	for _, l := range s.listings {
		if l.playerID == playerID {
			return models.TransferListing{}, errTransferDuplicated
		}
	}
	l := &listing{id: s.id(), playerID: playerID, askPrice: askPrice}
	s.listings[l.id] = l
	return s.listingModel(l), nil
}

func (s *state) repriceListing(teamID, listingID int64, askPrice decimal.Decimal) (models.TransferListing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[listingID]
	if !ok {
		return models.TransferListing{}, errTransferNotFound
	}
	if s.players[l.playerID].teamID != teamID {
		return models.TransferListing{}, errForbidden
	}
	l.askPrice = askPrice
	return s.listingModel(l), nil
}

// resolveListing cancels the listing when teamID owns the player and buys it otherwise
func (s *state) resolveListing(teamID, listingID int64) (purchased bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[listingID]
	if !ok {
		return false, errTransferNotFound
	}
	p := s.players[l.playerID]

	if p.teamID != teamID {
		buyer, ok := s.teams[teamID]
		if !ok {
			return false, errTeamNotFound
		}
		if buyer.budget.Cmp(l.askPrice) < 0 {
			return false, errInsufficientBudget
		}
		seller := s.teams[p.teamID]

		buyer.budget = buyer.budget.Sub(l.askPrice)
		seller.budget = seller.budget.Add(l.askPrice)

		pct := valueIncreaseMinPct + s.rnd.Intn(valueIncreaseMaxPct-valueIncreaseMinPct)
		p.value = p.value.Add(p.value.Mul(decimal.New(int64(pct), -2)))

		seller.players = remove(seller.players, p.id)
		buyer.players = append(buyer.players, p.id)
		p.teamID = buyer.id
		purchased = true
	}
	delete(s.listings, listingID)
	return purchased, nil
}

func (s *state) teamModel(t *team, withPlayers bool) models.Team {
	value := decimal.Zero
	players := make([]models.Player, 0, len(t.players))
	for _, pid := range t.players {
		p := s.players[pid]
		value = value.Add(p.value)
		if withPlayers {
			players = append(players, p.model())
		}
	}
	m := models.Team{
		ID:          t.id,
		Name:        t.name,
		Country:     t.country,
		MarketValue: money.Canonical(value),
		Budget:      money.Canonical(t.budget),
	}
	if withPlayers {
		m.Players = players
	}
	return m
}

func (s *state) listingModel(l *listing) models.TransferListing {
	p := s.players[l.playerID].model()
	if t, ok := s.teams[s.players[l.playerID].teamID]; ok {
		p.Team = &models.TeamRef{ID: t.id, Name: t.name, Country: t.country}
	}
	return models.TransferListing{
		ID:       l.id,
		Player:   p,
		AskPrice: money.Canonical(l.askPrice),
		Status:   models.ListingStatusPending,
	}
}

func (u *user) model() models.User {
	return models.User{ID: u.id, Email: u.email, FullName: u.fullName, Role: u.role}
}

func (p *player) model() models.Player {
	return models.Player{
		ID:          p.id,
		FirstName:   p.firstName,
		LastName:    p.lastName,
		Country:     p.country,
		Age:         p.age,
		Position:    p.position,
		MarketValue: money.Canonical(p.value),
	}
}

func remove(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func pick(rnd *rand.Rand, from []string) string {
	return from[rnd.Intn(len(from))]
}
