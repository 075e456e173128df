package fakeserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/soccermanager/go/internal/models"
	"github.com/mcdev12/soccermanager/go/internal/money"
)

type claimsKey struct{}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	FullName string      `json:"fullName" validate:"required,max=60"`
	Role     models.Role `json:"role" validate:"required,oneof=USER ADMIN"`
}

type userUpdate struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"fullName" validate:"omitempty,max=60"`
	Password *string `json:"password" validate:"omitempty,min=1"`
}

type teamUpdate struct {
	Name    *string `json:"name" validate:"omitempty,max=60"`
	Country *string `json:"country" validate:"omitempty,max=60"`
}

type playerUpdate struct {
	FirstName *string          `json:"firstName" validate:"omitempty,max=30"`
	LastName  *string          `json:"lastName" validate:"omitempty,max=30"`
	Age       *int             `json:"age" validate:"omitempty,min=18,max=40"`
	Country   *string          `json:"country" validate:"omitempty,max=40"`
	Position  *models.Position `json:"position" validate:"omitempty,oneof=GOALKEEPER DEFENDER MIDFIELDER ATTACKER"`
}

type createTransferRequest struct {
	PlayerID int64  `json:"playerId" validate:"required"`
	AskPrice string `json:"askPrice" validate:"required,askprice"`
}

type updateTransferRequest struct {
	AskPrice string `json:"askPrice" validate:"required,askprice"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.state.authenticate(models.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(w, err)
		return
	}
	s.respondSession(w, http.StatusOK, u)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}

	u, err := s.state.register(models.Registration{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	log.Info().Int64("user_id", u.id).Int64("team_id", u.teamID).Msg("user registered")
	s.respondSession(w, http.StatusCreated, u)
}

func (s *Server) respondSession(w http.ResponseWriter, status int, u *user) {
	token, err := s.tokens.issue(u.id, u.teamID, u.role)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, status, models.Session{Token: token, TeamID: u.teamID, UserID: u.id})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.state.getUser(pathID(r, "userId"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdate
	if !s.decode(w, r, &req) {
		return
	}
	u, err := s.state.updateUser(pathID(r, "userId"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.state.deleteUser(pathID(r, "userId")); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	withPlayers, _ := strconv.ParseBool(r.URL.Query().Get("with_players"))
	t, err := s.state.getTeam(pathID(r, "teamId"), withPlayers)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamUpdate
	if !s.decode(w, r, &req) {
		return
	}
	t, err := s.state.updateTeam(pathID(r, "teamId"), models.TeamUpdate{Name: req.Name, Country: req.Country})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerUpdate
	if !s.decode(w, r, &req) {
		return
	}
	p, err := s.state.updatePlayer(pathID(r, "teamId"), pathID(r, "playerId"), models.PlayerUpdate{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Age:       req.Age,
		Country:   req.Country,
		Position:  req.Position,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleListTransfers(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, s.state.allListings())
}

func (s *Server) handleCreateTransfer(w http.ResponseWriter, r *http.Request) {
	var req createTransferRequest
	if !s.decode(w, r, &req) {
		return
	}
	price, err := money.Parse(req.AskPrice)
	if err != nil {
		respondError(w, errInvalidParameters)
		return
	}
	l, err := s.state.createListing(pathID(r, "teamId"), req.PlayerID, price)
	if err != nil {
		respondError(w, err)
		return
	}
	log.Info().Int64("listing_id", l.ID).Int64("player_id", req.PlayerID).Str("ask_price", l.AskPrice).Msg("player listed")
	respondJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateTransfer(w http.ResponseWriter, r *http.Request) {
	var req updateTransferRequest
	if !s.decode(w, r, &req) {
		return
	}
	price, err := money.Parse(req.AskPrice)
	if err != nil {
		respondError(w, errInvalidParameters)
		return
	}
	l, err := s.state.repriceListing(pathID(r, "teamId"), pathID(r, "transferId"), price)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteTransfer(w http.ResponseWriter, r *http.Request) {
	teamID, listingID := pathID(r, "teamId"), pathID(r, "transferId")
	purchased, err := s.state.resolveListing(teamID, listingID)
	if err != nil {
		respondError(w, err)
		return
	}
	log.Info().Int64("listing_id", listingID).Int64("team_id", teamID).Bool("purchased", purchased).Msg("listing resolved")
	w.WriteHeader(http.StatusNoContent)
}

// authenticate rejects requests without a valid bearer token for an existing user
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respondError(w, errUnauthenticated)
			return
		}
		claims, err := s.tokens.parse(raw)
		if err != nil {
			log.Debug().Err(err).Msg("rejected bearer token")
			respondError(w, errUnauthenticated)
			return
		}
		if !s.state.userExists(claims.UserID) {
			respondError(w, errUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}

func (s *Server) requireTeam(next http.Handler) http.Handler {
	return s.requireOwner("teamId", func(c *Claims) int64 { return c.TeamID }, next)
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return s.requireOwner("userId", func(c *Claims) int64 { return c.UserID }, next)
}

// requireOwner lets admins through and otherwise matches the path id to the caller
func (s *Server) requireOwner(param string, owned func(*Claims) int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := r.Context().Value(claimsKey{}).(*Claims)
		id := pathID(r, param)
		if id == 0 {
			respondError(w, errInvalidParameters)
			return
		}
		if claims == nil || (claims.Role != models.RoleAdmin && owned(claims) != id) {
			respondError(w, errForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decode reads and validates the JSON body, responding on failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Status:      statusName(http.StatusBadRequest),
			Description: "invalid request body",
			Error:       "ValidationError",
		})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		fields, ok := fieldErrors(err)
		if !ok {
			respondError(w, err)
			return false
		}
		respondJSON(w, errInvalidParameters.status, errorResponse{
			Status:      statusName(errInvalidParameters.status),
			Description: errInvalidParameters.description,
			Error:       errInvalidParameters.code,
			ErrorFields: fields,
		})
		return false
	}
	return true
}

func pathID(r *http.Request, param string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func respondError(w http.ResponseWriter, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		log.Error().Err(err).Msg("internal error")
		respondJSON(w, http.StatusInternalServerError, errorResponse{
			Status:      statusName(http.StatusInternalServerError),
			Description: "internal error",
			Error:       "INTERNAL",
		})
		return
	}
	respondJSON(w, apiErr.status, errorResponse{
		Status:      statusName(apiErr.status),
		Description: apiErr.description,
		Error:       apiErr.code,
	})
}

// statusName renders a status the way the API does, e.g. BAD_REQUEST
func statusName(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
