package models

// Session is the authenticated identity triple returned by login and registration
type Session struct {
	Token  string `json:"token"`
	TeamID int64  `json:"teamId"`
	UserID int64  `json:"userId"`
}

// Valid enforces token present <=> team id present; a session needs all three parts
func (s Session) Valid() bool {
	return s.Token != "" && s.TeamID != 0 && s.UserID != 0
}
