package domain

import (
	"fmt"
	"time"
)

// Mode is the input mode of an authenticated session.
type Mode string

const (
	ModeAsking   Mode = "asking"
	ModeFollowUp Mode = "follow_up"
)

// Phase is the externally visible state of a session.
type Phase string

const (
	PhaseLoggedOut Phase = "logged_out"
	PhaseAsking    Phase = "asking"
	PhaseFollowUp  Phase = "follow_up"
)

// Action is a user-initiated session transition.
type Action string

const (
	ActionLogin    Action = "login"
	ActionAsk      Action = "ask"
	ActionFollowUp Action = "follow_up"
	ActionLogout   Action = "logout"
)

// allowedActions defines the session state machine.
var allowedActions = map[Phase][]Action{
	PhaseLoggedOut: {ActionLogin, ActionLogout},
	PhaseAsking:    {ActionAsk, ActionLogout},
	PhaseFollowUp:  {ActionFollowUp, ActionLogout},
}

// Allows reports whether action a is valid in phase p.
func (p Phase) Allows(a Action) bool {
	for _, allowed := range allowedActions[p] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Speaker tags the author of a transcript entry.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerModel Speaker = "model"
)

// Turn is one transcript entry.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Session holds the conversational state of one client.
//
// Transcript always alternates user/model entries and has even length;
// UserID is set iff Authenticated.
type Session struct {
	ID            string    `json:"id"`
	Authenticated bool      `json:"authenticated"`
	UserID        *int64    `json:"user_id,omitempty"`
	Username      string    `json:"username,omitempty"`
	Transcript    []Turn    `json:"transcript"`
	Mode          Mode      `json:"mode"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewSession returns a logged-out session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:         id,
		Transcript: []Turn{},
		Mode:       ModeAsking,
		UpdatedAt:  now.UTC(),
	}
}

// Phase derives the state machine position from the stored fields.
func (s *Session) Phase() Phase {
	switch {
	case !s.Authenticated:
		return PhaseLoggedOut
	case s.Mode == ModeFollowUp:
		return PhaseFollowUp
	default:
		return PhaseAsking
	}
}

// Check returns nil when a is valid now, otherwise the error a caller should surface.
func (s *Session) Check(a Action) error {
	p := s.Phase()
	if p.Allows(a) {
		return nil
	}
	switch {
	case p == PhaseLoggedOut:
		return ErrNotAuthenticated
	case a == ActionLogin:
		return ErrAlreadyAuthenticated
	default:
		return fmt.Errorf("%w (%s while %s)", ErrInvalidTransition, a, p)
	}
}

// SignIn moves a logged-out session to asking with an empty transcript.
func (s *Session) SignIn(userID int64, username string, now time.Time) error {
	if err := s.Check(ActionLogin); err != nil {
		return err
	}
	id := userID
	s.Authenticated = true
	s.UserID = &id
	s.Username = username
	s.Transcript = []Turn{}
	s.Mode = ModeAsking
	s.UpdatedAt = now.UTC()
	return nil
}

// RecordQuestion appends a free-text turn and opens the follow-up menu.
func (s *Session) RecordQuestion(question, reply string, now time.Time) error {
	if err := s.Check(ActionAsk); err != nil {
		return err
	}
	s.appendTurn(question, reply, now)
	s.Mode = ModeFollowUp
	return nil
}

// RecordFollowUp appends a follow-up turn and returns to asking.
func (s *Session) RecordFollowUp(topic, reply string, now time.Time) error {
	if err := s.Check(ActionFollowUp); err != nil {
		return err
	}
	s.appendTurn(topic, reply, now)
	s.Mode = ModeAsking
	return nil
}

// Reset restores the initial logged-out values, keeping the id.
func (s *Session) Reset(now time.Time) {
	s.Authenticated = false
	s.UserID = nil
	s.Username = ""
	s.Transcript = []Turn{}
	s.Mode = ModeAsking
	s.UpdatedAt = now.UTC()
}

// Clone returns a deep copy so stores never share transcript slices.
func (s *Session) Clone() *Session {
	c := *s
	if s.UserID != nil {
		id := *s.UserID
		c.UserID = &id
	}
	c.Transcript = make([]Turn, len(s.Transcript))
	copy(c.Transcript, s.Transcript)
	return &c
}

func (s *Session) appendTurn(input, reply string, now time.Time) {
	s.Transcript = append(s.Transcript,
		Turn{Speaker: SpeakerUser, Text: input},
		Turn{Speaker: SpeakerModel, Text: reply},
	)
	s.UpdatedAt = now.UTC()
}
