package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type loginResponse struct {
	Token   string      `json:"token"`
	Session sessionView `json:"session"`
}

// askRequest deliberately has no required tag: a blank question is answered
// with the unchanged session.
type askRequest struct {
	Question string `json:"question" validate:"max=2000"`
}

type followUpRequest struct {
	Topic string `json:"topic" validate:"required"`
}

type turnView struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

type sessionView struct {
	SessionID      string     `json:"session_id"`
	Authenticated  bool       `json:"authenticated"`
	UserID         *int64     `json:"user_id"`
	Username       string     `json:"username,omitempty"`
	Phase          string     `json:"phase"`
	Mode           string     `json:"mode"`
	Transcript     []turnView `json:"transcript"`
	FollowUpTopics []string   `json:"follow_up_topics,omitempty"`
}

type topicsResponse struct {
	Topics []topicView `json:"topics"`
}

type topicView struct {
	Number int    `json:"number"`
	Label  string `json:"label"`
}
