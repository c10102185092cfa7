package handler

import "github.com/minibank/fraud-chat/internal/core/domain"

func toSessionView(s *domain.Session) sessionView {
	v := sessionView{
		SessionID:     s.ID,
		Authenticated: s.Authenticated,
		UserID:        s.UserID,
		Username:      s.Username,
		Phase:         string(s.Phase()),
		Mode:          string(s.Mode),
		Transcript:    make([]turnView, 0, len(s.Transcript)),
	}
	for _, t := range s.Transcript {
		v.Transcript = append(v.Transcript, turnView{Speaker: string(t.Speaker), Text: t.Text})
	}
	if s.Phase() == domain.PhaseFollowUp {
		v.FollowUpTopics = append([]string(nil), domain.FollowUpTopics...)
	}
	return v
}

func toTopicsResponse() topicsResponse {
	resp := topicsResponse{Topics: make([]topicView, 0, len(domain.FollowUpTopics))}
	for i, label := range domain.FollowUpTopics {
		resp.Topics = append(resp.Topics, topicView{Number: i + 1, Label: label})
	}
	return resp
}
