// Package offline provides a deterministic ports.LanguageModel for demos and
// local runs without an API key.
package offline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

var questionRe = regexp.MustCompile(`The user asks: '(.*)'\. `)

// Replies are picked by the first keyword found in the prompt.
var cannedReplies = []struct {
	keyword string
	reply   string
}{
	{"verify a suspicious transaction", "We can verify that with you. Please confirm the merchant name, " +
		"where the card was used and whether you were travelling on that date. Our system will flag the charge while we review it."},
	{"fraud prevention tips", "Here are a few ways we help keep your account safe: turn on two-factor authentication, " +
		"enable transaction alerts in the app and review your statements weekly."},
	{"report suspicious activity", "We'll take care of this. We have frozen your card, and you can unfreeze it from the app at any time. " +
		"Please change your online banking password; we have opened a fraud report for you."},
}

type Model struct{}

func New() *Model {
	return &Model{}
}

func (m *Model) Generate(ctx context.Context, prompt string, history []domain.Turn) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrModelUnavailable, err)
	}

	if match := questionRe.FindStringSubmatch(prompt); match != nil {
		return fmt.Sprintf("We reviewed your recent transactions regarding %q. "+
			"Charges made abroad carry a higher risk, so we recommend a closer look. "+
			"Would you like to: (1) %s, (2) %s, or (3) %s?",
			match[1], domain.TopicVerifyTransaction, domain.TopicPreventFraud, domain.TopicReportIssue), nil
	}

	for _, c := range cannedReplies {
		if strings.Contains(prompt, c.keyword) {
			return c.reply, nil
		}
	}
	return fmt.Sprintf("We're here to help. Ask us anything else about your account (turn %d).", len(history)/2+1), nil
}
