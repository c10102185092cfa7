package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/minibank/fraud-chat/internal/core/domain"
)

const initialPersona = "You are a fraud assistant chatbot working for the bank. " +
	"Speak as the bank using 'we' and 'our team'. Do not refer to the bank in the third person. "

const fallbackPersona = "You are a helpful banking assistant. Continue the conversation in a helpful, " +
	"friendly tone, staying in character as the user's bank."

var followUpInstructions = map[string]string{
	domain.TopicVerifyTransaction: "You are a bank's AI assistant. The user wants to verify a suspicious transaction. " +
		"Guide the user through confirming the merchant, location, and travel history. " +
		"Speak as the bank, using phrases like 'we' and 'our system'. Do not tell the user to contact the bank — you *are* the bank.",
	domain.TopicPreventFraud: "You are the bank's AI assistant. Provide proactive fraud prevention tips, such as enabling 2FA, " +
		"using transaction alerts, and monitoring account activity. " +
		"Use a friendly tone and speak as the bank. Avoid saying 'your bank' or referring to yourself in third person.",
	domain.TopicReportIssue: "The user wants to report suspicious activity. You are the bank's fraud assistant. " +
		"Explain how the user can freeze their card, change passwords, and initiate a fraud report. " +
		"Do NOT tell them to 'contact your bank'. You *are* the bank. " +
		"Use phrases like 'we’ll take care of this' or 'we’ll freeze your account now'.",
}

// BuildInitialPrompt renders the first prompt of a turn pair. The question is
// interpolated verbatim; the model is trusted to resist injected instructions.
func BuildInitialPrompt(user domain.UserRecord, txs []domain.Transaction, question string) string {
	var b strings.Builder
	b.WriteString(initialPersona)
	fmt.Fprintf(&b, "The user, %s, has recently made these transactions: %s. ", user.Username, summarizeTransactions(txs))
	fmt.Fprintf(&b, "The user asks: '%s'. ", question)
	b.WriteString("Provide a brief fraud risk assessment, then offer suggested next steps. End with: ")
	fmt.Fprintf(&b, "(1) %s, (2) %s, or (3) %s. Wait for the user's choice before continuing.",
		domain.TopicVerifyTransaction, domain.TopicPreventFraud, domain.TopicReportIssue)
	return b.String()
}

// BuildFollowUpPrompt never fails: unknown topics get the generic persona.
func BuildFollowUpPrompt(topic string) string {
	if p, ok := followUpInstructions[topic]; ok {
		return p
	}
	return fallbackPersona
}

func summarizeTransactions(txs []domain.Transaction) string {
	parts := make([]string, 0, len(txs))
	for _, tx := range txs {
		parts = append(parts, fmt.Sprintf("$%s at %s on %s",
			formatAmount(tx.Amount), tx.Location, tx.Date.Format(domain.DateLayout)))
	}
	return strings.Join(parts, ", ")
}

// formatAmount keeps at least one fractional digit: 500 -> "500.0", 15.75 -> "15.75".
func formatAmount(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
