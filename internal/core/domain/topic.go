package domain

import "strconv"

// Follow-up menu labels offered after every answered question.
const (
	TopicVerifyTransaction = "Verify a specific transaction"
	TopicPreventFraud      = "Learn how to prevent fraud"
	TopicReportIssue       = "Report an issue"
)

// FollowUpTopics is the menu in display order; position i is choice i+1.
var FollowUpTopics = []string{
	TopicVerifyTransaction,
	TopicPreventFraud,
	TopicReportIssue,
}

// ParseTopic resolves either a menu label or its 1-based choice number.
func ParseTopic(s string) (string, bool) {
	for _, t := range FollowUpTopics {
		if s == t {
			return t, true
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > len(FollowUpTopics) {
		return "", false
	}
	return FollowUpTopics[n-1], true
}
