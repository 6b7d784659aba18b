package orchestrator

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/vaultagent/src/aisdk"
)

// defaultHistoryBudget bounds the token cost of prior turns sent to the
// model. The current user message and system prompt are not counted against
// it.
const defaultHistoryBudget = 8000

var (
	encodingOnce sync.Once
	encoding     *tiktoken.Tiktoken
)

// countTokens estimates the token cost of a string. Falls back to a bytes/4
// heuristic when the encoding is unavailable (e.g. no network to fetch the
// BPE ranks).
func countTokens(s string) int {
	encodingOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			encoding = enc
		}
	})
	if encoding == nil {
		return len(s)/4 + 1
	}
	return len(encoding.Encode(s, nil, nil))
}

func messageCost(msg *aisdk.Message) int {
	cost := countTokens(msg.Content)
	for _, tc := range msg.ToolCalls {
		cost += countTokens(string(tc.Args)) + countTokens(string(tc.Result))
	}
	return cost
}

// trimHistory drops the oldest turns until the remainder fits the budget.
// The most recent message is always kept.
func trimHistory(msgs []*aisdk.Message, budget int) []*aisdk.Message {
	if budget <= 0 {
		budget = defaultHistoryBudget
	}
	total := 0
	for i := len(msgs) - 1; i >= 0; i-- {
		total += messageCost(msgs[i])
		if total > budget && i < len(msgs)-1 {
			return msgs[i+1:]
		}
	}
	return msgs
}
