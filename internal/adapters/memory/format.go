// Package memory provides bounded per-sender conversation history
// stores. All implementations trim to the retention bound on append
// (oldest entries evicted first) and treat missing or corrupt backing
// storage as empty history.
package memory

import (
	"fmt"
	"strings"

	"github.com/mikey/llm-email-assistant/internal/core"
)

// NoHistoryContext is the rendered context when a sender has no prior
// conversation history.
const NoHistoryContext = "No previous conversation history."

// FormatContext renders history entries as the human-readable block
// handed to the reply prompt: a numbered block per entry with its
// sender, subject and body, separated by blank lines.
func FormatContext(entries []core.HistoryEntry) string {
	if len(entries) == 0 {
		return NoHistoryContext
	}

	parts := []string{"Previous conversation history:"}
	for i, entry := range entries {
		parts = append(parts, fmt.Sprintf("%d. From: %s", i+1, entry.From))
		parts = append(parts, fmt.Sprintf("   Subject: %s", entry.Subject))
		parts = append(parts, fmt.Sprintf("   Body: %s", entry.Body))
		parts = append(parts, "")
	}

	return strings.Join(parts, "\n")
}
