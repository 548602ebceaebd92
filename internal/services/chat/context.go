// File: internal/services/chat/context.go
package chat

import (
	"strings"
	"unicode/utf8"

	"github.com/iyunix/go-codementor/internal/domain"
	"github.com/iyunix/go-codementor/internal/services/ai"
)

// TruncateText safely truncates a UTF-8 string to maxLen runes.
func TruncateText(input string, maxLen int) string {
	if input == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(input) <= maxLen {
		return input
	}

	var b strings.Builder
	count := 0
	for _, r := range input {
		if count >= maxLen {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}

// DeriveTitle builds a chat title from the first message: at most maxRunes
// runes, plus ellipsis when anything was cut.
func DeriveTitle(firstMessage string, maxRunes int, ellipsis string) string {
	title := TruncateText(firstMessage, maxRunes)
	if utf8.RuneCountInString(firstMessage) > maxRunes {
		title += ellipsis
	}
	return title
}

// BuildTurns converts stored history (oldest first) plus the new user input
// into gateway turns. The persona turn is added by the gateway.
func BuildTurns(history []domain.Message, content string) []ai.Turn {
	turns := make([]ai.Turn, 0, len(history)+1)
	for _, msg := range history {
		turns = append(turns, ai.Turn{Role: msg.Role, Content: msg.Content})
	}
	return append(turns, ai.Turn{Role: domain.RoleUser, Content: content})
}
