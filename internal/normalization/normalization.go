package normalization

import (
  "strings"
)

// ParseInputString canonicalizes free-form user input: trimmed, lowercased.
// Emails and lookup keys go through here before touching storage.
func ParseInputString(input string) string {
  return strings.ToLower(strings.TrimSpace(input))
}
