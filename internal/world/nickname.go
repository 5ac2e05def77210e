package world

// NormalizeNickname lowercases a display name for uniqueness
// comparisons. Never used for display.
func NormalizeNickname(nickname string) string {
	b := []byte(nickname)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// IsValidNickname accepts names of minLen..maxLen bytes consisting of
// ASCII alphanumerics and underscore.
func IsValidNickname(nickname string, minLen, maxLen int) bool {
	if len(nickname) < minLen || len(nickname) > maxLen {
		return false
	}
	for i := 0; i < len(nickname); i++ {
		c := nickname[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return false
		}
	}
	return true
}
