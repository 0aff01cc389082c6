package normalizers

const (
	PreviewCap     = 500
	CommentBodyCap = 1000
)

// Truncate cuts s to limit runes and appends "..." only when something was cut.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
