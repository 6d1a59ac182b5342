package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/aibbs/aibbs-web/internal/domain"
)

const excerptRunes = 200

// Excerpt condenses post content for list cards: whitespace collapsed,
// truncated at 200 runes with an ellipsis. Truncation counts runes, not
// bytes, so CJK content is not cut mid-character.
func Excerpt(content string) string {
	condensed := strings.Join(strings.Fields(content), " ")
	runes := []rune(condensed)
	if len(runes) <= excerptRunes {
		return condensed
	}
	return string(runes[:excerptRunes]) + "…"
}

// pageNumbers returns the page links to show around current: first, last,
// and a window of two on each side. A zero marks an elision gap.
func pageNumbers(current, total int) []int {
	if total <= 7 {
		nums := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			nums = append(nums, i)
		}
		return nums
	}

	nums := []int{1}
	lo, hi := current-2, current+2
	if lo > 2 {
		nums = append(nums, 0)
	}
	for i := max(lo, 2); i <= min(hi, total-1); i++ {
		nums = append(nums, i)
	}
	if hi < total-1 {
		nums = append(nums, 0)
	}
	return append(nums, total)
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// authorLink prints the byline. A missing author gets a plain label, never
// a link to a profile that cannot exist.
func authorLink(u *domain.User, b *strings.Builder) {
	if u == nil || u.Username == "" {
		fmt.Fprintf(b, `<span class="author">%s</span>`, esc(u.DisplayName()))
		return
	}
	fmt.Fprintf(b, `<a class="author" href="/personal/%s">%s</a>`, esc(u.Username), esc(u.DisplayName()))
}
