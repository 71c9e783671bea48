package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	firstIntRe = regexp.MustCompile(`\d+`)
	// numberGroupRe matches digit runs optionally joined by spaces or commas,
	// so "1 200" and "1,200" both read as 1200.
	numberGroupRe = regexp.MustCompile(`\d+(?:[\s,]+\d+)*`)
	nonDigitRe    = regexp.MustCompile(`[^\d]`)
)

// firstInt returns the first integer found in s, or fallback if none.
func firstInt(s string, fallback int) int {
	m := firstIntRe.FindString(s)
	if m == "" {
		return fallback
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return fallback
	}
	return n
}

// meanOfNumbers returns the mean of every number found in s after
// normalizing comma and space digit grouping. The second return is false
// when s contains no number. Every match counts, related to a price or not.
func meanOfNumbers(s string) (float64, bool) {
	matches := numberGroupRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	sum := 0.0
	count := 0
	for _, m := range matches {
		n, err := strconv.ParseFloat(nonDigitRe.ReplaceAllString(m, ""), 64)
		if err != nil {
			continue
		}
		sum += n
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// isYes reports whether a yes/no oracle answer affirms.
func isYes(s string) bool {
	return strings.Contains(strings.ToLower(s), "yes")
}

// extractJSON returns the outermost {...} substring of s, trimming any prose
// or code fences the oracle wrapped around it.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}
