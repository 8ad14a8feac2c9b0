package syncproto

import (
	"strconv"
	"strings"

	"owners-health-api/internal/model"
)

const (
	maxTitleRunes = 200
	maxURLRunes   = 500
)

// ParseCount reads an unreplied-review count. Anything that is not a whole
// number becomes model.UnknownCount.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return model.UnknownCount
	}
	return n
}

// ParsePrice reads a price written with optional thousands separators
// ("12,900"). It returns nil when the text is not a whole number.
func ParsePrice(raw string) *int64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// NewPriceReport builds a price payload from raw callback fields.
func NewPriceReport(price, title, url string) *model.PriceReport {
	return &model.PriceReport{
		Price: ParsePrice(price),
		Title: truncate(title, maxTitleRunes),
		URL:   truncate(url, maxURLRunes),
	}
}

// ParseID reads a record id from a callback field. Invalid input yields 0.
func ParseID(raw string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseFlag reads a presence flag reported as "1"/"0" or "true"/"false".
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
