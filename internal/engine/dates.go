package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"

	"FgdcMigrator/internal/diag"
)

const isoDate = "Specific date (YYYY-MM-DD)"

var (
	vagueTokens  = map[string]struct{}{"varies": {}, "unknown": {}, "not specified": {}, "present": {}}
	statusTokens = map[string]struct{}{"planned": {}, "unpublished": {}, "unpublished material": {}}

	reYearRange    = regexp.MustCompile(`^\d{4}-\d{4}$`)
	reFullRange    = regexp.MustCompile(`^\d{8}-\d{8}$`)
	reMonthRange   = regexp.MustCompile(`^\d{6}-\d{6}$`)
	reSpaceYears   = regexp.MustCompile(`^\d{4}\s+\d{4}$`)
	reTwoDigitPair = regexp.MustCompile(`^\d{2}-\d{2}$`)
	rePresentEnd   = regexp.MustCompile(`(\d{4})-Present$`)
	reYear         = regexp.MustCompile(`\d{4}`)
	reTwoDigits    = regexp.MustCompile(`\d{2}`)
	reDigitsOnly   = regexp.MustCompile(`^\d+$`)
)

// expandTwoDigitYear maps a two-digit year with pivot 50: below 50 is 20xx,
// otherwise 19xx.
func expandTwoDigitYear(year int) int {
	if year < 50 {
		return year + 2000
	}
	return year + 1900
}

// NormalizeDate resolves a raw source date token into canonical YYYY-MM-DD
// form. Rules are tried in a fixed order and the first match wins; every
// path that discards information emits a diagnostic naming the original
// token and the chosen substitute. The boolean is false when no resolution
// exists, which is itself reported, never silently defaulted.
func (e *Engine) NormalizeDate(token, fieldPath string, c *diag.Collector) (string, bool) {
	raw := strings.TrimSpace(token)
	lower := strings.ToLower(raw)

	if _, vague := vagueTokens[lower]; raw == "" || vague {
		found := raw
		if found == "" {
			found = "empty"
		}
		c.Warn(fieldPath, "vague_date", found, isoDate,
			"Use metadata date or current date as fallback")
		return "", false
	}

	if _, status := statusTokens[lower]; status {
		year := e.now().Year()
		c.Warn(fieldPath, "status_date", raw, isoDate,
			fmt.Sprintf("Using current year %d for unpublished/planned material", year))
		return fmt.Sprintf("%d-01-01", year), true
	}

	if reYearRange.MatchString(raw) {
		year := raw[:4]
		c.Warn(fieldPath, "date_range", raw, isoDate,
			fmt.Sprintf("Using first year %s from range", year))
		return year + "-01-01", true
	}

	if reFullRange.MatchString(raw) {
		first := raw[:4] + "-" + raw[4:6] + "-" + raw[6:8]
		c.Warn(fieldPath, "date_range", raw, isoDate,
			fmt.Sprintf("Using first date %s from range", first))
		return first, true
	}

	if strings.Contains(raw, ",") {
		if year := reYear.FindString(raw); year != "" {
			c.Warn(fieldPath, "multiple_years", raw, isoDate,
				fmt.Sprintf("Using first year %s", year))
			return year + "-01-01", true
		}
	}

	if m := rePresentEnd.FindStringSubmatch(raw); m != nil {
		c.Warn(fieldPath, "present_range", raw, isoDate,
			fmt.Sprintf("Using year %s", m[1]))
		return m[1] + "-01-01", true
	}

	if reMonthRange.MatchString(raw) {
		first := raw[:4] + "-" + raw[4:6] + "-01"
		c.Warn(fieldPath, "month_range", raw, isoDate,
			fmt.Sprintf("Using first month %s", raw[:4]+"-"+raw[4:6]))
		return first, true
	}

	if reSpaceYears.MatchString(raw) {
		year := strings.Fields(raw)[0]
		c.Warn(fieldPath, "space_separated_years", raw, isoDate,
			fmt.Sprintf("Using first year %s", year))
		return year + "-01-01", true
	}

	// Loose "thru" ranges keep the historical first-two-digit heuristic; a
	// token with no digits at all is flagged instead of silently accepted.
	if strings.Contains(lower, "thru") {
		if m := reTwoDigits.FindString(raw); m != "" {
			n, _ := strconv.Atoi(m)
			year := expandTwoDigitYear(n)
			c.Warn(fieldPath, "complex_date_range", raw, isoDate,
				fmt.Sprintf("Using first year %d from range", year))
			return fmt.Sprintf("%d-01-01", year), true
		}
		c.Error(fieldPath, "no_numbers_found", raw, "Date with extractable numbers",
			"Token contains no two-digit number to expand into a year")
		return "", false
	}

	if strings.Contains(raw, " - ") || strings.Contains(raw, " to ") {
		if year := reYear.FindString(raw); year != "" {
			c.Warn(fieldPath, "date_range", raw, isoDate,
				fmt.Sprintf("Using first year %s from range", year))
			return year + "-01-01", true
		}
		c.Error(fieldPath, "invalid_date_range", raw, "Date range with extractable year",
			"Could not extract a four-digit year from the range")
		return "", false
	}

	if reTwoDigitPair.MatchString(raw) {
		n, _ := strconv.Atoi(raw[:2])
		year := expandTwoDigitYear(n)
		c.Warn(fieldPath, "two_digit_year", raw, "Four-digit year (YYYY)",
			fmt.Sprintf("Converted to %d", year))
		return fmt.Sprintf("%d-01-01", year), true
	}

	if reDigitsOnly.MatchString(raw) {
		switch len(raw) {
		case 4:
			return raw + "-01-01", true
		case 6:
			return raw[:4] + "-" + raw[4:6] + "-01", true
		case 8:
			return raw[:4] + "-" + raw[4:6] + "-" + raw[6:8], true
		}
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		c.Error(fieldPath, "invalid_date_format", raw, "YYYY, YYYYMM, or YYYYMMDD format",
			"Review date format and add parsing logic")
		return "", false
	}
	return parsed.Format("2006-01-02"), true
}
