package checks

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

var (
	amountPattern      = regexp.MustCompile(`(?i)\b(?:ksh|kes|shs?)\.?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	amountLabelPattern = regexp.MustCompile(`(?i)\bamount\s*[:\-]?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`)
	isoDatePattern     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	dmyDatePattern     = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`)
	checkNumberPattern = regexp.MustCompile(`(?i)\b(?:cheque|check|chq)\s*(?:no\.?|number|#)\s*[:#]?\s*([A-Z0-9][A-Z0-9-]{3,})`)
	checkPrefixPattern = regexp.MustCompile(`(?i)\b(CHK-[A-Z0-9-]+)`)
	payeePattern       = regexp.MustCompile(`(?im)^\s*(?:pay\s+to\s+the\s+order\s+of|payee|pay)\b\s*[:\-]?\s*(.+?)\s*$`)
	bankLabelPattern   = regexp.MustCompile(`(?im)^\s*bank\s*:\s*(.+?)\s*$`)
	bankLinePattern    = regexp.MustCompile(`(?im)^\s*(.*\bbank\b.*?)\s*$`)
	memoPattern        = regexp.MustCompile(`(?im)^\s*(?:memo|for|re)\s*[:\-]\s*(.+?)\s*$`)
)

// ParseCheckText pulls the payment fields out of OCR text. Only the amount is
// required; missing fields are left empty.
func ParseCheckText(text string) (models.CheckData, error) {
	var data models.CheckData

	raw := firstMatch(text, amountPattern, amountLabelPattern)
	if raw == "" {
		return models.CheckData{}, models.NewValidationError("amount", "could not be read from the check")
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return models.CheckData{}, models.NewValidationError("amount", "could not be read from the check")
	}
	data.Amount = amount

	data.Date = parseDate(text)
	data.CheckNumber = strings.ToUpper(firstMatch(text, checkNumberPattern, checkPrefixPattern))
	data.Payee = firstMatch(text, payeePattern)
	data.Bank = firstMatch(text, bankLabelPattern, bankLinePattern)
	data.Memo = firstMatch(text, memoPattern)

	return data, nil
}

func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); len(m) > 1 {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// parseDate accepts ISO dates and day-first numeric dates.
func parseDate(text string) time.Time {
	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return t
		}
	}
	if m := dmyDatePattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			if t.Day() == day {
				return t
			}
		}
	}
	return time.Time{}
}
