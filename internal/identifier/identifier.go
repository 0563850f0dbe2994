// Package identifier derives the human-readable codes for records and
// drafts. A record code is a fiscal-year prefix followed by a zero-padded
// sequence, e.g. "23240007" for the 7th record of fiscal year 2023/24.
// Draft codes live in their own "DRAFT-<prefix>-<n>" namespace.
package identifier

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The fiscal year runs April through March.
const fiscalYearStartMonth = time.April

const draftPrefix = "DRAFT"

// FiscalYearPrefix returns the two-digit start year concatenated with the
// two-digit end year of the fiscal year containing t, e.g. "2324" for any
// date from April 2023 through March 2024.
func FiscalYearPrefix(t time.Time) string {
	year := t.Year()
	if t.Month() < fiscalYearStartMonth {
		year--
	}

	return fmt.Sprintf("%02d%02d", year%100, (year+1)%100)
}

// NextErrorID builds the next record code for a prefix given the highest
// sequence already in use (0 when none exist).
func NextErrorID(prefix string, maxSeq int) string {
	return fmt.Sprintf("%s%04d", prefix, maxSeq+1)
}

// NextDraftID builds the next draft code for a prefix given the highest
// draft sequence already in use.
func NextDraftID(prefix string, maxSeq int) string {
	return fmt.Sprintf("%s-%s-%d", draftPrefix, prefix, maxSeq+1)
}

// SequenceFromErrorID extracts the numeric suffix of a record code.
// Codes that do not carry a numeric suffix after the 4-character prefix
// yield 0.
func SequenceFromErrorID(errorID string) int {
	if len(errorID) <= 4 {
		return 0
	}

	seq, err := strconv.Atoi(errorID[4:])
	if err != nil {
		return 0
	}

	return seq
}

// SequenceFromDraftID extracts the trailing sequence of a draft code.
func SequenceFromDraftID(draftID string) int {
	parts := strings.Split(draftID, "-")
	if len(parts) != 3 || parts[0] != draftPrefix {
		return 0
	}

	seq, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0
	}

	return seq
}
