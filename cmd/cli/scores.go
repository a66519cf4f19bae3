package main

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mauv0809/matchpoint/internal/scoring"
)

// entryPattern matches "6-4", "7-6(7-3)" and "15-14 (17-15)".
var entryPattern = regexp.MustCompile(`^\s*(\d+)\s*-\s*(\d+)\s*(?:\(\s*(\d+)\s*-\s*(\d+)\s*\))?\s*$`)

// parseSheet turns command-line scores into a score sheet, one argument per
// set or game.
func parseSheet(args []string) (scoring.Sheet, error) {
	if len(args) > scoring.MaxEntries {
		return nil, fmt.Errorf("at most %d sets or games, got %d", scoring.MaxEntries, len(args))
	}
	var sheet scoring.Sheet
	for i, arg := range args {
		e, err := parseEntry(i, arg)
		if err != nil {
			return nil, err
		}
		sheet = sheet.Set(e)
	}
	return sheet, nil
}

func parseEntry(index int, s string) (scoring.SetEntry, error) {
	m := entryPattern.FindStringSubmatch(s)
	if m == nil {
		return scoring.SetEntry{}, fmt.Errorf("cannot read score %q, expected e.g. 6-4 or 7-6(7-3)", s)
	}
	e := scoring.SetEntry{Index: index, Team1: atoi(m[1]), Team2: atoi(m[2])}
	if m[3] != "" {
		e = e.WithExtended(atoi(m[3]), atoi(m[4]))
	}
	return e, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
