package store

import (
	"encoding/json"
	"fmt"

	"github.com/spotcoach/cravebreaker/internal/models"
)

// nilIfEmpty returns nil if s is empty, otherwise returns s.
// Used for nullable database columns.
func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// decodeTechniqueCounts parses the technique tally JSON column. A corrupt
// value yields an empty map rather than failing the read.
func decodeTechniqueCounts(raw string) map[string]int {
	counts := make(map[string]int)
	if raw == "" {
		return counts
	}
	if err := json.Unmarshal([]byte(raw), &counts); err != nil {
		return make(map[string]int)
	}
	return counts
}

// decodeUsedQuestions parses the coaching-question rotation JSON column.
func decodeUsedQuestions(raw string) []int {
	if raw == "" {
		return nil
	}
	var used []int
	if err := json.Unmarshal([]byte(raw), &used); err != nil {
		return nil
	}
	return used
}

// encodeProgressJSON serializes the two JSON-backed progress columns.
func encodeProgressJSON(p models.Progress) (countsJSON, usedJSON string, err error) {
	counts := p.TechniqueCounts
	if counts == nil {
		counts = make(map[string]int)
	}
	cb, err := json.Marshal(counts)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal technique counts: %w", err)
	}
	used := p.UsedCoachingQuestions
	if used == nil {
		used = []int{}
	}
	ub, err := json.Marshal(used)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal used coaching questions: %w", err)
	}
	return string(cb), string(ub), nil
}
