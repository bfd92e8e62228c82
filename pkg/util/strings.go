package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FuzzyMatch performs fuzzy string matching using Levenshtein distance
// Returns the minimum edit distance between str1 and the best matching substring of str2
func FuzzyMatch(str1, str2 string) int {
	// Normalize strings: lowercase and remove extra spaces
	str1 = strings.ToLower(strings.TrimSpace(str1))
	str2 = strings.ToLower(strings.TrimSpace(str2))

	var shorter, longer string
	if len(str1) <= len(str2) {
		shorter = str1
		longer = str2
	} else {
		shorter = str2
		longer = str1
	}

	// Slide the shorter string across the longer string looking for
	// the best partial match
	minDistance := math.MaxInt32

	for i := 0; i <= len(longer)-len(shorter); i++ {
		substring := longer[i : i+len(shorter)]
		distance := LevenshteinDistance(shorter, substring)
		if distance < minDistance {
			minDistance = distance
		}
		if minDistance == 0 {
			break
		}
	}

	return minDistance
}

// LevenshteinDistance calculates the Levenshtein distance between two strings
func LevenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
	}

	for i := 0; i <= len(s1); i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func min3(a, b, c int) int {
	if a < b && a < c {
		return a
	}
	if b < c {
		return b
	}
	return c
}

// GetAsInteger converts various types to integer
// If s is a string that represents an integer, convert it and return it
func GetAsInteger(s any) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to integer")
	}

	switch v := s.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float32:
		if v != float32(int(v)) {
			return 0, fmt.Errorf("float32 value %f is not a whole number", v)
		}
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("float64 value %f is not a whole number", v)
		}
		return int(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("cannot convert empty string to integer")
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to integer: %w", v, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to integer", s)
	}
}

// GetAsFloat converts various types to float64
// Empty strings are an error, use math.NaN explicitly for missing values
func GetAsFloat(s any) (float64, error) {
	if s == nil {
		return 0, fmt.Errorf("cannot convert nil to float")
	}

	switch v := s.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return 0, fmt.Errorf("cannot convert empty string to float")
		}
		parsed, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert string %q to float: %w", v, err)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("cannot convert type %T to float", s)
	}
}
