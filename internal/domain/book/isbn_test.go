package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid isbn13 passes through", "9780306406157", "9780306406157"},
		{"isbn13 with hyphens", "978-0-306-40615-7", "9780306406157"},
		{"isbn13 with corrupted check digit is repaired", "9780306406150", "9780306406157"},
		{"isbn10 converts to isbn13", "0306406152", "9780306406157"},
		{"isbn10 with hyphens", "0-306-40615-2", "9780306406157"},
		{"isbn10 with wrong check digit still converts", "0306406159", "9780306406157"},
		{"twelve digits gets a check digit", "978030640615", "9780306406157"},
		{"nine digit sbn", "030640615", "9780306406157"},
		{"empty", "", ""},
		{"garbage", "not-a-book", ""},
		{"too short", "12345", ""},
		{"letters mixed through digits", "isbn: 9780306406157 (pbk)", "9780306406157"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeISBN(tt.input))
		})
	}
}

func TestEvaluationRecord_Score(t *testing.T) {
	var rec EvaluationRecord
	assert.Equal(t, 0.0, rec.Score())

	score := 72.5
	rec.ConfidenceScore = &score
	assert.Equal(t, 72.5, rec.Score())
}
