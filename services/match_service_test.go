package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestUpdateScoreInputValidation(t *testing.T) {
	svc := &matchService{}

	tests := []struct {
		name  string
		input UpdateScoreInput
	}{
		{name: "only scoreA", input: UpdateScoreInput{ScoreA: intPtr(1)}},
		{name: "only scoreB", input: UpdateScoreInput{ScoreB: intPtr(1)}},
		{name: "negative scoreA", input: UpdateScoreInput{ScoreA: intPtr(-1), ScoreB: intPtr(0)}},
		{name: "negative scoreB", input: UpdateScoreInput{ScoreA: intPtr(0), ScoreB: intPtr(-2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.UpdateScore(context.Background(), "t1", "m1", tt.input)
			assert.ErrorIs(t, err, ErrScoreInvalid)
		})
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := &tournamentService{}

	for _, title := range []string{"", "   "} {
		_, _, err := svc.Create(context.Background(), CreateTournamentInput{Title: title})
		assert.ErrorIs(t, err, ErrTitleRequired)
	}
}
