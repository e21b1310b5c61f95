package engine

import "testing"

func turnsWithGrades(grades []float64, lastWordCount int) []ChatTurn {
	turns := make([]ChatTurn, len(grades))
	for i, g := range grades {
		turns[i] = ChatTurn{Question: "q", Answer: "a", Grade: g, WordCount: 60}
	}
	if len(turns) > 0 {
		turns[len(turns)-1].WordCount = lastWordCount
	}
	return turns
}

func TestAdaptiveController_RulePriority(t *testing.T) {
	var c AdaptiveController

	tests := []struct {
		name          string
		grades        []float64
		lastWordCount int
		wantProbe     bool
		wantTier      DifficultyTier
	}{
		{
			// Rule 1 wins over rule 2 even with a high running average.
			name:          "short answer with high average still probes",
			grades:        []float64{9, 9, 9},
			lastWordCount: 10,
			wantProbe:     true,
			wantTier:      TierStandard,
		},
		{
			name:          "low average probes regardless of length",
			grades:        []float64{4, 4, 4},
			lastWordCount: 200,
			wantProbe:     true,
			wantTier:      TierStandard,
		},
		{
			name:          "strong run asks for advanced",
			grades:        []float64{8, 9, 8},
			lastWordCount: 80,
			wantProbe:     false,
			wantTier:      TierAdvanced,
		},
		{
			name:          "strong run too early stays standard",
			grades:        []float64{9, 9},
			lastWordCount: 80,
			wantProbe:     false,
			wantTier:      TierStandard,
		},
		{
			name:          "middling run stays standard",
			grades:        []float64{6, 7, 6},
			lastWordCount: 80,
			wantProbe:     false,
			wantTier:      TierStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := c.Next(turnsWithGrades(tt.grades, tt.lastWordCount), false)
			if d.IsProbe != tt.wantProbe {
				t.Errorf("isProbe = %t, want %t", d.IsProbe, tt.wantProbe)
			}
			if d.Tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", d.Tier, tt.wantTier)
			}
		})
	}
}

// isFinished is never allowed before the minimum question count, whatever
// the average score or the oracle's coverage judgment.
func TestAdaptiveController_NoEarlyFinish(t *testing.T) {
	var c AdaptiveController

	for count := 0; count < MinQuestionsBeforeFinish; count++ {
		grades := make([]float64, count)
		for i := range grades {
			grades[i] = 10
		}
		d := c.Next(turnsWithGrades(grades, 100), true)
		if d.IsFinished {
			t.Errorf("isFinished = true at question count %d", count)
		}
	}
}

func TestAdaptiveController_FinishNeedsCoverage(t *testing.T) {
	var c AdaptiveController
	grades := []float64{7, 7, 7, 7, 7, 7}

	if d := c.Next(turnsWithGrades(grades, 100), false); d.IsFinished {
		t.Error("isFinished without adequate coverage")
	}
	if d := c.Next(turnsWithGrades(grades, 100), true); !d.IsFinished {
		t.Error("six adequate-coverage questions should allow finishing")
	}
}

func TestAdaptiveController_NoTurns(t *testing.T) {
	var c AdaptiveController
	d := c.Next(nil, false)
	if d.IsProbe || d.IsFinished || d.Tier != TierStandard {
		t.Errorf("empty history should be a plain standard directive, got %+v", d)
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 0},
		{"one", 1},
		{"  spaced   out   words  ", 3},
		{"line\nbreaks\tcount too", 4},
	}
	for _, tt := range tests {
		if got := WordCount(tt.input); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
