package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Oracle is the grading dependency: given a prompt encoding a rubric and
// candidate input, it returns raw text expected to contain a JSON object.
// Treated as an unreliable, latency-bearing service.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// StripCodeFences removes incidental markdown formatting around an oracle
// answer so the JSON inside can be parsed.
func StripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") {
		if idx := strings.Index(t, "\n"); idx >= 0 {
			t = t[idx+1:]
		} else {
			t = strings.TrimPrefix(t, "```")
		}
		t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	}
	return strings.TrimSpace(t)
}

// completeJSON runs the oracle and returns the cleaned response text, which
// is guaranteed to parse as a JSON object. Parse failure is reported as
// ErrOracleMalformed, transport failure as ErrOracleUnavailable; callers
// apply their own fail-open or fail-closed policy on top.
func completeJSON(ctx context.Context, oracle Oracle, prompt string) (string, error) {
	raw, err := oracle.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOracleUnavailable, err)
	}
	text := StripCodeFences(raw)
	if !gjson.Valid(text) || !gjson.Parse(text).IsObject() {
		return "", fmt.Errorf("%w: %q", ErrOracleMalformed, truncate(raw, 200))
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
