package types

import "testing"

func TestCanAttemptTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusNotStarted, StatusInProgress, true},
		{StatusNotStarted, StatusCompleted, false},
		{StatusInProgress, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCompleted, false},
		{"bogus", StatusInProgress, false},
	}
	for _, tc := range cases {
		if got := CanAttemptTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want=%v got=%v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestCanSubmissionTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{SubmissionSubmitted, SubmissionInReview, true},
		{SubmissionSubmitted, SubmissionPassed, true},
		{SubmissionSubmitted, SubmissionFailed, true},
		{SubmissionSubmitted, SubmissionSubmitted, false},
		{SubmissionInReview, SubmissionPassed, true},
		{SubmissionInReview, SubmissionFailed, true},
		{SubmissionInReview, SubmissionSubmitted, false},
		{SubmissionFailed, SubmissionSubmitted, true},
		{SubmissionFailed, SubmissionPassed, false},
		{SubmissionPassed, SubmissionFailed, false},
		{SubmissionPassed, SubmissionSubmitted, false},
	}
	for _, tc := range cases {
		if got := CanSubmissionTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: want=%v got=%v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestValidEvaluationStatus(t *testing.T) {
	for _, s := range []string{SubmissionInReview, SubmissionPassed, SubmissionFailed} {
		if !ValidEvaluationStatus(s) {
			t.Fatalf("%q should be a valid evaluation status", s)
		}
	}
	for _, s := range []string{SubmissionSubmitted, StatusCompleted, "", "graded"} {
		if ValidEvaluationStatus(s) {
			t.Fatalf("%q should not be a valid evaluation status", s)
		}
	}
}
