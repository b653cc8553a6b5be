package types

// Attempt and snapshot row statuses.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Submission statuses.
const (
	SubmissionSubmitted = "submitted"
	SubmissionInReview  = "in_review"
	SubmissionPassed    = "passed"
	SubmissionFailed    = "failed"
)

// Enrollment statuses.
const (
	EnrollmentInProgress = "in_progress"
	EnrollmentCompleted  = "completed"
)

// attemptTransitions is the legal transition table for the attempt status
// machine. Self-transitions are listed where a repeat of the triggering
// event is legal (resubmission keeps the attempt in_progress).
var attemptTransitions = map[string][]string{
	StatusNotStarted: {StatusInProgress},
	StatusInProgress: {StatusInProgress, StatusCompleted},
	StatusCompleted:  {},
}

// submissionTransitions governs the grading machine. failed -> submitted is
// only reachable for resubmittable assessment kinds; the workflow checks the
// kind before consulting the table.
var submissionTransitions = map[string][]string{
	SubmissionSubmitted: {SubmissionInReview, SubmissionPassed, SubmissionFailed},
	SubmissionInReview:  {SubmissionPassed, SubmissionFailed},
	SubmissionFailed:    {SubmissionSubmitted},
	SubmissionPassed:    {},
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// CanAttemptTransition reports whether an attempt may move from -> to.
func CanAttemptTransition(from, to string) bool {
	return contains(attemptTransitions[from], to)
}

// CanSubmissionTransition reports whether a submission may move from -> to.
func CanSubmissionTransition(from, to string) bool {
	return contains(submissionTransitions[from], to)
}

// ValidEvaluationStatus reports whether s is a status a trainer may set on a
// submission during evaluation.
func ValidEvaluationStatus(s string) bool {
	switch s {
	case SubmissionInReview, SubmissionPassed, SubmissionFailed:
		return true
	}
	return false
}
