package types

import (
	"github.com/google/uuid"
)

// CourseTree is the read-only view of a course's authored content that the
// snapshot builder and the sync service consume.
type CourseTree struct {
	Course    *Course
	Modules   []*CourseModule
	Lectures  map[uuid.UUID][]*Lecture         // keyed by module id
	Materials map[uuid.UUID][]*LectureMaterial // keyed by lecture id
	Quizzes   []*Quiz
	Exams     []*Exam
	Projects  []*Project
}

func (t *CourseTree) LectureCount() int {
	n := 0
	for _, ls := range t.Lectures {
		n += len(ls)
	}
	return n
}
