package services

import (
  "testing"

  "github.com/adanepro/spotlightacademy-sub000/internal/types"
)

func TestLectureProgress(t *testing.T) {
  cases := []struct {
    name         string
    watched      bool
    consumed     int
    total        int
    wantProgress float64
    wantStatus   string
  }{
    {"untouched", false, 0, 0, 50, types.StatusInProgress},
    {"watched no materials", true, 0, 0, 100, types.StatusCompleted},
    {"half materials unwatched", false, 2, 4, 25, types.StatusInProgress},
    {"all materials unwatched", false, 4, 4, 50, types.StatusInProgress},
    {"watched half materials", true, 2, 4, 75, types.StatusInProgress},
    {"watched all materials", true, 4, 4, 100, types.StatusCompleted},
    {"nothing with materials", false, 0, 3, 0, types.StatusNotStarted},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      progress, status := LectureProgress(tc.watched, tc.consumed, tc.total)
      if progress != tc.wantProgress {
        t.Fatalf("progress: want=%v got=%v", tc.wantProgress, progress)
      }
      if status != tc.wantStatus {
        t.Fatalf("status: want=%q got=%q", tc.wantStatus, status)
      }
    })
  }
}

func TestLectureProgressIdempotent(t *testing.T) {
  first, _ := LectureProgress(true, 2, 4)
  second, _ := LectureProgress(true, 2, 4)
  if first != second {
    t.Fatalf("repeat computation diverged: %v vs %v", first, second)
  }
}

func TestModuleProgress(t *testing.T) {
  cases := []struct {
    name         string
    lectures     []float64
    wantProgress float64
    wantStatus   string
  }{
    {"no lectures", nil, 0, types.StatusNotStarted},
    {"all zero", []float64{0, 0}, 0, types.StatusNotStarted},
    {"half done", []float64{100, 0}, 50, types.StatusInProgress},
    {"complete", []float64{100, 100}, 100, types.StatusCompleted},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      progress, status := ModuleProgress(tc.lectures)
      if progress != tc.wantProgress {
        t.Fatalf("progress: want=%v got=%v", tc.wantProgress, progress)
      }
      if status != tc.wantStatus {
        t.Fatalf("status: want=%q got=%q", tc.wantStatus, status)
      }
    })
  }
}

func TestEnrollmentProgress(t *testing.T) {
  cases := []struct {
    name     string
    modules  []float64
    lectures []float64
    passed   int
    total    int
    want     float64
  }{
    {"empty", nil, nil, 0, 0, 0},
    {"fresh enrollment", []float64{0}, []float64{0, 0}, 0, 1, 0},
    {"one lecture watched", []float64{50}, []float64{100, 0}, 0, 1, 37.5},
    {"lecture and quiz done", []float64{50}, []float64{100, 0}, 1, 1, 62.5},
    {"everything done", []float64{100}, []float64{100, 100}, 1, 1, 100},
    {"thirds round", []float64{100}, []float64{0, 0}, 0, 0, 33.33},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      got := EnrollmentProgress(tc.modules, tc.lectures, tc.passed, tc.total)
      if got != tc.want {
        t.Fatalf("progress: want=%v got=%v", tc.want, got)
      }
    })
  }
}

func TestRound2(t *testing.T) {
  if got := Round2(33.333333); got != 33.33 {
    t.Fatalf("want=33.33 got=%v", got)
  }
  if got := Round2(66.666666); got != 66.67 {
    t.Fatalf("want=66.67 got=%v", got)
  }
}
