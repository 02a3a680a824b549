// Package inmemdb provides mutex-guarded in-memory implementations of the
// domain Repository interfaces, backing tests and local development.
package inmemdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

type DB struct {
	mutex sync.RWMutex

	userTable           map[string]*user.User
	courseTable         map[string]*course.Course
	moduleTable         map[string]*course.Module
	lessonTable         map[string]*course.Lesson
	enrollmentTable     map[string]*enrollment.Enrollment
	lessonProgressTable map[string]*enrollment.LessonProgress
}

func NewDB() *DB {
	return &DB{
		userTable:           make(map[string]*user.User),
		courseTable:         make(map[string]*course.Course),
		moduleTable:         make(map[string]*course.Module),
		lessonTable:         make(map[string]*course.Lesson),
		enrollmentTable:     make(map[string]*enrollment.Enrollment),
		lessonProgressTable: make(map[string]*enrollment.LessonProgress),
	}
}

// Clear empties all tables.
func (db *DB) Clear() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.userTable = make(map[string]*user.User)
	db.courseTable = make(map[string]*course.Course)
	db.moduleTable = make(map[string]*course.Module)
	db.lessonTable = make(map[string]*course.Lesson)
	db.enrollmentTable = make(map[string]*enrollment.Enrollment)
	db.lessonProgressTable = make(map[string]*enrollment.LessonProgress)
}

func searchMatch(keyword string, fields ...string) bool {
	keyword = strings.ToLower(keyword)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), keyword) {
			return true
		}
	}
	return false
}

// pageBounds converts paging into [start, end) slice bounds for n records.
func pageBounds(n int, paging *core.DBPaging) (int, int) {
	if paging == nil || paging.Limit <= 0 {
		return 0, n
	}
	start := paging.Offset
	if start > n {
		start = n
	}
	end := start + paging.Limit
	if end > n {
		end = n
	}
	return start, end
}

// applyOrdering stably sorts records, least significant key first so earlier
// keys win. less(a, b, field) reports whether a sorts before b on field; it
// must return false for unknown fields.
func applyOrdering[T any](recs []T, ordering []core.DBOrdering, less func(a, b T, field string) bool) {
	for k := len(ordering) - 1; k >= 0; k-- {
		ord := ordering[k]
		sort.SliceStable(recs, func(i, j int) bool {
			a, b := recs[i], recs[j]
			if !ord.Ascending {
				a, b = b, a
			}
			return less(a, b, ord.Field)
		})
	}
}
