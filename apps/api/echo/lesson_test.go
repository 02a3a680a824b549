package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
)

func Test_lessonApi_query(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)
	lsn1 := createLesson(t, mod.ID, "Installing Go", 1, true)
	lsn2 := createLesson(t, mod.ID, "Hello World", 2, true)
	draft := createLesson(t, mod.ID, "Secret Draft", 3, false)

	teacherToken := getToken(t, teacher)

	tests := []httpTest{
		{
			name: "anonymous sees published only", path: "/v1/lessons?ordering=position", wantCode: http.StatusOK,
			wantData: pagedData(t, 2, []course.Lesson{lsn1, lsn2}),
		},
		{
			name: "staff sees all", path: "/v1/lessons?ordering=position", token: teacherToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 3, []course.Lesson{lsn1, lsn2, draft}),
		},
		{
			name: "module filter", path: "/v1/lessons?ordering=position&module=" + mod.ID, wantCode: http.StatusOK,
			wantData: pagedData(t, 2, []course.Lesson{lsn1, lsn2}),
		},
		{
			name: "search", path: "/v1/lessons?search=hello", wantCode: http.StatusOK,
			wantData: pagedData(t, 1, []course.Lesson{lsn2}),
		},
		{
			name: "nested module listing by position", path: "/v1/modules/" + mod.ID + "/lessons", wantCode: http.StatusOK,
			wantData: pagedData(t, 2, []course.Lesson{lsn1, lsn2}),
		},
		{
			name: "nested module listing (staff)", path: "/v1/modules/" + mod.ID + "/lessons", token: teacherToken,
			wantCode: http.StatusOK, wantData: pagedData(t, 3, []course.Lesson{lsn1, lsn2, draft}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_lessonApi_retrieve(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)
	lsn := createLesson(t, mod.ID, "Installing Go", 1, true)
	draft := createLesson(t, mod.ID, "Secret Draft", 2, false)

	tests := []httpTest{
		{name: "published is public", path: "/v1/lessons/" + lsn.ID, wantCode: http.StatusOK, wantData: marchallObj(t, lsn)},
		{
			name: "draft hidden from anonymous", path: "/v1/lessons/" + draft.ID, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name: "draft visible to staff", path: "/v1/lessons/" + draft.ID, token: getToken(t, teacher),
			wantCode: http.StatusOK, wantData: marchallObj(t, draft),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_lessonApi_createUpdate(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	teacherToken := getToken(t, teacher)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)

	// nested create assigns the next position and slugifies the title
	body := marchallObj(t, map[string]interface{}{
		"title":         "Your First Module",
		"content":       "go mod init and the module path.",
		"duration_mins": 15,
	})
	req, rec := newAuthRequest(http.MethodPost, "/v1/modules/"+mod.ID+"/lessons", teacherToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createLesson failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var lsn course.Lesson
	if err := unmarchallObj(t, rec.Body.Bytes(), &lsn); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if lsn.Position != 1 {
		t.Errorf("position = %d; want 1", lsn.Position)
	}
	if lsn.Slug != "your-first-module" {
		t.Errorf("slug = %q", lsn.Slug)
	}
	if lsn.IsPublished {
		t.Error("new lessons must start unpublished")
	}

	// partial update: flip published without touching the rest
	req, rec = newAuthRequest(http.MethodPatch, "/v1/lessons/"+lsn.ID, teacherToken, marchallObj(t, map[string]bool{"is_published": true}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var updated course.Lesson
	if err := unmarchallObj(t, rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if !updated.IsPublished {
		t.Error("expected lesson to be published")
	}
	if updated.Title != lsn.Title || updated.DurationMins != lsn.DurationMins {
		t.Errorf("unset fields were overwritten: %+v", updated)
	}

	// duplicate slug
	req, rec = newAuthRequest(http.MethodPost, "/v1/modules/"+mod.ID+"/lessons", teacherToken, marchallObj(t, map[string]string{"title": "Your First Module"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate slug; got %v: %v", rec.Code, rec.Body.String())
	}
}

func Test_lessonApi_markComplete(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := createUser(t, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, true)
	studentToken := getToken(t, student)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)
	lsn1 := createLesson(t, mod.ID, "Installing Go", 1, true)
	lsn2 := createLesson(t, mod.ID, "Hello World", 2, true)
	draft := createLesson(t, mod.ID, "Secret Draft", 3, false) // drafts don't count

	// not enrolled yet
	req, rec := newAuthRequest(http.MethodPost, "/v1/lessons/"+lsn1.ID+"/mark-complete", studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when not enrolled; got %v: %v", rec.Code, rec.Body.String())
	}

	enr := createEnrollment(t, student.ID, crs.ID, enrollment.StatusActive)

	// drafts cannot be completed, so they can never inflate progress
	req, rec = newAuthRequest(http.MethodPost, "/v1/lessons/"+draft.ID+"/mark-complete", studentToken)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)

	markComplete := func(lessonID string) enrollment.Progress {
		req, rec := newAuthRequest(http.MethodPost, "/v1/lessons/"+lessonID+"/mark-complete", studentToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("mark-complete failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var prg enrollment.Progress
		if err := unmarchallObj(t, rec.Body.Bytes(), &prg); err != nil {
			t.Fatalf("unmarchallObj(): %v", err)
		}
		return prg
	}

	prg := markComplete(lsn1.ID)
	if prg.CompletedLessons != 1 || prg.TotalLessons != 2 || prg.Percent != 50 {
		t.Errorf("unexpected progress: %+v", prg)
	}

	// marking the same lesson again does not double-count
	prg = markComplete(lsn1.ID)
	if prg.CompletedLessons != 1 {
		t.Errorf("lesson double-counted: %+v", prg)
	}

	// completing the last published lesson flips the enrollment
	prg = markComplete(lsn2.ID)
	if prg.CompletedLessons != 2 || prg.Percent != 100 {
		t.Errorf("unexpected progress: %+v", prg)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/enrollments/"+enr.ID, studentToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("retrieve enrollment failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var refreshed enrollment.Enrollment
	if err := unmarchallObj(t, rec.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if refreshed.Status != enrollment.StatusCompleted || refreshed.CompletedAt.IsZero() {
		t.Errorf("expected completed enrollment: %+v", refreshed)
	}
}
