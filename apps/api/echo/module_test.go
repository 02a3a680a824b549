package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/user"
)

func Test_moduleApi_query(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	goCrs := createCourse(t, "Go Basics", teacher.ID, true, false)
	sqlCrs := createCourse(t, "Practical SQL", teacher.ID, true, false)
	mod1 := createModule(t, goCrs.ID, "Getting Started", 1)
	mod2 := createModule(t, goCrs.ID, "Beyond Hello World", 2)
	sqlMod := createModule(t, sqlCrs.ID, "Queries", 1)

	tests := []httpTest{
		{
			name: "course filter, default position order", path: "/v1/modules?course=" + goCrs.ID,
			wantCode: http.StatusOK, wantData: pagedData(t, 2, []course.Module{mod1, mod2}),
		},
		{
			name: "all modules by title", path: "/v1/modules?ordering=title", wantCode: http.StatusOK,
			wantData: pagedData(t, 3, []course.Module{mod2, mod1, sqlMod}),
		},
		{
			name: "search", path: "/v1/modules?search=queries", wantCode: http.StatusOK,
			wantData: pagedData(t, 1, []course.Module{sqlMod}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_moduleApi_retrieve(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	mod := createModule(t, crs.ID, "Getting Started", 1)

	tests := []httpTest{
		{name: "found", path: "/v1/modules/" + mod.ID, wantCode: http.StatusOK, wantData: marchallObj(t, mod)},
		{name: "unknown", path: "/v1/modules/lol", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_moduleApi_createUpdateDestroy(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	student := createUser(t, "Student", "student", "student@test.cd", "", nil, true)
	teacherToken := getToken(t, teacher)

	crs := createCourse(t, "Go Basics", teacher.ID, true, false)
	createModule(t, crs.ID, "Getting Started", 1)

	body := marchallObj(t, map[string]string{
		"course_id":   crs.ID,
		"title":       "  Concurrency  ",
		"description": "Goroutines and channels.",
	})

	// staff only
	req, rec := newAuthRequest(http.MethodPost, "/v1/modules", getToken(t, student), body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/modules", teacherToken, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("createModule failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var mod course.Module
	if err := unmarchallObj(t, rec.Body.Bytes(), &mod); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if mod.Title != "Concurrency" {
		t.Errorf("title = %q; want it cleaned", mod.Title)
	}
	if mod.Position != 2 {
		t.Errorf("position = %d; want 2", mod.Position)
	}
	if mod.CourseID != crs.ID {
		t.Errorf("course_id = %q; want %q", mod.CourseID, crs.ID)
	}

	// partial update keeps unset fields
	req, rec = newAuthRequest(http.MethodPatch, "/v1/modules/"+mod.ID, teacherToken, marchallObj(t, map[string]int{"position": 1}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var updated course.Module
	if err := unmarchallObj(t, rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if updated.Position != 1 {
		t.Errorf("position = %d; want 1", updated.Position)
	}
	if updated.Title != mod.Title {
		t.Errorf("title was overwritten: %q", updated.Title)
	}

	// destroy
	req, rec = newAuthRequest(http.MethodDelete, "/v1/modules/"+mod.ID, teacherToken)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("destroy failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	req, rec = newRequest(http.MethodGet, "/v1/modules/"+mod.ID)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
}

func Test_moduleApi_nestedCourseCreate(t *testing.T) {
	resetDB(t)

	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	crs := createCourse(t, "Go Basics", teacher.ID, false, false)

	body := marchallObj(t, map[string]string{"title": "Getting Started"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/courses/"+crs.ID+"/modules", getToken(t, teacher), body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("nested create failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var mod course.Module
	if err := unmarchallObj(t, rec.Body.Bytes(), &mod); err != nil {
		t.Fatalf("unmarchallObj(): %v", err)
	}
	if mod.CourseID != crs.ID {
		t.Errorf("course_id = %q; want %q", mod.CourseID, crs.ID)
	}
	if mod.Position != 1 {
		t.Errorf("position = %d; want 1", mod.Position)
	}
}
