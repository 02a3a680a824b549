package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/enrollment"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	logsvc "github.com/trezcool/darasa/services/logger"
	inmemdb "github.com/trezcool/darasa/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app *Server

	usrRepo user.Repository
	crsRepo course.Repository
	enrRepo enrollment.Repository

	crsSvc course.Service
	enrSvc enrollment.Service

	errMissingToken   = httpErr{Error: "missing or malformed jwt"}
	errPermDenied     = httpErr{Error: "permission denied"}
	errNotFound       = httpErr{Error: "not found"}
	errNotAuthed      = httpErr{Error: "user not authenticated"}
	errDeactivated    = httpErr{Error: "account deactivated"}
	errAuthFailed     = httpErr{Error: "authentication failed"}
	errRefreshExpired = httpErr{Error: "refresh has expired"}
)

func TestMain(m *testing.M) {
	core.Conf.TestMode = true
	core.Conf.Debug = false
	// no throttling in tests
	core.Conf.Server.AnonThrottleRate = 1000
	core.Conf.Server.AnonThrottleBurst = 1000

	// set up DB & repos
	db = inmemdb.NewDB()
	usrRepo = inmemdb.NewUserRepository(db)
	crsRepo = inmemdb.NewCourseRepository(db)
	enrRepo = inmemdb.NewEnrollmentRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	crsSvc = course.NewService(crsRepo)
	enrSvc = enrollment.NewService(enrRepo, crsSvc, mailSvc)

	// set up server
	app = NewServer(
		ServerDeps{
			Logger:         logsvc.NewTestLogger(),
			UserSvc:        usrSvc,
			CourseSvc:      crsSvc,
			EnrollmentSvc:  enrSvc,
			DisableReqLogs: true,
		},
	)

	os.Exit(m.Run())
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Clear()
	emailsvc.SentMessages = emailsvc.SentMessages[:0]
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarchallObj(t *testing.T, data []byte, obj interface{}) error {
	t.Helper()
	return json.Unmarshal(data, obj)
}

// pagedData wraps results in the list envelope with default pagination.
func pagedData(t *testing.T, count int, results interface{}) []byte {
	t.Helper()
	return marchallObj(t, PagedResponse{Count: count, Page: 1, PageSize: 20, Results: results})
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	t.Helper()
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// Fixtures

func createUser(
	t *testing.T,
	name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  &isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser(): %v", err)
		}
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser(): %v", err)
	}
	return usr
}

func createCourse(t *testing.T, title, createdBy string, published, featured bool, opts ...func(*course.Course)) course.Course {
	t.Helper()
	tstamp := time.Now().UTC()
	crs := course.Course{
		Title:       title,
		Slug:        core.Slugify(title),
		IsPublished: published,
		IsFeatured:  featured,
		CreatedBy:   createdBy,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	if published {
		crs.PublishedAt = tstamp
	}
	for _, opt := range opts {
		opt(&crs)
	}
	crs, err := crsRepo.CreateCourse(context.Background(), crs)
	if err != nil {
		t.Fatalf("createCourse(): %v", err)
	}
	return crs
}

func createModule(t *testing.T, courseID, title string, position int) course.Module {
	t.Helper()
	tstamp := time.Now().UTC()
	mod, err := crsRepo.CreateModule(context.Background(), course.Module{
		CourseID:  courseID,
		Title:     title,
		Position:  position,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createModule(): %v", err)
	}
	return mod
}

func createLesson(t *testing.T, moduleID, title string, position int, published bool) course.Lesson {
	t.Helper()
	tstamp := time.Now().UTC()
	lsn, err := crsRepo.CreateLesson(context.Background(), course.Lesson{
		ModuleID:    moduleID,
		Title:       title,
		Slug:        core.Slugify(title),
		Position:    position,
		IsPublished: published,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	})
	if err != nil {
		t.Fatalf("createLesson(): %v", err)
	}
	return lsn
}

func createEnrollment(t *testing.T, userID, courseID, status string) enrollment.Enrollment {
	t.Helper()
	enr, err := enrRepo.CreateEnrollment(context.Background(), enrollment.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     status,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("createEnrollment(): %v", err)
	}
	return enr
}
