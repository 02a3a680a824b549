package echoapi_test

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	. "github.com/trezcool/darasa/apps/api/echo"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
)

func Test_userApi_login(t *testing.T) {
	resetDB(t)

	active := createUser(t, "Active User", "active", "active@test.cd", "LeTioNa10!?", nil, true)
	createUser(t, "Inactive User", "inactive", "inactive@test.cd", "LeTioNa10!?", nil, false)

	login := func(uname, pwd string) []byte {
		return marchallObj(t, map[string]string{"username": uname, "password": pwd})
	}

	tests := []httpTest{
		{
			name: "empty credentials", body: login("", ""), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"username": "this field is required",
				"password": "this field is required",
			}),
		},
		{
			name: "unknown user", body: login("lol", "lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errAuthFailed),
		},
		{
			name: "wrong password", body: login(active.Username, "lol"), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, errAuthFailed),
		},
		{
			name: "deactivated account", body: login("inactive", "LeTioNa10!?"), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errDeactivated),
		},
		{name: "login with username", body: login(active.Username, "LeTioNa10!?"), wantCode: http.StatusOK},
		{name: "login with email", body: login(active.Email, "LeTioNa10!?"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantCode == http.StatusOK {
				if rec.Code != http.StatusOK {
					t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
				}
				var resp struct {
					Token string `json:"token"`
				}
				if err := unmarchallObj(t, rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
					t.Errorf("expected a token; body = %v", rec.Body.String())
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_passwordReset(t *testing.T) {
	resetDB(t)

	usr := createUser(t, "Forgetful", "forgetful", "forgetful@test.cd", "LeTioNa10!?", nil, true)

	body := marchallObj(t, map[string]string{"email": usr.Email})
	req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("expected 1 sent message; got %d", len(emailsvc.SentMessages))
	}
	if subj := emailsvc.SentMessages[0].Subject; subj != "Password Reset" {
		t.Errorf("unexpected subject %q", subj)
	}

	// unknown emails get the same response; no mail goes out
	body = marchallObj(t, map[string]string{"email": "lol@test.cd"})
	req, rec = newRequest(http.MethodPost, "/v1/users/password-reset", body)
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Errorf("expected no new sent message; got %d", len(emailsvc.SentMessages))
	}
}

func Test_userApi_userQuery(t *testing.T) {
	resetDB(t)

	path := func(search, ordering string, isActive *bool, roles ...string) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if ordering != "" {
			v.Add("ordering", ordering)
		}
		if isActive != nil {
			v.Add("is_active", strconv.FormatBool(*isActive))
		}
		for _, r := range roles {
			v.Add("role", r)
		}
		return "/v1/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now()
	t1 := now.Add(1 * time.Hour)
	t2 := now.Add(2 * time.Hour)
	t3 := now.Add(3 * time.Hour)

	usr1 := createUser(t, "User", "awe", "awe@test.cd", "", nil, true, t1)
	student := createUser(t, "Hero", "hero", "user3@test.cd", "", []string{user.RoleStudent}, true, t2)
	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true, t3)
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true, now)
	naughty := createUser(t, "N Dog", "ndog", "ndog@test.cd", "", []string{user.RoleStudent}, false, now.Add(4*time.Hour))

	adminToken := getToken(t, admin)
	empty := pagedData(t, 0, []user.User{})

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "Get all (by created_at)", path: path("", "created_at", nil), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 5, []user.User{teacher, usr1, student, admin, naughty}),
		},
		{
			name: "ordering=-created_at", path: path("", "-created_at", nil), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 5, []user.User{naughty, admin, student, usr1, teacher}),
		},
		{
			name: "ordering=name", path: path("", "name", nil), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 5, []user.User{admin, student, naughty, teacher, usr1}),
		},
		{name: "search (unknown)", path: path("lol", "", nil), token: adminToken, wantCode: http.StatusOK, wantData: empty},
		{
			name: "search=teach", path: path("teach", "", nil), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 1, []user.User{teacher}),
		},
		{name: "role (unknown)", path: path("", "", nil, "lol"), token: adminToken, wantCode: http.StatusOK, wantData: empty},
		{
			name: "role=admin:", path: path("", "", nil, user.RoleAdmin), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 1, []user.User{admin}),
		},
		{
			name: "role=student:", path: path("", "created_at", nil, user.RoleStudent), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 2, []user.User{student, naughty}),
		},
		{
			name: "is_active=false", path: path("", "", bPtr(false)), token: adminToken, wantCode: http.StatusOK,
			wantData: pagedData(t, 1, []user.User{naughty}),
		},
		{
			name: "paging", path: path("", "created_at", nil) + "&page=2&page_size=2", token: adminToken, wantCode: http.StatusOK,
			wantData: marchallObj(t, PagedResponse{Count: 5, Page: 2, PageSize: 2, Results: []user.User{student, admin}}),
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

func Test_userApi_register(t *testing.T) {
	resetDB(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	teacher := createUser(t, "Teacher", "teacher", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	newUser := func(name, uname, email string, roles ...string) []byte {
		return marchallObj(t, map[string]interface{}{
			"name":             name,
			"username":         uname,
			"email":            email,
			"password":         "LeTioNa10!?",
			"password_confirm": "LeTioNa10!?",
			"roles":            roles,
		})
	}

	tests := []httpTest{
		{name: "Auth required", body: newUser("X", "xxxxxx", "x@test.cd"), wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", body: newUser("X", "xxxxxx", "x@test.cd"), token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{name: "create", body: newUser("Student A", "studenta", "studenta@test.cd", user.RoleStudent), token: getToken(t, admin), wantCode: http.StatusCreated},
		{
			name: "duplicate username", body: newUser("Student A", "studenta", "other@test.cd"), token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body = %v", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_userApi_retrieveUpdateDestroy(t *testing.T) {
	resetDB(t)

	admin := createUser(t, "Admin", "admin", "admin@test.cd", "", []string{user.RoleAdmin}, true)
	student := createUser(t, "Student", "student", "student@test.cd", "", []string{user.RoleStudent}, true)
	other := createUser(t, "Other", "otherguy", "other@test.cd", "", []string{user.RoleStudent}, true)

	adminToken := getToken(t, admin)
	studentToken := getToken(t, student)

	tests := []httpTest{
		{name: "retrieve: Auth required", method: http.MethodGet, path: "/v1/users/" + student.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "retrieve: own", method: http.MethodGet, path: "/v1/users/" + student.ID, token: studentToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, student),
		},
		{
			name: "retrieve: other's is hidden", method: http.MethodGet, path: "/v1/users/" + other.ID, token: studentToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "retrieve: admin sees any", method: http.MethodGet, path: "/v1/users/" + other.ID, token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
		{
			name: "update: own bio", method: http.MethodPatch, path: "/v1/users/" + student.ID, token: studentToken,
			body: marchallObj(t, map[string]string{"bio": "Lifelong learner"}), wantCode: http.StatusOK,
		},
		{
			name: "update: non-admin cannot set roles", method: http.MethodPatch, path: "/v1/users/" + student.ID, token: studentToken,
			body:     marchallObj(t, map[string]interface{}{"roles": []string{user.RoleAdmin}}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "destroy: admin required", method: http.MethodDelete, path: "/v1/users/" + student.ID, token: studentToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "destroy: no self-delete", method: http.MethodDelete, path: "/v1/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{name: "destroy", method: http.MethodDelete, path: "/v1/users/" + other.ID, token: adminToken, wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body = %v", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_userApi_tokenRefresh(t *testing.T) {
	resetDB(t)

	usr := createUser(t, "Refresher", "refresher", "refresher@test.cd", "LeTioNa10!?", nil, true)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := unmarchallObj(t, rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Errorf("expected a refreshed token; body = %v", rec.Body.String())
	}
}
