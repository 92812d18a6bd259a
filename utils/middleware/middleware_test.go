package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"github.com/learnhub-platform/learnhub-api/utils/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	jwt       *auth.JWTManager
	blacklist *auth.BlacklistService
	app       *fiber.App
}

func newFixture(t *testing.T) *fixture {
	db := testutil.NewDB(t)
	jwt := auth.NewJWTManager(auth.JWTConfig{Secret: "s", Expiry: time.Hour, RefreshExpiry: 2 * time.Hour, Issuer: "test"})
	blacklist := auth.NewBlacklistService(db)
	m := NewAuthMiddleware(jwt, blacklist, db)

	app := fiber.New()
	app.Use(m.Identify())
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/public", m.Guard(policy.CourseList), ok)
	app.Get("/me", m.Guard(policy.UserProfile), ok)
	app.Get("/admin", m.Guard(policy.UserList), ok)
	app.Post("/enroll", m.Guard(policy.EnrollmentCreate), ok)
	app.Get("/students/:id/progress", m.Guard(policy.ProgressListByStudent), ok)

	return &fixture{db: db, jwt: jwt, blacklist: blacklist, app: app}
}

func (f *fixture) token(t *testing.T, u *model.User) (string, string) {
	tok, jti, err := f.jwt.GenerateAccessToken(u.ID, u.Email, string(u.Role), u.TokenVersion)
	require.NoError(t, err)
	return tok, jti
}

func (f *fixture) do(t *testing.T, method, path, body string, prep func(*http.Request)) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if prep != nil {
		prep(req)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func TestGuardPublicAndAuthenticated(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleStudent)
	tok, _ := f.token(t, alice)

	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/public", "", nil))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "GET", "/me", "", nil))
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/me", "", bearer(tok)))
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/me", "", func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: tok})
	}))
	// a bad token on a public route is ignored
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/public", "", bearer("garbage")))
}

func TestGuardRoles(t *testing.T) {
	f := newFixture(t)
	teacher := testutil.CreateUser(t, f.db, "tina", model.RoleTeacher)
	admin := testutil.CreateUser(t, f.db, "root", model.RoleAdmin)
	teacherTok, _ := f.token(t, teacher)
	adminTok, _ := f.token(t, admin)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "GET", "/admin", "", nil))
	assert.Equal(t, http.StatusForbidden, f.do(t, "GET", "/admin", "", bearer(teacherTok)))
	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/admin", "", bearer(adminTok)))
}

func TestGuardSelfOrStaff(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleStudent)
	bob := testutil.CreateUser(t, f.db, "bob", model.RoleStudent)
	teacher := testutil.CreateUser(t, f.db, "tina", model.RoleTeacher)
	aliceTok, _ := f.token(t, alice)
	teacherTok, _ := f.token(t, teacher)

	self := `{"studentId":` + uintStr(alice.ID) + `,"courseId":1}`
	other := `{"studentId":` + uintStr(bob.ID) + `,"courseId":1}`

	assert.Equal(t, http.StatusOK, f.do(t, "POST", "/enroll", self, bearer(aliceTok)))
	assert.Equal(t, http.StatusForbidden, f.do(t, "POST", "/enroll", other, bearer(aliceTok)))
	assert.Equal(t, http.StatusOK, f.do(t, "POST", "/enroll", other, bearer(teacherTok)))

	assert.Equal(t, http.StatusOK, f.do(t, "GET", "/students/"+uintStr(alice.ID)+"/progress", "", bearer(aliceTok)))
	assert.Equal(t, http.StatusForbidden, f.do(t, "GET", "/students/"+uintStr(bob.ID)+"/progress", "", bearer(aliceTok)))
}

func TestRevokedAndStaleTokens(t *testing.T) {
	f := newFixture(t)
	alice := testutil.CreateUser(t, f.db, "alice", model.RoleStudent)
	tok, jti := f.token(t, alice)

	require.NoError(t, f.blacklist.RevokeToken(context.Background(), jti, alice.ID, time.Now().Add(time.Hour), "logout"))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "GET", "/me", "", bearer(tok)))

	tok2, _ := f.token(t, alice)
	require.NoError(t, f.blacklist.RevokeAllUserTokens(context.Background(), alice.ID))
	assert.Equal(t, http.StatusUnauthorized, f.do(t, "GET", "/me", "", bearer(tok2)))
}

func TestTokenForDeletedUser(t *testing.T) {
	f := newFixture(t)
	ghost := testutil.CreateUser(t, f.db, "ghost", model.RoleStudent)
	tok, _ := f.token(t, ghost)
	require.NoError(t, f.db.Delete(&model.User{}, ghost.ID).Error)

	assert.Equal(t, http.StatusUnauthorized, f.do(t, "GET", "/me", "", bearer(tok)))
}

func uintStr(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
