package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/biolink/internal/auth"
	"github.com/biolink/internal/db"
	"github.com/biolink/internal/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

type handlerEnv struct {
	api    *API
	engine *gin.Engine
}

func setupHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := db.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	tokens := auth.NewManager("handler-secret")
	api := NewAPI(gdb, tokens, Options{UploadDir: t.TempDir(), UploadURL: "/uploads", ProfileUsername: "alice"}).
		WithAuthService(service.NewAuthService(gdb, tokens).WithHashCost(bcrypt.MinCost))

	r := gin.New()
	r.POST("/register", api.Register)
	r.POST("/login", api.Login)
	r.GET("/config.js", api.ConfigScript)
	r.GET("/profile/:username", api.GetPublicProfile)
	r.POST("/profile/:username/click/:linkId", api.TrackClick)

	admin := r.Group("/admin", api.AuthRequired())
	admin.POST("/change-password", api.ChangePassword)
	admin.GET("/me", api.GetMyProfile)
	admin.PUT("/info", api.UpdateInfo)
	admin.PUT("/theme", api.UpdateTheme)
	admin.GET("/links", api.ListLinks)
	admin.POST("/links", api.AddLink)
	admin.PUT("/links/reorder", api.ReorderLinks)
	admin.PUT("/links/:id", api.UpdateLink)
	admin.DELETE("/links/:id", api.DeleteLink)
	admin.PUT("/socials", api.UpdateSocials)
	admin.GET("/platforms", api.ListPlatforms)
	admin.POST("/upload/avatar", api.UploadAvatar)
	admin.POST("/upload/cover", api.UploadCover)
	admin.GET("/stats", api.GetStats)

	return &handlerEnv{api: api, engine: r}
}

func (e *handlerEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("failed to encode body: %v", err)
			}
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.engine.ServeHTTP(rr, req)
	return rr
}

func (e *handlerEnv) register(t *testing.T) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "secret-pass"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rr, &resp)
	return resp.Token
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error string `json:"error"`
	}
	decode(t, rr, &resp)
	return resp.Error
}

type linksResponse struct {
	Message string    `json:"message"`
	Links   []db.Link `json:"links"`
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupHandlerEnv(t)

	rr := env.do(t, http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "secret-pass", "displayName": "Alice"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Token string `json:"token"`
		User  struct {
			ID          uint   `json:"id"`
			Username    string `json:"username"`
			DisplayName string `json:"displayName"`
		} `json:"user"`
	}
	decode(t, rr, &created)
	if created.Token == "" || created.User.Username != "alice" || created.User.DisplayName != "Alice" {
		t.Fatalf("unexpected register response: %s", rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/register", "", gin.H{"username": "bob", "password": "secret-pass"})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for second registration, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "secret-pass"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login 200, got %d", rr.Code)
	}

	wrongPass := env.do(t, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "nope"})
	wrongUser := env.do(t, http.MethodPost, "/login", "", gin.H{"username": "bob", "password": "secret-pass"})
	if wrongPass.Code != http.StatusUnauthorized || wrongUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad logins, got %d and %d", wrongPass.Code, wrongUser.Code)
	}
	if wrongPass.Body.String() != wrongUser.Body.String() {
		t.Fatalf("login failures should be indistinguishable: %q vs %q", wrongPass.Body.String(), wrongUser.Body.String())
	}
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	env := setupHandlerEnv(t)

	cases := []interface{}{
		"not json",
		gin.H{"username": "", "password": "secret-pass"},
		gin.H{"username": "alice", "password": ""},
		gin.H{"username": "admin", "password": "secret-pass"},
	}
	for i, body := range cases {
		rr := env.do(t, http.MethodPost, "/register", "", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, rr.Code)
		}
	}
}

func TestAuthRequired(t *testing.T) {
	env := setupHandlerEnv(t)
	env.register(t)

	for _, token := range []string{"", "garbage"} {
		rr := env.do(t, http.MethodGet, "/admin/me", token, nil)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for token %q, got %d", token, rr.Code)
		}
	}
}

func TestChangePasswordFlow(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPost, "/admin/change-password", token, gin.H{"currentPassword": "wrong", "newPassword": "another-pass"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong current password, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/admin/change-password", token, gin.H{"currentPassword": "secret-pass", "newPassword": ""})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty password, got %d", rr.Code)
	}

	rr = env.do(t, http.MethodPost, "/admin/change-password", token, gin.H{"currentPassword": "secret-pass", "newPassword": "another-pass"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "another-pass"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login with new password, got %d", rr.Code)
	}
}

func TestPublicProfileNotFound(t *testing.T) {
	env := setupHandlerEnv(t)
	env.register(t)

	for _, username := range []string{"admin", "bob"} {
		rr := env.do(t, http.MethodGet, "/profile/"+username, "", nil)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for %q, got %d", username, rr.Code)
		}
		if msg := errorMessage(t, rr); msg != "profile not found" {
			t.Fatalf("unexpected error message %q", msg)
		}
	}
}

func TestLinkLifecycle(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPost, "/admin/links", token, gin.H{"title": "A", "url": "https://a.example"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	rr = env.do(t, http.MethodPost, "/admin/links", token, gin.H{"title": "B", "url": "https://b.example"})
	var added linksResponse
	decode(t, rr, &added)
	if len(added.Links) != 2 || added.Links[0].Order != 0 || added.Links[1].Order != 1 {
		t.Fatalf("unexpected links after add: %#v", added.Links)
	}

	rr = env.do(t, http.MethodPost, "/admin/links", token, gin.H{"title": "", "url": "https://c.example"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rr.Code)
	}

	a, b := added.Links[0], added.Links[1]
	rr = env.do(t, http.MethodPut, "/admin/links/reorder", token, gin.H{"order": []gin.H{
		{"id": a.ID, "order": 1},
		{"id": b.ID, "order": 0},
		{"id": "missing", "order": 5},
	}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected reorder 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/profile/alice", "", nil)
	var public service.PublicProfile
	decode(t, rr, &public)
	if len(public.Links) != 2 || public.Links[0].Title != "B" || public.Links[1].Title != "A" {
		t.Fatalf("unexpected public order: %#v", public.Links)
	}

	rr = env.do(t, http.MethodPut, "/admin/links/"+a.ID, token, gin.H{"active": false})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected update 200, got %d", rr.Code)
	}
	rr = env.do(t, http.MethodPut, "/admin/links/missing", token, gin.H{"title": "x"})
	if rr.Code != http.StatusNotFound || errorMessage(t, rr) != "link not found" {
		t.Fatalf("expected link not found, got %d %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/profile/alice", "", nil)
	decode(t, rr, &public)
	if len(public.Links) != 1 || public.Links[0].Title != "B" {
		t.Fatalf("inactive link should be hidden: %#v", public.Links)
	}

	for i := 0; i < 2; i++ {
		rr = env.do(t, http.MethodDelete, "/admin/links/"+b.ID, token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("delete attempt %d: expected 200, got %d", i, rr.Code)
		}
	}
	var remaining linksResponse
	decode(t, rr, &remaining)
	if len(remaining.Links) != 1 || remaining.Links[0].ID != a.ID {
		t.Fatalf("unexpected links after delete: %#v", remaining.Links)
	}

	rr = env.do(t, http.MethodGet, "/admin/links", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected list 200, got %d", rr.Code)
	}
	var listed linksResponse
	decode(t, rr, &listed)
	if len(listed.Links) != 1 || listed.Links[0].ID != a.ID || listed.Links[0].Active {
		t.Fatalf("unexpected listed links: %#v", listed.Links)
	}
}

func TestReorderRejectsMalformedBody(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPut, "/admin/links/reorder", token, `{"order": "nope"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestTrackClickAlwaysSucceeds(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPost, "/admin/links", token, gin.H{"title": "A", "url": "https://a.example"})
	var added linksResponse
	decode(t, rr, &added)

	paths := []string{
		"/profile/alice/click/" + added.Links[0].ID,
		"/profile/alice/click/missing",
		"/profile/bob/click/" + added.Links[0].ID,
	}
	for _, path := range paths {
		rr := env.do(t, http.MethodPost, path, "", nil)
		if rr.Code != http.StatusOK || rr.Body.String() != `{"success":true}` {
			t.Fatalf("unexpected click response for %s: %d %s", path, rr.Code, rr.Body.String())
		}
	}

	rr = env.do(t, http.MethodGet, "/admin/stats", token, nil)
	var stats service.Stats
	decode(t, rr, &stats)
	if stats.TotalClicks != 1 {
		t.Fatalf("expected 1 click, got %#v", stats)
	}
}

func TestUpdateInfoAndTheme(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPut, "/admin/info", token, gin.H{"bio": "Hi <script>x</script>"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var info struct {
		Message string     `json:"message"`
		Profile db.Profile `json:"profile"`
	}
	decode(t, rr, &info)
	if info.Profile.Bio != "Hi <script>x</script>" || info.Profile.DisplayName != "alice" {
		t.Fatalf("unexpected profile: %#v", info.Profile)
	}

	rr = env.do(t, http.MethodPut, "/admin/theme", token, gin.H{})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing theme, got %d", rr.Code)
	}
	for _, style := range []string{"blob", "outline", " pill "} {
		rr = env.do(t, http.MethodPut, "/admin/theme", token, gin.H{"theme": gin.H{"buttonStyle": style}})
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for button style %q, got %d", style, rr.Code)
		}
	}
	rr = env.do(t, http.MethodPut, "/admin/theme", token, gin.H{"theme": gin.H{"buttonStyle": "square", "textColor": "#111111"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/profile/alice", "", nil)
	var public service.PublicProfile
	decode(t, rr, &public)
	if public.Theme.ButtonStyle != "square" || public.Theme.TextColor != "#111111" {
		t.Fatalf("unexpected theme: %#v", public.Theme)
	}
	if public.BioHTML == "" || bytes.Contains([]byte(public.BioHTML), []byte("<script")) {
		t.Fatalf("bio html should be sanitized, got %q", public.BioHTML)
	}
}

func TestUpdateSocials(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodPut, "/admin/socials", token, gin.H{"socials": []gin.H{
		{"platform": "github", "url": "https://github.com/alice"},
		{"platform": "x", "url": "https://x.com/alice", "active": false},
	}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = env.do(t, http.MethodGet, "/profile/alice", "", nil)
	var public service.PublicProfile
	decode(t, rr, &public)
	if len(public.Socials) != 1 || public.Socials[0].Platform != "github" {
		t.Fatalf("unexpected socials: %#v", public.Socials)
	}

	rr = env.do(t, http.MethodPut, "/admin/socials", token, gin.H{"socials": []gin.H{{"platform": "", "url": "x"}}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing platform, got %d", rr.Code)
	}
}

func multipartImage(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func pngImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadAvatar(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	body, contentType := multipartImage(t, "avatar", "me.png", "image/png", pngImage(t))
	req := httptest.NewRequest(http.MethodPost, "/admin/upload/avatar", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.engine.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		URL string `json:"url"`
	}
	decode(t, rr, &resp)

	me := env.do(t, http.MethodGet, "/admin/me", token, nil)
	var profile db.Profile
	decode(t, me, &profile)
	if resp.URL == "" || profile.Avatar != resp.URL {
		t.Fatalf("expected avatar %q, got %q", resp.URL, profile.Avatar)
	}
}

func TestUploadRejectsMissingAndWrongField(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	body, contentType := multipartImage(t, "avatar", "me.png", "image/png", pngImage(t))
	req := httptest.NewRequest(http.MethodPost, "/admin/upload/cover", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	env.engine.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for wrong field, got %d", rr.Code)
	}

	body, contentType = multipartImage(t, "cover", "notes.txt", "text/plain", []byte("plain text"))
	req = httptest.NewRequest(http.MethodPost, "/admin/upload/cover", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	env.engine.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-image upload, got %d", rr.Code)
	}
}

func TestStatsAfterViews(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	for i := 0; i < 3; i++ {
		env.do(t, http.MethodGet, "/profile/alice", "", nil)
	}

	rr := env.do(t, http.MethodGet, "/admin/stats", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var stats service.Stats
	decode(t, rr, &stats)
	if stats.TotalViews != 3 {
		t.Fatalf("expected 3 views, got %d", stats.TotalViews)
	}
}

func TestListPlatforms(t *testing.T) {
	env := setupHandlerEnv(t)
	token := env.register(t)

	rr := env.do(t, http.MethodGet, "/admin/platforms", token, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Platforms []struct {
			Key   string `json:"key"`
			Label string `json:"label"`
		} `json:"platforms"`
	}
	decode(t, rr, &resp)
	if len(resp.Platforms) == 0 || resp.Platforms[0].Key == "" {
		t.Fatalf("unexpected platforms: %s", rr.Body.String())
	}
}
