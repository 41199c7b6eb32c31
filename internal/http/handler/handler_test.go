package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apidocs "unihub/docs"
	"unihub/internal/auth"
	"unihub/internal/content"
	"unihub/internal/http/middleware"
	"unihub/internal/model"
	"unihub/internal/repository"
	repoMocks "unihub/internal/repository/mocks"
	"unihub/internal/search"
	"unihub/internal/service"
	serviceMocks "unihub/internal/service/mocks"
	"unihub/internal/storage"
)

type testDeps struct {
	auth       *serviceMocks.MockAuthService
	docs       *serviceMocks.MockDocumentService
	engagement *serviceMocks.MockEngagementService
	content    *serviceMocks.MockContentService
}

var testUser = &model.User{ID: uuid.NewString(), Fullname: "Bao Tran", Email: "bao@uni.edu", University: "HCMUT"}

func newTestApp(t *testing.T, checks ...HealthCheck) (*fiber.App, testDeps) {
	t.Helper()
	d := testDeps{
		auth:       new(serviceMocks.MockAuthService),
		docs:       new(serviceMocks.MockDocumentService),
		engagement: new(serviceMocks.MockEngagementService),
		content:    new(serviceMocks.MockContentService),
	}
	d.auth.On("Authenticate", mock.Anything, "good-token").Return(testUser, nil).Maybe()
	d.auth.On("Authenticate", mock.Anything, "stale-token").Return(nil, auth.ErrTokenExpired).Maybe()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, Dependencies{
		Auth:       d.auth,
		Documents:  d.docs,
		Engagement: d.engagement,
		Content:    d.content,
		Checks:     checks,
	})
	return app, d
}

func do(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func jsonRequest(method, target string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, target, bytes.NewReader(b))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func withToken(req *http.Request, token string) *http.Request {
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("healthy", func(t *testing.T) {
		app, _ := newTestApp(t, HealthCheck{Name: "sql", Ping: ok}, HealthCheck{Name: "mongo", Ping: ok})
		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, map[string]string{"status": "healthy", "sql": "ok", "mongo": "ok"}, body)
	})

	t.Run("degraded", func(t *testing.T) {
		app, _ := newTestApp(t, HealthCheck{Name: "sql", Ping: ok}, HealthCheck{Name: "mongo", Ping: down})
		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "degraded", body["status"])
		assert.Equal(t, "ok", body["sql"])
		assert.Equal(t, "unavailable", body["mongo"])
	})
}

func TestRootAndLiveness(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UniHub API is running", body["message"])

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSwaggerDocIgnoresRequestHost(t *testing.T) {
	app, _ := newTestApp(t)

	var wg sync.WaitGroup
	for _, host := range []string{"a.example", "b.example", "c.example", "d.example"} {
		wg.Add(1)
		go func(host string) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
			req.Host = host
			resp, err := app.Test(req)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var spec struct {
				Host string `json:"host"`
				Info struct {
					Title string `json:"title"`
				} `json:"info"`
			}
			assert.NoError(t, json.NewDecoder(resp.Body).Decode(&spec))
			assert.Equal(t, "UniHub API", spec.Info.Title)
			assert.Empty(t, spec.Host)
		}(host)
	}
	wg.Wait()

	assert.Empty(t, apidocs.SwaggerInfo.Host)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		svcErr     error
		wantStatus int
		wantCode   string
	}{
		{"created", nil, http.StatusCreated, ""},
		{"email taken", service.ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"validation", &service.ValidationError{Code: "VALIDATION_ERROR", Message: "fullname is required"}, http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, d := newTestApp(t)
			in := service.RegisterInput{Fullname: "Bao Tran", Email: "bao@uni.edu", University: "HCMUT", Password: "secret1"}
			if tt.svcErr != nil {
				d.auth.On("Register", mock.Anything, in).Return(nil, tt.svcErr).Once()
			} else {
				d.auth.On("Register", mock.Anything, in).Return(&model.TokenResponse{AccessToken: "tok", TokenType: "bearer", User: testUser}, nil).Once()
			}

			resp := do(t, app, jsonRequest(http.MethodPost, "/api/register", map[string]string{
				"fullname": "Bao Tran", "email": "bao@uni.edu", "university": "HCMUT", "password": "secret1",
			}))

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resp).Error.Code)
			}
			d.auth.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		app, d := newTestApp(t)
		d.auth.On("Login", mock.Anything, "bao@uni.edu", "secret1").
			Return(&model.TokenResponse{AccessToken: "tok", TokenType: "bearer"}, nil).Once()

		resp := do(t, app, jsonRequest(http.MethodPost, "/api/login", map[string]string{"email": "bao@uni.edu", "password": "secret1"}))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body model.TokenResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "tok", body.AccessToken)
	})

	t.Run("form with username", func(t *testing.T) {
		app, d := newTestApp(t)
		d.auth.On("Login", mock.Anything, "bao@uni.edu", "secret1").
			Return(&model.TokenResponse{AccessToken: "tok", TokenType: "bearer"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader("username=bao%40uni.edu&password=secret1"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		resp := do(t, app, req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		d.auth.AssertExpectations(t)
	})

	t.Run("bad credentials", func(t *testing.T) {
		app, d := newTestApp(t)
		d.auth.On("Login", mock.Anything, "bao@uni.edu", "wrong").Return(nil, service.ErrInvalidCredentials).Once()

		resp := do(t, app, jsonRequest(http.MethodPost, "/api/login", map[string]string{"email": "bao@uni.edu", "password": "wrong"}))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
		body := decodeError(t, resp)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
		assert.Equal(t, "Incorrect email or password", body.Error.Message)
	})

	t.Run("missing fields", func(t *testing.T) {
		app, _ := newTestApp(t)
		resp := do(t, app, jsonRequest(http.MethodPost, "/api/login", map[string]string{"email": "bao@uni.edu"}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestMe(t *testing.T) {
	app, _ := newTestApp(t)

	resp := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/me", nil), "good-token"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var user model.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, testUser.Email, user.Email)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/me", nil), "stale-token"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "INVALID_TOKEN", body.Error.Code)
	assert.Equal(t, "Token has expired", body.Error.Message)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMeRejectsTokenAfterExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens, err := auth.NewTokens("test-secret", "HS256", time.Minute, auth.WithClock(clock.Now))
	require.NoError(t, err)

	users := new(repoMocks.MockUserRepository)
	users.On("FindByEmail", mock.Anything, testUser.Email).Return(testUser, nil)
	authSvc := service.NewAuthService(users, tokens, nil)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	RegisterRoutes(app, Dependencies{Auth: authSvc})

	token, _, err := tokens.Issue(testUser.Email)
	require.NoError(t, err)

	resp := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/me", nil), token))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	clock.Advance(61 * time.Second)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/me", nil), token))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", decodeError(t, resp).Error.Code)
}

func TestChangePassword(t *testing.T) {
	app, d := newTestApp(t)
	d.auth.On("ChangePassword", mock.Anything, testUser.ID, "old-pass", "new-pass").Return(nil).Once()
	d.auth.On("ChangePassword", mock.Anything, testUser.ID, "bad-pass", "new-pass").Return(service.ErrIncorrectPassword).Once()

	req := withToken(jsonRequest(http.MethodPost, "/api/profile/change-password",
		map[string]string{"current_password": "old-pass", "new_password": "new-pass"}), "good-token")
	resp := do(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = withToken(jsonRequest(http.MethodPost, "/api/profile/change-password",
		map[string]string{"current_password": "bad-pass", "new_password": "new-pass"}), "good-token")
	resp = do(t, app, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INCORRECT_PASSWORD", decodeError(t, resp).Error.Code)
	d.auth.AssertExpectations(t)
}

func storageInfo(contentType string) storage.ObjectInfo {
	return storage.ObjectInfo{Key: "u1.png", ContentType: contentType}
}

func TestAvatar(t *testing.T) {
	app, d := newTestApp(t)
	d.auth.On("Avatar", mock.Anything, "u1").
		Return(io.NopCloser(strings.NewReader("png-bytes")), storageInfo("image/png"), nil).Once()
	d.auth.On("Avatar", mock.Anything, "u2").Return(nil, nil, service.ErrAvatarNotFound).Once()

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/users/u1/avatar", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "png-bytes", string(b))

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/users/u2/avatar", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func multipartUpload(t *testing.T, target string, fields map[string]string, filename, content string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, _ = part.Write([]byte(content))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

var uploadFields = map[string]string{
	"university":    "HCMUT",
	"faculty":       "CSE",
	"course":        "CS101",
	"documentTitle": "Week 1",
	"description":   "Intro slides",
	"documentType":  "lecture",
	"tags":          "intro",
}

func TestUpload(t *testing.T) {
	t.Run("anonymous upload", func(t *testing.T) {
		app, d := newTestApp(t)
		doc := &model.Document{ID: uuid.NewString(), Filename: "week1.pdf", Course: "CS101"}
		d.docs.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.Filename == "week1.pdf" && in.Course == "CS101" && in.Title == "Week 1" && in.UploaderID == ""
		})).Return(doc, nil).Once()

		resp := do(t, app, multipartUpload(t, "/uploadfile/", uploadFields, "week1.pdf", "%PDF-1.4"))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, doc.ID, body["id"])
		assert.Equal(t, "week1.pdf", body["filename"])
		d.docs.AssertExpectations(t)
	})

	t.Run("uploader recorded", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("Upload", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
			return in.UploaderID == testUser.ID
		})).Return(&model.Document{ID: uuid.NewString(), Filename: "a.pdf"}, nil).Once()

		resp := do(t, app, withToken(multipartUpload(t, "/uploadfile/", uploadFields, "a.pdf", "x"), "good-token"))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		d.docs.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		app, _ := newTestApp(t)
		resp := do(t, app, multipartUpload(t, "/uploadfile/", uploadFields, "", ""))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("db save failed: boom")).Once()

		resp := do(t, app, multipartUpload(t, "/uploadfile/", uploadFields, "a.pdf", "x"))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "boom")
	})
}

func TestListDocuments(t *testing.T) {
	t.Run("filters and pagination", func(t *testing.T) {
		app, d := newTestApp(t)
		res := &service.DocumentListResult{
			Items: []model.RankedDocument{{Document: model.Document{ID: uuid.NewString()}, VoteCount: 3, CommentCount: 2, PriorityScore: 8}},
			Total: 4,
		}
		d.docs.On("ListRanked", mock.Anything, model.DocumentFilter{Course: "CS101"}, repository.PageQuery{Limit: 1, Offset: 0}).
			Return(res, nil).Once()

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/documents/?course=CS101&limit=1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "4", resp.Header.Get("X-Total-Count"))
		var body []model.RankedDocument
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, 8, body[0].PriorityScore)
		d.docs.AssertExpectations(t)
	})

	t.Run("empty listing is an empty array", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("ListRanked", mock.Anything, model.DocumentFilter{}, repository.PageQuery{}).
			Return(&service.DocumentListResult{Items: []model.RankedDocument{}}, nil).Once()

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/documents/", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(b))
		assert.Equal(t, "0", resp.Header.Get("X-Total-Count"))
	})

	t.Run("max int limit with offset", func(t *testing.T) {
		docs := new(repoMocks.MockDocumentRepository)
		engagement := new(repoMocks.MockEngagementRepository)
		listed := []model.Document{{ID: "a"}, {ID: "b"}, {ID: "c"}}
		docs.On("List", mock.Anything, model.DocumentFilter{}).Return(listed, nil).Once()
		engagement.On("CountVotesByDocument", mock.Anything, mock.Anything).Return(map[string]int{}, nil).Once()
		engagement.On("CountCommentsByDocument", mock.Anything, mock.Anything).Return(map[string]int{}, nil).Once()

		app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
		RegisterRoutes(app, Dependencies{
			Documents: service.NewDocumentService(nil, docs, engagement, nil, zap.NewNop()),
		})

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/documents/?limit=9223372036854775807&offset=1", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "3", resp.Header.Get("X-Total-Count"))
		var body []model.RankedDocument
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Len(t, body, 2)
		docs.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		app, _ := newTestApp(t)
		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("store unavailable", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("ListRanked", mock.Anything, model.DocumentFilter{}, repository.PageQuery{}).
			Return(nil, mongo.ErrClientDisconnected).Once()

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/documents", nil))
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestGetDocument(t *testing.T) {
	id := uuid.NewString()
	missing := uuid.NewString()
	app, d := newTestApp(t)
	d.docs.On("Get", mock.Anything, id).Return(&model.Document{ID: id, Filename: "a.pdf"}, nil).Once()
	d.docs.On("Get", mock.Anything, missing).Return(nil, service.ErrNotFound).Once()

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+id, nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+missing, nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
}

func TestDownload(t *testing.T) {
	id := uuid.NewString()
	doc := &model.Document{ID: id, Filename: "week1.pdf", ContentType: "application/pdf", Size: 8}

	t.Run("authenticated download is recorded", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("Download", mock.Anything, id, testUser.ID).
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), doc, nil).Once()

		resp := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/download", nil), "good-token"))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="week1.pdf"`)
		assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(b))
		d.docs.AssertExpectations(t)
	})

	t.Run("anonymous download", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("Download", mock.Anything, id, "").
			Return(io.NopCloser(strings.NewReader("%PDF-1.4")), doc, nil).Once()

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/download", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		d.docs.AssertExpectations(t)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		app, _ := newTestApp(t)
		resp := do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/download", nil), "stale-token"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("file gone", func(t *testing.T) {
		app, d := newTestApp(t)
		d.docs.On("Download", mock.Anything, id, "").Return(nil, nil, service.ErrFileNotFound).Once()

		resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/download", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestComments(t *testing.T) {
	id := uuid.NewString()
	app, d := newTestApp(t)
	d.engagement.On("ListComments", mock.Anything, id).Return([]model.Comment{{ID: "c1", Text: "nice"}}, nil).Once()
	d.engagement.On("AddComment", mock.Anything, id, testUser, "great notes").
		Return(&model.Comment{ID: "c2", DocumentID: id, Text: "great notes"}, nil).Once()
	d.engagement.On("AddComment", mock.Anything, id, testUser, "").
		Return(nil, &service.ValidationError{Code: "VALIDATION_ERROR", Message: "text is required"}).Once()

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/comments", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, withToken(jsonRequest(http.MethodPost, "/api/documents/"+id+"/comments", map[string]string{"text": "great notes"}), "good-token"))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, app, withToken(jsonRequest(http.MethodPost, "/api/documents/"+id+"/comments", map[string]string{"text": ""}), "good-token"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, jsonRequest(http.MethodPost, "/api/documents/"+id+"/comments", map[string]string{"text": "anon"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	d.engagement.AssertExpectations(t)
}

func TestVotesAndFavorites(t *testing.T) {
	id := uuid.NewString()
	app, d := newTestApp(t)
	d.engagement.On("VoteStatus", mock.Anything, id, "").
		Return(&model.VoteStatus{DocumentID: id, VoteCount: 4}, nil).Once()
	d.engagement.On("ToggleVote", mock.Anything, id, testUser.ID).
		Return(&service.VoteResult{DocumentID: id, Voted: true, VoteCount: 5}, nil).Once()
	d.engagement.On("ToggleFavorite", mock.Anything, id, testUser.ID).
		Return(&model.FavoriteStatus{DocumentID: id, Favorited: true}, nil).Once()
	d.engagement.On("FavoriteStatus", mock.Anything, id, testUser.ID).
		Return(&model.FavoriteStatus{DocumentID: id, Favorited: true}, nil).Once()

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/votes", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var status model.VoteStatus
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, 4, status.VoteCount)
	assert.False(t, status.UserVoted)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/votes", nil), "good-token"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var vote service.VoteResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&vote))
	assert.True(t, vote.Voted)
	assert.Equal(t, 5, vote.VoteCount)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/favorite", nil), "good-token"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodGet, "/api/documents/"+id+"/favorite", nil), "good-token"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/votes", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	d.engagement.AssertExpectations(t)
}

func TestMyLists(t *testing.T) {
	app, d := newTestApp(t)
	docs := []model.Document{{ID: uuid.NewString()}}
	d.docs.On("MyDocuments", mock.Anything, testUser.ID).Return(docs, nil).Once()
	d.engagement.On("ListDownloads", mock.Anything, testUser.ID).Return(docs, nil).Once()
	d.engagement.On("ListFavorites", mock.Anything, testUser.ID).Return([]model.Document{}, nil).Once()

	for _, path := range []string{"/api/me/documents", "/api/me/downloads", "/api/me/favorites"} {
		resp := do(t, app, withToken(httptest.NewRequest(http.MethodGet, path, nil), "good-token"))
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
	d.docs.AssertExpectations(t)
	d.engagement.AssertExpectations(t)
}

func TestSearch(t *testing.T) {
	app, d := newTestApp(t)
	q := search.Query{Text: "calculus", Filter: model.DocumentFilter{University: "HCMUT"}}
	d.docs.On("Search", mock.Anything, q).
		Return(search.Response{Results: []model.Document{{ID: "d1"}}, Total: 1, Query: "calculus", Source: "database"}, nil).Once()
	d.docs.On("Search", mock.Anything, search.Query{}).
		Return(search.Response{}, &service.ValidationError{Code: "VALIDATION_ERROR", Message: "q is required"}).Once()

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/search?q=calculus&university=HCMUT", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body search.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "database", body.Source)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/api/search", nil))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	d.docs.AssertExpectations(t)
}

func TestProcessDocument(t *testing.T) {
	id := uuid.NewString()
	summary := "KEY CONCEPTS"

	t.Run("defaults include everything", func(t *testing.T) {
		app, d := newTestApp(t)
		d.content.On("ProcessDocument", mock.Anything, id, content.Options{IncludeSummary: true, IncludeKeywords: true}).
			Return(&model.ProcessResult{DocumentID: id, Summary: &summary, Keywords: []string{"data"}}, nil).Once()

		resp := do(t, app, withToken(httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/process-pdf", nil), "good-token"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		d.content.AssertExpectations(t)
	})

	t.Run("explicit flags", func(t *testing.T) {
		app, d := newTestApp(t)
		d.content.On("ProcessDocument", mock.Anything, id, content.Options{Questions: 3, IncludeKeywords: true}).
			Return(&model.ProcessResult{DocumentID: id, Keywords: []string{}}, nil).Once()

		req := withToken(jsonRequest(http.MethodPost, "/api/documents/"+id+"/process-pdf",
			map[string]any{"num_questions": 3, "include_summary": false}), "good-token")
		resp := do(t, app, req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		d.content.AssertExpectations(t)
	})

	t.Run("unknown document", func(t *testing.T) {
		app, d := newTestApp(t)
		d.content.On("ProcessDocument", mock.Anything, id, mock.Anything).Return(nil, service.ErrNotFound).Once()

		resp := do(t, app, withToken(httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/process-pdf", nil), "good-token"))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGenerateQuiz(t *testing.T) {
	id := uuid.NewString()
	app, d := newTestApp(t)
	d.content.On("GenerateQuiz", mock.Anything, id, 4).
		Return(&model.Quiz{Title: "Quiz", TotalQuestions: 1}, nil).Once()
	d.content.On("GenerateQuiz", mock.Anything, id, 0).Return(nil, content.ErrUnreadableFile).Once()

	resp := do(t, app, withToken(jsonRequest(http.MethodPost, "/api/documents/"+id+"/generate-quiz", map[string]int{"num_questions": 4}), "good-token"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, app, withToken(httptest.NewRequest(http.MethodPost, "/api/documents/"+id+"/generate-quiz", nil), "good-token"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNREADABLE_FILE", decodeError(t, resp).Error.Code)
	d.content.AssertExpectations(t)
}

func TestProcessFile(t *testing.T) {
	app, d := newTestApp(t)
	d.content.On("ProcessFile", mock.Anything, mock.Anything, content.Options{Questions: 2, IncludeSummary: true}).
		Return(&model.ProcessResult{Keywords: []string{}}, nil).Once()

	req := withToken(multipartUpload(t, "/api/generate-quiz-from-file-complete",
		map[string]string{"num_questions": "2", "include_keywords": "false"}, "notes.pdf", "%PDF"), "good-token")
	resp := do(t, app, req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body["summary"])
	assert.Nil(t, body["quiz"])
	d.content.AssertExpectations(t)
}

func TestUnknownRoute(t *testing.T) {
	app, _ := newTestApp(t)
	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
}
