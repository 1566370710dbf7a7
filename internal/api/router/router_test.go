package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/mini-threads/config"
	"github.com/d60-Lab/mini-threads/internal/api/handler"
	"github.com/d60-Lab/mini-threads/internal/blob"
	"github.com/d60-Lab/mini-threads/internal/model"
	"github.com/d60-Lab/mini-threads/internal/repository"
	"github.com/d60-Lab/mini-threads/internal/service"
	"github.com/d60-Lab/mini-threads/pkg/jwtauth"
)

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Follow{}, &model.Post{}, &model.Comment{}))

	tokens := jwtauth.NewManager("test-secret", time.Hour)
	blobs, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	authSvc := service.NewAuthService(userRepo, tokens)
	relSvc := service.NewRelationshipService(followRepo, userRepo, nil)
	contentSvc := service.NewContentService(postRepo, commentRepo, blobs)
	feedSvc := service.NewFeedService(relSvc, postRepo)

	h := handler.New(authSvc, relSvc, contentSvc, feedSvc)
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode}}
	return New(cfg, h, tokens, authSvc, blobs.Dir())
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func registerUser(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/register", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func createPost(t *testing.T, r *gin.Engine, token, content string, image []byte, imageName string) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("content", content))
	if image != nil {
		fw, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var post map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &post))
	return post
}

// 完整用户旅程：注册、错误登录、发帖、关注、feed
func TestEndToEndScenario(t *testing.T) {
	r := setupServer(t)

	t1 := registerUser(t, r, "alice", "password1")

	// 错误密码登录 -> 401
	w, _ := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"username": "alice", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// alice 发帖，无图片时 image_url 为 null
	post := createPost(t, r, t1, "hello", nil, "")
	assert.Equal(t, "hello", post["content"])
	assert.Nil(t, post["image_url"])

	// /me 返回 alice 自己
	w, env := doJSON(t, r, http.MethodGet, "/me", t1, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, me.ID, post["author_id"])

	t2 := registerUser(t, r, "bob", "password2")

	// bob 关注 alice
	w, _ = doJSON(t, r, http.MethodPost, "/follow/"+me.ID, t2, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// bob 的 feed 包含 alice 的帖子
	w, env = doJSON(t, r, http.MethodGet, "/feed", t2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "hello", feed[0]["content"])
	assert.Equal(t, me.ID, feed[0]["author_id"])

	// alice 的粉丝列表包含 bob
	w, env = doJSON(t, r, http.MethodGet, "/followers/"+me.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var followers []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &followers))
	require.Len(t, followers, 1)
}

func TestRegisterDuplicateReturns400(t *testing.T) {
	r := setupServer(t)
	registerUser(t, r, "alice", "password1")

	w, _ := doJSON(t, r, http.MethodPost, "/register", "", gin.H{"username": "alice", "password": "password1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterRejectsBadUsername(t *testing.T) {
	r := setupServer(t)
	for _, name := range []string{"ab", "has space", "bad!chars", ""} {
		w, _ := doJSON(t, r, http.MethodPost, "/register", "", gin.H{"username": name, "password": "password1"})
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestBearerGateOnMutations(t *testing.T) {
	r := setupServer(t)
	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/me"},
		{http.MethodPost, "/follow/some-id"},
		{http.MethodPost, "/unfollow/some-id"},
		{http.MethodPost, "/posts/some-id/comments"},
		{http.MethodGet, "/feed"},
	} {
		w, _ := doJSON(t, r, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}
}

func TestPostWithImageServedFromUploads(t *testing.T) {
	r := setupServer(t)
	t1 := registerUser(t, r, "alice", "password1")

	post := createPost(t, r, t1, "pic", []byte{0xff, 0xd8, 0xff}, "cat.jpg")
	url, ok := post["image_url"].(string)
	require.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, w.Body.Bytes())
}

func TestPostUnsupportedMediaType(t *testing.T) {
	r := setupServer(t)
	t1 := registerUser(t, r, "alice", "password1")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("content", "doc"))
	fw, err := mw.CreateFormFile("image", "notes.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/posts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t1)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommentFlow(t *testing.T) {
	r := setupServer(t)
	t1 := registerUser(t, r, "alice", "password1")
	t2 := registerUser(t, r, "bob", "password2")

	post := createPost(t, r, t1, "thread", nil, "")
	postID := post["id"].(string)

	w, _ := doJSON(t, r, http.MethodPost, "/posts/"+postID+"/comments", t2, gin.H{"content": "first"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/posts/"+postID+"/comments", t1, gin.H{"content": "second"})
	require.Equal(t, http.StatusOK, w.Code)

	// 评论缺失帖子 -> 404
	w, _ = doJSON(t, r, http.MethodPost, "/posts/missing/comments", t2, gin.H{"content": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/posts/"+postID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0]["content"])
	assert.Equal(t, "second", comments[1]["content"])
}
