package web

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"facecheck/config"
	"facecheck/db"
	"facecheck/faces"
	"facecheck/handlers"
	"facecheck/models"
	"facecheck/storage"
	"facecheck/verifier"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/driver/sqlite"
)

type fakeExtractor map[string]faces.Descriptor

func (f fakeExtractor) Extract(img []byte) (*faces.Descriptor, error) {
	if string(img) == "broken" {
		return nil, image.ErrFormat
	}
	d, ok := f[string(img)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func referencePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for x := 0; x < 640; x++ {
		img.Set(x, x%480, color.White)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type env struct {
	router    *gin.Engine
	reference []byte
}

// setup builds the full router around a fake model. With persist the checks go to sqlite and a disk archive.
func setup(t *testing.T, persist bool, initialize bool) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	oldToken := config.ADMIN_TOKEN
	config.ADMIN_TOKEN = "secret"
	t.Cleanup(func() {
		config.ADMIN_TOKEN = oldToken
		db.Instance = nil
		storage.Archive = nil
	})

	if persist {
		instance, err := db.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")))
		if err != nil {
			t.Fatal(err)
		}
		db.Instance = instance
		if err := models.Init(); err != nil {
			t.Fatal(err)
		}
		storage.Archive = storage.NewDiskStorage(&storage.Bucket{Name: "test", Path: t.TempDir()})
	}

	reference := referencePNG(t)
	far := faces.Descriptor{}
	for i := range far {
		far[i] = 0.1
	}
	extractor := fakeExtractor{
		string(reference): {},
		"same":            {},
		"far":             far,
	}
	handlers.Setup(verifier.New("Person X", 0.48), func() ([]byte, error) { return reference, nil })
	if initialize {
		err := handlers.Checker.Initialize(func() (faces.Extractor, error) { return extractor, nil }, handlers.Reference)
		if err != nil {
			t.Fatal(err)
		}
	}
	return &env{router: NewRouter(), reference: reference}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, name string, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/check", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeCheck(t *testing.T, rec *httptest.ResponseRecorder) handlers.CheckResponse {
	t.Helper()
	result := handlers.CheckResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("bad JSON %q: %v", rec.Body.String(), err)
	}
	return result
}

func TestCheckUpload(t *testing.T) {
	e := setup(t, false, true)
	tests := []struct {
		name        string
		content     string
		wantKind    verifier.Kind
		wantMessage string
		wantMatched bool
		wantDist    bool
	}{
		{"match", "same", verifier.KindSuccess, "It's Person X! (Distance: 0.000)", true, true},
		{"no match", "far", verifier.KindError, "It's NOT Person X. (Distance: 1.131)", false, true},
		{"no face", "a landscape", verifier.KindError, verifier.MessageNoFace, false, false},
		{"broken", "broken", verifier.KindError, verifier.MessageAnalysisFailed, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := e.do(uploadRequest(t, "photo.jpg", tt.content))
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %d, body %s", rec.Code, rec.Body.String())
			}
			got := decodeCheck(t, rec)
			if got.Kind != tt.wantKind || got.Message != tt.wantMessage || got.Matched != tt.wantMatched {
				t.Errorf("got %+v", got)
			}
			if (got.Distance != nil) != tt.wantDist {
				t.Errorf("distance = %v, want present %v", got.Distance, tt.wantDist)
			}
			if got.ID != "" {
				t.Errorf("no database, id should be empty: %q", got.ID)
			}
		})
	}
}

func TestCheckUploadErrors(t *testing.T) {
	e := setup(t, false, false)
	rec := e.do(uploadRequest(t, "photo.jpg", "same"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("not ready code = %d", rec.Code)
	}
	if got := decodeCheck(t, rec); got.Message != verifier.MessageNotReady {
		t.Errorf("not ready = %+v", got)
	}
	rec = e.do(httptest.NewRequest(http.MethodPost, "/check", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing file code = %d", rec.Code)
	}
}

func TestCheckUploadPersisted(t *testing.T) {
	e := setup(t, true, true)
	rec := e.do(uploadRequest(t, "me.jpg", "same"))
	got := decodeCheck(t, rec)
	if len(got.ID) != 36 {
		t.Fatalf("id = %q", got.ID)
	}
	check, err := models.FindCheck(got.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !check.Matched || check.Path == "" || check.Size != 4 || check.FileName != "me.jpg" {
		t.Errorf("stored check = %+v", check)
	}
	if storage.Archive.GetSize(check.Path) != 4 {
		t.Errorf("archived size = %d", storage.Archive.GetSize(check.Path))
	}
	if check.Width != 0 || check.Height != 0 {
		t.Errorf("undecodable upload has dimensions %dx%d", check.Width, check.Height)
	}

	photo := decodeCheck(t, e.do(uploadRequest(t, "photo.png", string(e.reference))))
	stored, err := models.FindCheck(photo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Matched || stored.Width != 640 || stored.Height != 480 {
		t.Errorf("stored photo check = %+v", stored)
	}

	// Session remembers the last result
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range rec.Result().Cookies() {
		req.AddCookie(ck)
	}
	page := e.do(req)
	if !strings.Contains(page.Body.String(), `<div id="result" class="success">Last result: It&#39;s Person X!`) {
		t.Errorf("page without last result: %s", page.Body.String())
	}
	if !strings.Contains(page.Body.String(), `<div id="service" class="neutral">`+verifier.MessageReady) {
		t.Errorf("service status should stay on its own line: %s", page.Body.String())
	}
}

func TestHistory(t *testing.T) {
	e := setup(t, true, true)
	e.do(uploadRequest(t, "a.jpg", "same"))
	e.do(uploadRequest(t, "b.jpg", "far"))

	if rec := e.do(httptest.NewRequest(http.MethodGet, "/history", nil)); rec.Code != http.StatusUnauthorized {
		t.Errorf("without token code = %d", rec.Code)
	}
	req := httptest.NewRequest(http.MethodGet, "/history?limit=10", nil)
	req.Header.Set("X-Admin-Token", "secret")
	rec := e.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d %s", rec.Code, rec.Body.String())
	}
	result := handlers.HistoryResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Checks) != 2 {
		t.Errorf("checks = %+v", result.Checks)
	}
	if result.FreeSpace == 0 {
		t.Error("free space missing")
	}

	req = httptest.NewRequest(http.MethodGet, "/history?limit=1000", nil)
	req.Header.Set("X-Admin-Token", "secret")
	if rec := e.do(req); rec.Code != http.StatusBadRequest {
		t.Errorf("limit too big code = %d", rec.Code)
	}
	req = httptest.NewRequest(http.MethodGet, "/history/"+result.Checks[0].ID+"/thumb?token=secret", nil)
	if rec := e.do(req); rec.Code != http.StatusNotFound {
		t.Errorf("thumb before processing code = %d", rec.Code)
	}
}

func TestStatusAndPages(t *testing.T) {
	e := setup(t, false, true)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/status", nil))
	status := handlers.StatusResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if !status.Ready || status.Message != verifier.MessageReady || status.Threshold != 0.48 || status.Name != "Person X" {
		t.Errorf("status = %+v", status)
	}

	rec = e.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), verifier.MessageReady) {
		t.Errorf("index = %d %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "Last result") {
		t.Error("fresh visitor should have no last result")
	}
	// Pushed service statuses must not overwrite the visitor's result
	if !strings.Contains(rec.Body.String(), "show(serviceElement, status.message, status.kind)") {
		t.Error("websocket updates should go to the service line")
	}

	rec = e.do(httptest.NewRequest(http.MethodGet, "/reference", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/jpeg" {
		t.Errorf("reference = %d %s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec.Header().Get("cache-control") != "private, max-age=3600" {
		t.Errorf("reference cache-control = %q", rec.Header().Get("cache-control"))
	}

	rec = e.do(httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	if !strings.Contains(rec.Body.String(), "Disallow: /") {
		t.Errorf("robots = %q", rec.Body.String())
	}
}

func TestReferenceReload(t *testing.T) {
	e := setup(t, false, true)
	reloaded := make(chan verifier.Status, 4)
	handlers.Checker.Subscribe(func(s verifier.Status) { reloaded <- s })
	req := httptest.NewRequest(http.MethodPost, "/reference/reload", nil)
	req.Header.Set("X-Admin-Token", "secret")
	if rec := e.do(req); rec.Code != http.StatusAccepted {
		t.Fatalf("code = %d", rec.Code)
	}
	for {
		select {
		case s := <-reloaded:
			if s.Kind == verifier.KindNeutral {
				if !handlers.Checker.Ready() {
					t.Error("checker should be ready after reload")
				}
				return
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("reload did not finish: %+v", handlers.Checker.Status())
		}
	}
}

func TestWebSocket(t *testing.T) {
	e := setup(t, false, true)
	server := httptest.NewServer(e.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	read := func() handlers.StatusResponse {
		t.Helper()
		_, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatal(err)
		}
		result := handlers.StatusResponse{}
		if err := json.Unmarshal(data, &result); err != nil {
			t.Fatalf("bad message %q: %v", data, err)
		}
		return result
	}
	if first := read(); !first.Ready || first.Message != verifier.MessageReady {
		t.Errorf("first message = %+v", first)
	}

	if err := handlers.Checker.Reload(handlers.Reference); err != nil {
		t.Fatal(err)
	}
	if got := read(); got.Ready || got.Message != verifier.MessageAnalyzingReference || got.Kind != verifier.KindLoading {
		t.Errorf("loading message = %+v", got)
	}
	if got := read(); !got.Ready || got.Message != verifier.MessageReady {
		t.Errorf("ready message = %+v", got)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping")); err != nil {
		t.Fatal(err)
	}
	if _, data, err := conn.ReadMessage(); err != nil || string(data) != "pong" {
		t.Errorf("ping answer = %q, %v", data, err)
	}
}
