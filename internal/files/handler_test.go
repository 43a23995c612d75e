package files_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"unishare-backend/internal/bootstrap"
	"unishare-backend/internal/files"
	"unishare-backend/internal/shared/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
	Count   *int            `json:"count"`
	Filters map[string]any  `json:"filters"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		MaxUploadBytes:  1 << 20,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app.Router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createInstitution(t *testing.T, router *gin.Engine, name, domain string) string {
	t.Helper()
	resp := postJSON(t, router, "/api/v1/institutions", map[string]string{"name": name, "domain": domain})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create institution: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var inst struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &inst); err != nil {
		t.Fatalf("decode institution: %v", err)
	}
	return inst.ID
}

func register(t *testing.T, router *gin.Engine, name, email, instID string) string {
	t.Helper()
	resp := postJSON(t, router, "/api/v1/register", map[string]string{
		"name":          name,
		"email":         email,
		"password":      "sekrit99",
		"institutionId": instID,
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var reg struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &reg); err != nil {
		t.Fatalf("decode register: %v", err)
	}
	return reg.Token
}

func upload(t *testing.T, router *gin.Engine, token, fileName, semester, course, description, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("write part: %v", err)
	}
	for field, value := range map[string]string{
		"semester":    semester,
		"course":      course,
		"description": description,
	} {
		if err := mw.WriteField(field, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func listFiles(t *testing.T, router *gin.Engine, token, query string) ([]files.FileResponse, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/files"+query, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("list %q: expected 200, got %d: %s", query, resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var items []files.FileResponse
	if err := json.Unmarshal(env.Data, &items); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return items, env
}

func TestUploadListRoundTrip(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	resp := upload(t, router, token, "notes.pdf", "3", "Data Structures", "midterm notes", "%PDF-1.4 fake body")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var created files.FileResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.Uploader.Name != "Asha" || created.Institution.ID != instID {
		t.Fatalf("unexpected attribution: %+v", created)
	}

	matched, listEnv := listFiles(t, router, token, "?semester=3")
	if len(matched) != 1 || matched[0].FileName != "notes.pdf" {
		t.Fatalf("semester=3: expected the upload back, got %+v", matched)
	}
	if listEnv.Filters["institution"] != instID || listEnv.Filters["semester"] != "3" {
		t.Fatalf("unexpected echoed filters: %v", listEnv.Filters)
	}

	if other, _ := listFiles(t, router, token, "?semester=4"); len(other) != 0 {
		t.Fatalf("semester=4: expected no records, got %+v", other)
	}
}

func TestListSearchIsCaseInsensitiveSubstring(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	if resp := upload(t, router, token, "Lab-Manual.pdf", "2", "Physics", "", "pdf body"); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	if resp := upload(t, router, token, "syllabus.txt", "2", "Physics", "", "plain text"); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}

	matched, _ := listFiles(t, router, token, "?search_term=manual")
	if len(matched) != 1 || matched[0].FileName != "Lab-Manual.pdf" {
		t.Fatalf("search_term=manual: expected Lab-Manual.pdf only, got %+v", matched)
	}
}

func TestListCourseFilterIgnoresCase(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	if resp := upload(t, router, token, "dbms.pdf", "5", "Database Systems", "", "pdf"); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}

	matched, _ := listFiles(t, router, token, "?course=database+systems")
	if len(matched) != 1 {
		t.Fatalf("expected case-insensitive course match, got %+v", matched)
	}
}

func TestListMyUploads(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	ashaToken := register(t, router, "Asha", "asha@zul.edu", instID)
	ravToken := register(t, router, "Rav", "rav@zul.edu", instID)

	if resp := upload(t, router, ashaToken, "asha.pdf", "1", "Maths", "", "pdf"); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	if resp := upload(t, router, ravToken, "rav.pdf", "1", "Maths", "", "pdf"); resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}

	all, _ := listFiles(t, router, ashaToken, "")
	if len(all) != 2 {
		t.Fatalf("expected both institution files, got %+v", all)
	}

	mine, env := listFiles(t, router, ashaToken, "?myuploads=true")
	if len(mine) != 1 || mine[0].FileName != "asha.pdf" {
		t.Fatalf("myuploads: expected asha.pdf only, got %+v", mine)
	}
	if env.Filters["myuploads"] != true {
		t.Fatalf("expected myuploads echoed in filters, got %v", env.Filters)
	}
}

func TestCrossInstitutionAccessForbidden(t *testing.T) {
	router := newTestRouter(t)
	zulID := createInstitution(t, router, "Zul College", "zul.edu")
	acmeID := createInstitution(t, router, "Acme Institute", "acme.ac.in")
	zulToken := register(t, router, "Asha", "asha@zul.edu", zulID)
	acmeToken := register(t, router, "Bo", "bo@acme.ac.in", acmeID)

	resp := upload(t, router, zulToken, "secret.pdf", "6", "Networks", "", "pdf body")
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d", resp.Code)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var created files.FileResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	// Listings in the other institution never surface the record.
	if other, _ := listFiles(t, router, acmeToken, ""); len(other) != 0 {
		t.Fatalf("expected an empty listing for the other institution, got %+v", other)
	}

	// Direct fetch and download are both independently refused.
	for _, path := range []string{
		"/api/v1/files/" + created.ID,
		"/api/v1/files/" + created.ID + "/download",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+acmeToken)
		foreign := httptest.NewRecorder()
		router.ServeHTTP(foreign, req)
		if foreign.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d: %s", path, foreign.Code, foreign.Body.String())
		}
	}
}

func TestDownloadStreamsContent(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	body := "hello from the text file"
	resp := upload(t, router, token, "greeting.txt", "1", "Intro", "", body)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var created files.FileResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+created.ID+"/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d: %s", dl.Code, dl.Body.String())
	}
	if dl.Body.String() != body {
		t.Fatalf("expected stored bytes back, got %q", dl.Body.String())
	}
	want := fmt.Sprintf("attachment; filename=%q", "greeting.txt")
	if got := dl.Header().Get("Content-Disposition"); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	resp := upload(t, router, token, "tool.exe", "1", "Intro", "", "MZ binary")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for .exe upload, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUploadFileNameLength(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	tooLong := strings.Repeat("a", 300) + ".pdf"
	resp := upload(t, router, token, tooLong, "1", "Intro", "", "pdf body")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("304-char name: expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var errs map[string]string
	if err := json.Unmarshal(env.Errors, &errs); err != nil {
		t.Fatalf("decode errors: %v", err)
	}
	if _, ok := errs["file"]; !ok {
		t.Fatalf("expected an itemized file error, got %v", errs)
	}

	// The longest allowed display name must still be storable.
	longest := strings.Repeat("b", 240) + ".pdf"
	resp = upload(t, router, token, longest, "1", "Intro", "", "pdf body")
	if resp.Code != http.StatusCreated {
		t.Fatalf("244-char name: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var created files.FileResponse
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if created.FileName != longest {
		t.Fatalf("display name must be kept verbatim, got %q", created.FileName)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/"+created.ID+"/download", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)
	if dl.Code != http.StatusOK || dl.Body.String() != "pdf body" {
		t.Fatalf("download of long-named file: got %d %q", dl.Code, dl.Body.String())
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	app, err := bootstrap.Build(config.Config{
		Env:             "dev",
		ObjectStoreType: "local",
		LocalStoreDir:   t.TempDir(),
		JWTSecret:       "test-secret",
		JWTTTL:          time.Hour,
		MaxUploadBytes:  64 << 10,
	})
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	router := app.Router
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	resp := upload(t, router, token, "big.pdf", "1", "Intro", "", strings.Repeat("x", 256<<10))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized payload, got %d: %s", resp.Code, resp.Body.String())
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || !strings.Contains(env.Message, "exceeds") {
		t.Fatalf("expected a limit message, got %+v", env)
	}

	under := upload(t, router, token, "small.pdf", "1", "Intro", "", strings.Repeat("x", 16<<10))
	if under.Code != http.StatusCreated {
		t.Fatalf("under-limit upload: expected 201, got %d: %s", under.Code, under.Body.String())
	}
}

func TestPreflightBypassesGuard(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/files", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", resp.Code)
	}
	if resp.Body.Len() != 0 {
		t.Fatalf("preflight must not reach a handler, got body %q", resp.Body.String())
	}
}

func TestUploadValidatesFields(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	if resp := upload(t, router, token, "notes.pdf", "9", "Intro", "", "pdf"); resp.Code != http.StatusBadRequest {
		t.Fatalf("semester=9: expected 400, got %d", resp.Code)
	}
	longCourse := make([]byte, 101)
	for i := range longCourse {
		longCourse[i] = 'c'
	}
	if resp := upload(t, router, token, "notes.pdf", "1", string(longCourse), "", "pdf"); resp.Code != http.StatusBadRequest {
		t.Fatalf("long course: expected 400, got %d", resp.Code)
	}
}

func TestListRejectsBadSemesterFilter(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files?semester=99", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for semester=99, got %d", resp.Code)
	}
}

func TestFilesRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestGetUnknownFileNotFound(t *testing.T) {
	router := newTestRouter(t)
	instID := createInstitution(t, router, "Zul College", "zul.edu")
	token := register(t, router, "Asha", "asha@zul.edu", instID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/files/no-such-id", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}
