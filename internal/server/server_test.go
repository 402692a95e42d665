package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/diagramlab/erd-codegen/internal/config"
	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/generate"
	"github.com/diagramlab/erd-codegen/internal/geometry"
	"github.com/diagramlab/erd-codegen/internal/reconstruct"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDetector struct {
	detections []detect.Detection
}

func (d *stubDetector) Detect(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	return d.detections, nil
}

type stubRecognizer struct {
	text string
}

func (r *stubRecognizer) RecognizeRegion(ctx context.Context, img image.Image, b geometry.Box) (string, error) {
	return r.text, nil
}

type stubLLM struct{}

func (stubLLM) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if strings.Contains(prompt, "produce a JSON summary") {
		return `{"endpoints": [], "types": []}`, nil
	}
	return "# generated content", nil
}

func testServer(t *testing.T, pipeline *reconstruct.Pipeline) *Server {
	t.Helper()
	cfg := config.ServerConfig{
		Port:         0,
		DownloadsDir: t.TempDir(),
		WorkDir:      t.TempDir(),
	}
	return New(cfg, pipeline, generate.NewGenerator(stubLLM{}, nil), nil)
}

func testPipeline() *reconstruct.Pipeline {
	detector := &stubDetector{detections: []detect.Detection{
		{Box: geometry.Box{X1: 0, Y1: 0, X2: 100, Y2: 100}, Label: detect.LabelEntity, Confidence: 0.9},
	}}
	recognizer := &stubRecognizer{text: "User"}
	return reconstruct.NewPipeline(detector, recognizer, reconstruct.NewEngine(nil))
}

func pngUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.White)
		}
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", "diagram.png")
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(part, img); err != nil {
		t.Fatal(err)
	}
	w.Close()
	return &body, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := testServer(t, testPipeline())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestParse(t *testing.T) {
	s := testServer(t, testPipeline())

	body, contentType := pngUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result struct {
		Entities []struct {
			Name string `json:"name"`
		} `json:"entities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Entities) != 1 || result.Entities[0].Name != "User" {
		t.Errorf("unexpected parse result: %s", rec.Body.String())
	}
}

func TestParseMissingFile(t *testing.T) {
	s := testServer(t, testPipeline())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/parse", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestParseNotConfigured(t *testing.T) {
	s := testServer(t, nil)

	body, contentType := pngUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func validGenerateBody() string {
	return `{
		"target_stack": "fastapi",
		"schema_data": {
			"entities": [
				{"name": "User", "attributes": [
					{"name": "id", "type": "Long", "pk": true, "fk": false}
				]}
			],
			"relationships": []
		}
	}`
}

func TestGenerateAndDownload(t *testing.T) {
	s := testServer(t, testPipeline())

	req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(validGenerateBody()))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		DownloadURL string `json:"download_url"`
		Message     string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.DownloadURL, "/downloads/") || !strings.HasSuffix(resp.DownloadURL, ".zip") {
		t.Fatalf("unexpected download url: %q", resp.DownloadURL)
	}

	dlRec := httptest.NewRecorder()
	s.Handler().ServeHTTP(dlRec, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	if dlRec.Code != http.StatusOK {
		t.Fatalf("download status = %d", dlRec.Code)
	}
	if dlRec.Body.Len() == 0 {
		t.Error("download body is empty")
	}
}

func TestGenerateRejectsBadRequests(t *testing.T) {
	s := testServer(t, testPipeline())

	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing stack", `{"schema_data": {"entities": [], "relationships": []}}`},
		{"unknown stack", `{"target_stack": "rails", "schema_data": {"entities": [], "relationships": []}}`},
		{"schema missing entities", `{"target_stack": "fastapi", "schema_data": {"relationships": []}}`},
		{"attribute missing type", `{"target_stack": "fastapi", "schema_data": {"entities": [{"name": "User", "attributes": [{"name": "id", "pk": true, "fk": false}]}], "relationships": []}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/generate", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	s := testServer(t, testPipeline())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/downloads/secrets.txt", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-zip name: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/downloads/missing.zip", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing archive: status = %d, want 404", rec.Code)
	}
}
