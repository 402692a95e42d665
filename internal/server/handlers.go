package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/diagramlab/erd-codegen/internal/generate"
	"github.com/diagramlab/erd-codegen/internal/imaging"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is healthy"})
}

// handleParse accepts a multipart upload under the "image" field and returns
// the reconstructed schema. Collaborator failures (detector down, OCR broken)
// are 502: the request was fine, a backend was not.
func (s *Server) handleParse(c *gin.Context) {
	if s.pipeline == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "diagram parsing is not configured"})
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "an 'image' file field is required"})
		return
	}
	defer file.Close()

	img, format, err := imaging.Decode(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported or corrupt image: %v", err)})
		return
	}

	result, err := s.pipeline.Parse(c.Request.Context(), img)
	if err != nil {
		s.logger.Error("diagram parse failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("failed to parse diagram: %v", err)})
		return
	}

	s.logger.Info("diagram parsed",
		"format", format,
		"entities", len(result.Entities),
		"relationships", len(result.Relationships))
	c.JSON(http.StatusOK, result)
}

type generateRequest struct {
	SchemaData  json.RawMessage `json:"schema_data" binding:"required"`
	TargetStack string          `json:"target_stack" binding:"required"`
}

// handleGenerate validates the submitted schema, runs the generator in a
// per-run working directory, zips the project into the downloads directory,
// and returns the download URL with the generation summary.
func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request: %v", err)})
		return
	}

	if err := schema.ValidateDocument(req.SchemaData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid schema document: %v", err)})
		return
	}
	var doc schema.Schema
	if err := json.Unmarshal(req.SchemaData, &doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid schema document: %v", err)})
		return
	}
	if _, err := generate.StackFor(req.TargetStack); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.NewString()
	runDir := filepath.Join(s.cfg.WorkDir, "run_"+runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare working directory"})
		return
	}
	defer os.RemoveAll(runDir)

	result, err := s.generator.Generate(c.Request.Context(), doc, req.TargetStack, runDir)
	if err != nil {
		s.logger.Error("project generation failed", "run_id", runID, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("project generation failed: %v", err)})
		return
	}

	zipName := filepath.Base(result.ProjectDir) + ".zip"
	if err := os.MkdirAll(s.cfg.DownloadsDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to prepare downloads directory"})
		return
	}
	zipPath := filepath.Join(s.cfg.DownloadsDir, zipName)
	if err := generate.ZipDir(zipPath, result.ProjectDir); err != nil {
		s.logger.Error("failed to archive project", "run_id", runID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to archive generated project"})
		return
	}

	s.logger.Info("project generated", "run_id", runID, "stack", req.TargetStack, "zip", zipName)
	c.JSON(http.StatusOK, gin.H{
		"download_url": "/downloads/" + zipName,
		"summary":      result.Summary,
		"message":      fmt.Sprintf("%s project generated.", capitalizeStack(req.TargetStack)),
	})
}

// handleDownload serves a previously generated archive. The name is reduced
// to its base so path traversal cannot escape the downloads directory.
func (s *Server) handleDownload(c *gin.Context) {
	name := filepath.Base(c.Param("name"))
	if name == "." || name == "/" || !strings.HasSuffix(name, ".zip") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid download name"})
		return
	}

	path := filepath.Join(s.cfg.DownloadsDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such download"})
		return
	}
	c.FileAttachment(path, name)
}

func capitalizeStack(stack string) string {
	stack = strings.TrimSpace(stack)
	if stack == "" {
		return stack
	}
	return strings.ToUpper(stack[:1]) + stack[1:]
}
