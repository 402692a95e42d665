package detect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// ModelConfig describes the remote detection model: how its numeric class
// ids map onto the label vocabulary, and the thresholds the service should
// apply before returning detections.
type ModelConfig struct {
	// ClassNames maps the model's class ids to labels. Ids missing from the
	// map produce unknown labels, which the classifier ignores.
	ClassNames map[int]Label `yaml:"class_names"`

	// ConfidenceThreshold is forwarded to the service; detections below it
	// are filtered server-side. The engine itself never filters by confidence.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`

	// IoUThreshold is the non-maximum-suppression overlap threshold.
	IoUThreshold float64 `yaml:"iou_threshold"`
}

// LoadModelConfig reads a ModelConfig from a YAML file.
func LoadModelConfig(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model config: %w", err)
	}
	var cfg ModelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse model config: %w", err)
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.35
	}
	if cfg.IoUThreshold == 0 {
		cfg.IoUThreshold = 0.45
	}
	return &cfg, nil
}

// RemoteConfig holds configuration for the remote detector client.
type RemoteConfig struct {
	Endpoint   string
	Model      ModelConfig
	Timeout    time.Duration
	HTTPClient *http.Client // Optional (tests)
}

// RemoteDetector calls an external object-detection service over HTTP.
// The service receives the PNG-encoded image and returns labeled boxes;
// model inference stays outside this process.
type RemoteDetector struct {
	endpoint string
	model    ModelConfig
	client   *http.Client
}

// NewRemoteDetector creates a detector client for the given endpoint.
func NewRemoteDetector(cfg RemoteConfig) *RemoteDetector {
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &RemoteDetector{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   client,
	}
}

type remoteRequest struct {
	ImageBase64         string  `json:"image_base64"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	IoUThreshold        float64 `json:"iou_threshold"`
}

type remoteDetection struct {
	Box        [4]int  `json:"box"`
	ClassID    *int    `json:"class_id,omitempty"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`
}

type remoteResponse struct {
	Detections []remoteDetection `json:"detections"`
}

// Detect sends the image to the detection service and maps the response onto
// the Detection vocabulary. Service and transport failures are returned to
// the caller unchanged in meaning; they are never downgraded to an empty
// detection list.
func (d *RemoteDetector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	payload, err := json.Marshal(remoteRequest{
		ImageBase64:         base64.StdEncoding.EncodeToString(buf.Bytes()),
		ConfidenceThreshold: d.model.ConfidenceThreshold,
		IoUThreshold:        d.model.IoUThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("detection request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read detection response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("detection service returned status %d: %s", resp.StatusCode, truncate(body, 500))
	}

	var decoded remoteResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode detection response: %w", err)
	}

	detections := make([]Detection, 0, len(decoded.Detections))
	for _, rd := range decoded.Detections {
		detections = append(detections, Detection{
			Box:        geometry.Box{X1: rd.Box[0], Y1: rd.Box[1], X2: rd.Box[2], Y2: rd.Box[3]},
			Label:      d.resolveLabel(rd),
			Confidence: rd.Confidence,
		})
	}
	return detections, nil
}

// resolveLabel prefers the service's textual label and falls back to the
// class-id mapping from the model config.
func (d *RemoteDetector) resolveLabel(rd remoteDetection) Label {
	if rd.Label != "" {
		return Label(rd.Label)
	}
	if rd.ClassID != nil {
		if l, ok := d.model.ClassNames[*rd.ClassID]; ok {
			return l
		}
		return Label(fmt.Sprintf("unknown_class_%d", *rd.ClassID))
	}
	return ""
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
