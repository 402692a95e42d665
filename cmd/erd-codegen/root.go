package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/diagramlab/erd-codegen/internal/config"
	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/generate"
	"github.com/diagramlab/erd-codegen/internal/ocr"
	"github.com/diagramlab/erd-codegen/internal/reconstruct"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "erd-codegen",
	Short: "Turn ER diagram images into schemas and backend projects",
	Long: `erd-codegen reconstructs a relational schema from an entity-relationship
diagram image and can generate a runnable backend project from it.

The pipeline detects entity boxes, attribute rows, relationship lines, and
cardinality labels, reads their text with OCR, and assembles a schema
document. A target stack (springboot, fastapi, dotnet) turns that document
into project code via an LLM.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load(cfgFile)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./erd-codegen.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newEngine applies the configured thresholds, squared for the distance
// comparisons.
func newEngine() *reconstruct.Engine {
	engine := reconstruct.NewEngine(logger)
	if t := cfg.Engine.ConnectThreshold; t > 0 {
		engine.ConnectThresholdSq = t * t
	}
	if t := cfg.Engine.CardinalityThreshold; t > 0 {
		engine.CardinalityThresholdSq = t * t
	}
	return engine
}

// newPipeline assembles the image-to-schema pipeline from configuration:
// a remote detector when an endpoint is configured, the built-in heuristic
// detector otherwise.
func newPipeline() (*reconstruct.Pipeline, error) {
	var detector detect.Detector
	if cfg.Detector.Endpoint != "" {
		model := detect.ModelConfig{}
		if cfg.Detector.ModelConfig != "" {
			loaded, err := detect.LoadModelConfig(cfg.Detector.ModelConfig)
			if err != nil {
				return nil, fmt.Errorf("failed to load model config: %w", err)
			}
			model = *loaded
		}
		detector = detect.NewRemoteDetector(detect.RemoteConfig{
			Endpoint: cfg.Detector.Endpoint,
			Model:    model,
			Timeout:  cfg.Detector.Timeout,
		})
		logger.Info("using remote detector", "endpoint", cfg.Detector.Endpoint)
	} else {
		detector = detect.NewHeuristicDetector()
		logger.Info("using heuristic detector")
	}

	recognizer := ocr.NewTesseractRecognizer()
	if cfg.OCR.Language != "" {
		recognizer.Language = cfg.OCR.Language
	}

	return reconstruct.NewPipeline(detector, recognizer, newEngine()), nil
}

// newGenerator builds the LLM-backed project generator. The API key is
// required; there is no offline fallback for code generation.
func newGenerator() (*generate.Generator, error) {
	if cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("an OpenAI API key is required (set OPENAI_API_KEY or llm.api_key)")
	}
	client := generate.NewOpenAIClient(generate.OpenAIConfig{
		APIKey: cfg.LLM.APIKey,
		Model:  cfg.LLM.Model,
	})
	g := generate.NewGenerator(client, logger)
	if cfg.LLM.Temperature > 0 {
		g.Temperature = cfg.LLM.Temperature
	}
	return g, nil
}
