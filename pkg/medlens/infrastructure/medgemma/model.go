package medgemma

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"medlens/pkg/common"
	"medlens/pkg/medlens/domain"
)

var errEmptyModelOutput = errors.New("empty model output")

const (
	// ConfigKeyBinaryPath path to the runner binary (a llama.cpp-style executable built with the MedGemma weights)
	ConfigKeyBinaryPath = "medgemmaBinaryPath"
	// ConfigKeyModelPath path to the quantized model weights
	ConfigKeyModelPath = "medgemmaModelPath"
	// ConfigKeyProjectorPath path to the multimodal projector used for image inputs
	ConfigKeyProjectorPath = "medgemmaProjectorPath"
	// ConfigKeyContextSize the size of the context window
	ConfigKeyContextSize = "medgemmaContextSize"
	// ConfigKeyGPULayerCount how many layers of the model can be offloaded to GPU
	ConfigKeyGPULayerCount = "medgemmaGPULayerCount"
	// ConfigKeyCPUThreadCount the number of CPU threads used during inference
	ConfigKeyCPUThreadCount = "medgemmaCPUThreadCount"
	// ConfigKeyResponseTimeout when to give up if the runner takes too long to generate output
	ConfigKeyResponseTimeout = "medgemmaResponseTimeout"
)

type model struct {
	mutex           sync.Mutex
	logger          common.Logger
	binaryPath      string
	modelPath       string
	projectorPath   string
	contextSize     int
	gpuLayerCount   int
	cpuThreadCount  int
	responseTimeout time.Duration
}

// NewModel creates the MedGemma model backed by a local runner binary. We hook up to the runner by
// launching a subprocess per request, which gives us full isolation and fault-tolerance: a crash in the
// runner does not take the pipeline down with it.
func NewModel(config *common.Config, logger common.Logger) domain.Model {
	return &model{
		logger:          logger,
		binaryPath:      config.GetStringOrDefault(ConfigKeyBinaryPath, "./medgemma"),
		modelPath:       config.GetStringOrDefault(ConfigKeyModelPath, "./medgemma-4b-it-q4.gguf"),
		projectorPath:   config.GetStringOrDefault(ConfigKeyProjectorPath, "./medgemma-mmproj.gguf"),
		contextSize:     config.GetIntOrDefault(ConfigKeyContextSize, 4096),
		gpuLayerCount:   config.GetIntOrDefault(ConfigKeyGPULayerCount, 40),
		cpuThreadCount:  config.GetIntOrDefault(ConfigKeyCPUThreadCount, 6),
		responseTimeout: config.GetDurationOrDefault(ConfigKeyResponseTimeout, 2*time.Minute),
	}
}

func (m *model) GenerateFromImageAndText(imagePath, prompt, systemPrompt string, options domain.GenerateOptions) (string, error) {
	// Only 1 request can be processed at a time because we run on commodity hardware which usually can't
	// process two requests simultaneously due to low amounts of VRAM.
	m.mutex.Lock()
	defer m.mutex.Unlock()
	args := m.buildArgs(options)
	args = append(args, "--mmproj", m.projectorPath, "--image", imagePath)
	return m.runInference(args, prompt, systemPrompt)
}

func (m *model) GenerateFromText(prompt, systemPrompt string, options domain.GenerateOptions) (string, error) {
	// See the comment in GenerateFromImageAndText(..)
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.runInference(m.buildArgs(options), prompt, systemPrompt)
}

func (m *model) buildArgs(options domain.GenerateOptions) []string {
	return []string{
		"-m", m.modelPath,
		"-t", strconv.Itoa(m.cpuThreadCount),
		"-ngl", strconv.Itoa(m.gpuLayerCount),
		"-c", strconv.Itoa(m.contextSize),
		"-n", strconv.Itoa(options.MaxNewTokens),
		"--temp", strconv.FormatFloat(options.Temperature, 'f', -1, 64),
	}
}

func (m *model) runInference(args []string, prompt, systemPrompt string) (string, error) {
	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = systemPrompt + "\n\n" + prompt
	}
	args = append(args, "-p", fullPrompt)
	ctx, cancelFunc := context.WithTimeout(context.Background(), m.responseTimeout)
	defer cancelFunc()
	cmd := exec.CommandContext(ctx, m.binaryPath, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("medgemma inference: %w", err)
	}
	output := strings.TrimSpace(out.String())
	// The runner echoes the prompt before the completion, so we remove it from the response.
	if strings.HasPrefix(output, fullPrompt) {
		output = strings.TrimSpace(output[len(fullPrompt):])
	}
	if output == "" {
		return "", errEmptyModelOutput
	}
	return output, nil
}
