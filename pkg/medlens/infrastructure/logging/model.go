package logging

import (
	"fmt"
	"time"

	"medlens/pkg/common"
	"medlens/pkg/medlens/domain"
)

type modelDecorator struct {
	wrappedModel domain.Model
	logger       common.Logger
}

// NewModelDecorator logs every raw prompt and raw response going through the model, together with the
// inference latency. The raw responses are the audit trail for debugging parsing issues.
func NewModelDecorator(wrappedModel domain.Model, logger common.Logger) domain.Model {
	return &modelDecorator{
		wrappedModel: wrappedModel,
		logger:       logger,
	}
}

func (m *modelDecorator) GenerateFromImageAndText(imagePath, prompt, systemPrompt string, options domain.GenerateOptions) (string, error) {
	m.logger.Log(fmt.Sprintf("\n================\n raw prompt (image: '%s'):\n%s\n================\n\n", imagePath, prompt))
	t := time.Now()
	response, err := m.wrappedModel.GenerateFromImageAndText(imagePath, prompt, systemPrompt, options)
	if err != nil {
		return "", err
	}
	m.logger.Log(fmt.Sprintf("\n================\n raw response:\n%s\n (took %d ms)\n================\n", response, time.Since(t).Milliseconds()))
	return response, nil
}

func (m *modelDecorator) GenerateFromText(prompt, systemPrompt string, options domain.GenerateOptions) (string, error) {
	m.logger.Log(fmt.Sprintf("\n================\n raw prompt:\n%s\n================\n\n", prompt))
	t := time.Now()
	response, err := m.wrappedModel.GenerateFromText(prompt, systemPrompt, options)
	if err != nil {
		return "", err
	}
	m.logger.Log(fmt.Sprintf("\n================\n raw response:\n%s\n (took %d ms)\n================\n", response, time.Since(t).Milliseconds()))
	return response, nil
}
