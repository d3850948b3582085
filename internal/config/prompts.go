package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/edgard/plankabot/prompts"
)

// Prompts are the system instructions for the three LLM commands.
type Prompts struct {
	Story   string
	Judge   string
	Explain string
}

// LoadPrompts reads each prompt from its override file, falling back to the embedded default.
func LoadPrompts(files PromptFiles) (Prompts, error) {
	story, err := loadPrompt(files.Story, prompts.StoryFile)
	if err != nil {
		return Prompts{}, err
	}
	judge, err := loadPrompt(files.Judge, prompts.JudgeFile)
	if err != nil {
		return Prompts{}, err
	}
	explain, err := loadPrompt(files.Explain, prompts.ExplainFile)
	if err != nil {
		return Prompts{}, err
	}
	return Prompts{Story: story, Judge: judge, Explain: explain}, nil
}

func loadPrompt(overridePath, embedded string) (string, error) {
	var (
		data []byte
		err  error
	)
	if overridePath != "" {
		data, err = os.ReadFile(overridePath)
	} else {
		data, err = prompts.FS.ReadFile(embedded)
	}
	if err != nil {
		return "", fmt.Errorf("%w: failed to read prompt %q: %v", ErrConfiguration, embedded, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%w: prompt %q is empty", ErrConfiguration, embedded)
	}
	return text, nil
}
