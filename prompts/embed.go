// Package prompts embeds the default system instructions for the LLM commands.
package prompts

import "embed"

// FS holds the embedded prompt files.
//
//go:embed *.txt
var FS embed.FS

// Embedded prompt file names.
const (
	StoryFile   = "story.txt"
	JudgeFile   = "judge.txt"
	ExplainFile = "explain.txt"
)
