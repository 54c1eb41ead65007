// Package composer renders a structured instruction block from a small
// configuration: a free-text idea plus task type, tone and length options.
// Generation is a pure table-lookup-and-concatenate; unknown option keys
// degrade to defaults rather than failing.
package composer

import (
	"strings"
)

// Config is the input to Generate.
type Config struct {
	Input    string `json:"input"`
	TaskType string `json:"taskType"`
	Tone     string `json:"tone"`
	Length   string `json:"length"`
}

// Default keys used when an option value is not recognized.
const (
	DefaultTaskType = "content"
	DefaultTone     = "Professional"
	DefaultLength   = "Balanced"
)

var taskPrefixes = map[string]string{
	"content":   "You are an expert content writer. Create engaging, well-structured content that captivates readers.",
	"code":      "You are a senior software engineer with expertise in clean code and best practices.",
	"marketing": "You are a creative marketing strategist with expertise in compelling copywriting and brand messaging.",
	"research":  "You are a meticulous research analyst skilled at synthesizing complex information into clear insights.",
	"ideas":     "You are a creative thinking expert who generates innovative, actionable ideas.",
	"chat":      "You are a helpful, knowledgeable assistant focused on providing clear, conversational responses.",
}

var toneModifiers = map[string]string{
	"Professional": "Maintain a professional, authoritative tone suitable for business contexts.",
	"Casual":       "Use a friendly, approachable tone that feels natural and conversational.",
	"Creative":     "Embrace creativity and originality, using vivid language and unique perspectives.",
	"Technical":    "Be precise and technical, using appropriate terminology and detailed explanations.",
}

var lengthGuidelines = map[string]string{
	"Concise":  "Keep the response brief and to the point, focusing on essential information only.",
	"Balanced": "Provide a well-balanced response with adequate detail without being excessive.",
	"Detailed": "Deliver a comprehensive, in-depth response covering all relevant aspects thoroughly.",
}

const guidelines = `## Guidelines
- Focus on delivering high-quality, relevant output
- Structure your response clearly with appropriate formatting
- Ensure accuracy and attention to detail
- Tailor the content to the intended audience
- Include actionable insights or practical applications where relevant`

const outputRequirements = `## Output Requirements
Provide a well-organized response that directly addresses the task while maintaining the specified tone and length parameters.`

// Generate renders the instruction block for cfg. A blank input (after
// trimming) yields the empty string; this is the only short circuit.
func Generate(cfg Config) string {
	input := strings.TrimSpace(cfg.Input)
	if input == "" {
		return ""
	}

	prefix, ok := taskPrefixes[cfg.TaskType]
	if !ok {
		prefix = taskPrefixes[DefaultTaskType]
	}
	tone, ok := toneModifiers[cfg.Tone]
	if !ok {
		tone = toneModifiers[DefaultTone]
	}
	length, ok := lengthGuidelines[cfg.Length]
	if !ok {
		length = lengthGuidelines[DefaultLength]
	}

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("\n\n")
	b.WriteString(tone)
	b.WriteString(" ")
	b.WriteString(length)
	b.WriteString("\n\n## Task\n")
	b.WriteString(input)
	b.WriteString("\n\n")
	b.WriteString(guidelines)
	b.WriteString("\n\n")
	b.WriteString(outputRequirements)
	return b.String()
}

// TaskTypes returns the recognized task type keys in display order.
func TaskTypes() []string {
	return []string{"content", "code", "marketing", "research", "ideas", "chat"}
}

// Tones returns the recognized tone keys in display order.
func Tones() []string {
	return []string{"Professional", "Casual", "Creative", "Technical"}
}

// Lengths returns the recognized length keys in display order.
func Lengths() []string {
	return []string{"Concise", "Balanced", "Detailed"}
}
