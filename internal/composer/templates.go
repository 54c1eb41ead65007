package composer

import "promptforge/internal/models"

// builtinTemplates are the starter recipes offered by the UI. They pre-fill
// the composer input and task type; they carry no rendering logic.
var builtinTemplates = []models.Template{
	{
		ID:           "blog-post",
		Title:        "Blog Post",
		Description:  "Generate engaging blog content with SEO optimization",
		Icon:         "FileText",
		Example:      "Write about sustainable living tips",
		DefaultInput: "Write an engaging blog post about",
		TaskType:     "content",
	},
	{
		ID:           "code-review",
		Title:        "Code Review",
		Description:  "Get detailed code analysis and improvement suggestions",
		Icon:         "Code",
		Example:      "Review my React component for performance",
		DefaultInput: "Review and improve this code:",
		TaskType:     "code",
	},
	{
		ID:           "ad-copy",
		Title:        "Ad Copy",
		Description:  "Create compelling advertising copy that converts",
		Icon:         "Megaphone",
		Example:      "Create a Facebook ad for my SaaS product",
		DefaultInput: "Create compelling ad copy for",
		TaskType:     "marketing",
	},
	{
		ID:           "summary",
		Title:        "Research Summary",
		Description:  "Synthesize complex topics into clear summaries",
		Icon:         "Search",
		Example:      "Summarize recent AI developments",
		DefaultInput: "Provide a comprehensive summary of",
		TaskType:     "research",
	},
}

// Templates returns the built-in starter templates.
func Templates() []models.Template {
	out := make([]models.Template, len(builtinTemplates))
	copy(out, builtinTemplates)
	return out
}

// Template returns the starter template with the given ID.
func Template(id string) (models.Template, bool) {
	for _, t := range builtinTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return models.Template{}, false
}
