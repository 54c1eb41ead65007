package models

// Template is a starter recipe that pre-fills the composer with a default
// input and task type. Templates are built in, not user-editable.
type Template struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	Example      string `json:"example"`
	DefaultInput string `json:"defaultInput"`
	TaskType     string `json:"taskType"`
}
