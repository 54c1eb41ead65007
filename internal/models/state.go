package models

// State is the persisted subset of the store: exactly prompts, collections
// and filters. The selected prompt and the initialized flag are
// session-local and never serialized.
type State struct {
	Prompts     []Prompt     `json:"prompts"`
	Collections []Collection `json:"collections"`
	Filters     Filters      `json:"filters"`
}

// Normalize replaces nil slices with empty ones so the serialized form is
// stable regardless of how the state was produced.
func (s *State) Normalize() {
	if s.Prompts == nil {
		s.Prompts = []Prompt{}
	}
	if s.Collections == nil {
		s.Collections = []Collection{}
	}
	if s.Filters.Tags == nil {
		s.Filters.Tags = []string{}
	}
	for i := range s.Prompts {
		if s.Prompts[i].Tags == nil {
			s.Prompts[i].Tags = []string{}
		}
	}
}
