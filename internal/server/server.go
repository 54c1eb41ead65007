// Package server exposes the prompt library and composer over HTTP for
// integrations (shortcuts, scripts, browser frontends). It is a thin layer:
// every endpoint maps directly onto a store operation or a service call.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"promptforge/internal/composer"
	apperrors "promptforge/internal/errors"
	"promptforge/internal/models"
	"promptforge/internal/service"
	"promptforge/internal/validation"
)

// Server provides the HTTP API.
type Server struct {
	service *service.Service
	port    int
}

// NewServer creates a server around the given service.
func NewServer(svc *service.Service, port int) *Server {
	return &Server{service: svc, port: port}
}

// Handler builds the request router. Exposed separately from Start so tests
// can drive it through httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.route)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("API server starting on http://localhost%s", addr)
	log.Printf("Endpoints:")
	log.Printf("  /prompts - list/create prompts")
	log.Printf("  /prompts/{id} - get/update/delete, /duplicate, /favorite")
	log.Printf("  /collections - list/create collections")
	log.Printf("  /filters - get/update active filters")
	log.Printf("  /generate - compose a prompt")
	log.Printf("  /templates - starter templates")
	log.Printf("  /analyze - describe an image")
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"status":  "ok",
		"service": "promptforge",
	})
}

// route dispatches requests by the first path segment.
func (s *Server) route(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if r.Method == http.MethodOptions {
		return
	}

	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		s.writeError(w, apperrors.NotFoundError("endpoint", r.URL.Path))
		return
	}

	switch parts[0] {
	case "prompts":
		s.handlePrompts(w, r, parts[1:])
	case "collections":
		s.handleCollections(w, r, parts[1:])
	case "filters":
		s.handleFilters(w, r)
	case "generate":
		s.handleGenerate(w, r)
	case "templates":
		s.handleTemplates(w, r)
	case "analyze":
		s.handleAnalyze(w, r)
	default:
		s.writeError(w, apperrors.NotFoundError("endpoint", parts[0]))
	}
}

func (s *Server) handlePrompts(w http.ResponseWriter, r *http.Request, rest []string) {
	st := s.service.Store()

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Query().Get("filtered") == "true" {
				s.writeJSON(w, nonNilPrompts(s.service.FilteredPrompts()))
			} else {
				s.writeJSON(w, st.Prompts())
			}
		case http.MethodPost:
			var draft models.PromptDraft
			if err := s.readJSON(r, &draft); err != nil {
				s.writeError(w, err)
				return
			}
			if err := validation.ValidatePromptDraft(draft); err != nil {
				s.writeError(w, err)
				return
			}
			s.writeJSON(w, st.AddPrompt(draft))
		default:
			s.writeError(w, apperrors.ValidationError("method not allowed"))
		}
		return
	}

	id := rest[0]
	if len(rest) > 1 {
		switch rest[1] {
		case "duplicate":
			dup, ok := st.DuplicatePrompt(id)
			if !ok {
				s.writeError(w, apperrors.NotFoundError("prompt", id))
				return
			}
			s.writeJSON(w, dup)
		case "favorite":
			if _, ok := st.Prompt(id); !ok {
				s.writeError(w, apperrors.NotFoundError("prompt", id))
				return
			}
			st.ToggleFavorite(id)
			p, _ := st.Prompt(id)
			s.writeJSON(w, p)
		default:
			s.writeError(w, apperrors.NotFoundError("endpoint", rest[1]))
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		p, ok := st.Prompt(id)
		if !ok {
			s.writeError(w, apperrors.NotFoundError("prompt", id))
			return
		}
		s.writeJSON(w, p)
	case http.MethodPut:
		if _, ok := st.Prompt(id); !ok {
			s.writeError(w, apperrors.NotFoundError("prompt", id))
			return
		}
		var patch models.PromptUpdate
		if err := s.readJSON(r, &patch); err != nil {
			s.writeError(w, err)
			return
		}
		st.UpdatePrompt(id, patch)
		p, _ := st.Prompt(id)
		s.writeJSON(w, p)
	case http.MethodDelete:
		st.DeletePrompt(id)
		s.writeJSON(w, map[string]string{"deleted": id})
	default:
		s.writeError(w, apperrors.ValidationError("method not allowed"))
	}
}

func (s *Server) handleCollections(w http.ResponseWriter, r *http.Request, rest []string) {
	st := s.service.Store()

	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			s.writeJSON(w, st.Collections())
		case http.MethodPost:
			var draft models.CollectionDraft
			if err := s.readJSON(r, &draft); err != nil {
				s.writeError(w, err)
				return
			}
			if err := validation.ValidateCollectionDraft(draft); err != nil {
				s.writeError(w, err)
				return
			}
			s.writeJSON(w, st.AddCollection(draft))
		default:
			s.writeError(w, apperrors.ValidationError("method not allowed"))
		}
		return
	}

	id := rest[0]
	switch r.Method {
	case http.MethodPut:
		if _, ok := st.Collection(id); !ok {
			s.writeError(w, apperrors.NotFoundError("collection", id))
			return
		}
		var patch models.CollectionUpdate
		if err := s.readJSON(r, &patch); err != nil {
			s.writeError(w, err)
			return
		}
		st.UpdateCollection(id, patch)
		c, _ := st.Collection(id)
		s.writeJSON(w, c)
	case http.MethodDelete:
		st.DeleteCollection(id)
		s.writeJSON(w, map[string]string{"deleted": id})
	default:
		s.writeError(w, apperrors.ValidationError("method not allowed"))
	}
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	st := s.service.Store()
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, st.Filters())
	case http.MethodPut:
		var patch models.FilterUpdate
		if err := s.readJSON(r, &patch); err != nil {
			s.writeError(w, err)
			return
		}
		st.SetFilters(patch)
		s.writeJSON(w, st.Filters())
	default:
		s.writeError(w, apperrors.ValidationError("method not allowed"))
	}
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, apperrors.ValidationError("method not allowed"))
		return
	}
	var cfg composer.Config
	if err := s.readJSON(r, &cfg); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"prompt": s.service.Generate(cfg)})
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, apperrors.ValidationError("method not allowed"))
		return
	}
	s.writeJSON(w, s.service.Templates())
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, apperrors.ValidationError("method not allowed"))
		return
	}
	var req struct {
		ImageBase64 string `json:"imageBase64"`
		Language    string `json:"language"`
	}
	if err := s.readJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validation.ValidateLanguageCode(req.Language); err != nil {
		s.writeError(w, err)
		return
	}
	description, err := s.service.AnalyzeImage(r.Context(), req.ImageBase64, req.Language)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"description": description})
}

func (s *Server) readJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.ValidationError(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	apperrors.WriteHTTPError(w, err)
}

// nonNilPrompts keeps the JSON list shape stable when filtering yields
// nothing.
func nonNilPrompts(prompts []models.Prompt) []models.Prompt {
	if prompts == nil {
		return []models.Prompt{}
	}
	return prompts
}
