// Package cli provides the headless command-line interface. Commands read
// and mutate the store through the service and print either human-readable
// text or JSON.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"promptforge/internal/composer"
	apperrors "promptforge/internal/errors"
	"promptforge/internal/models"
	"promptforge/internal/service"
	"promptforge/internal/validation"
	"promptforge/internal/vision"
)

// CLI executes one-shot commands against the prompt library.
type CLI struct {
	service      *service.Service
	errorHandler *apperrors.CLIErrorHandler
}

// NewCLI creates a new CLI instance.
func NewCLI(svc *service.Service) *CLI {
	return &CLI{
		service:      svc,
		errorHandler: apperrors.NewCLIErrorHandler(os.Getenv("PROMPTFORGE_VERBOSE") != ""),
	}
}

// Run dispatches a command and its arguments.
func (c *CLI) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command given")
	}
	command := args[0]
	rest := args[1:]

	var err error
	switch command {
	case "list", "ls":
		err = c.listPrompts(rest)
	case "search":
		err = c.searchPrompts(rest)
	case "get", "show":
		err = c.getPrompt(rest)
	case "add", "new":
		err = c.addPrompt(rest)
	case "edit":
		err = c.editPrompt(rest)
	case "delete", "rm":
		err = c.deletePrompt(rest)
	case "duplicate", "dup":
		err = c.duplicatePrompt(rest)
	case "favorite", "fav":
		err = c.toggleFavorite(rest)
	case "collections", "collection":
		err = c.collections(rest)
	case "filters", "filter":
		err = c.filters(rest)
	case "tags":
		err = c.listTags()
	case "generate", "gen":
		err = c.generate(rest)
	case "templates":
		err = c.listTemplates(rest)
	case "analyze":
		err = c.analyzeImage(rest)
	default:
		err = fmt.Errorf("unknown command: %s (try 'promptforge --help')", command)
	}
	if err != nil {
		return c.errorHandler.HandleError(err)
	}
	return nil
}

// parseArgs splits args into positionals and --flag values. A flag followed
// by another flag (or nothing) is treated as boolean.
func parseArgs(args []string) ([]string, map[string]string) {
	var positional []string
	flags := make(map[string]string)
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			positional = append(positional, arg)
			continue
		}
		name := strings.TrimPrefix(arg, "--")
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "--") {
			flags[name] = args[i+1]
			i++
		} else {
			flags[name] = "true"
		}
	}
	return positional, flags
}

func splitTags(value string) []string {
	if value == "" {
		return []string{}
	}
	var tags []string
	for _, t := range strings.Split(value, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (c *CLI) listPrompts(args []string) error {
	_, flags := parseArgs(args)
	var prompts []models.Prompt
	if flags["filtered"] == "true" {
		prompts = c.service.FilteredPrompts()
	} else {
		prompts = c.service.Store().Prompts()
	}
	if flags["format"] == "json" {
		return printJSON(prompts)
	}
	if len(prompts) == 0 {
		fmt.Println("No prompts found.")
		return nil
	}
	for _, p := range prompts {
		c.printPromptLine(p)
	}
	return nil
}

func (c *CLI) printPromptLine(p models.Prompt) {
	marker := " "
	if p.Favorite {
		marker = "*"
	}
	line := fmt.Sprintf("%s %s  %s", marker, p.ID, p.Title)
	if len(p.Tags) > 0 {
		line += fmt.Sprintf("  [%s]", strings.Join(p.Tags, ", "))
	}
	if p.CollectionID != "" {
		line += fmt.Sprintf("  (%s)", c.service.CollectionName(p.CollectionID))
	}
	fmt.Println(line)
}

func (c *CLI) searchPrompts(args []string) error {
	positional, flags := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("query")
	}
	query := strings.Join(positional, " ")
	st := c.service.Store()
	st.SetFilters(models.FilterUpdate{Search: &query})
	prompts := c.service.FilteredPrompts()
	if flags["format"] == "json" {
		return printJSON(prompts)
	}
	if len(prompts) == 0 {
		fmt.Printf("No prompts match %q.\n", query)
		return nil
	}
	for _, p := range prompts {
		c.printPromptLine(p)
	}
	return nil
}

func (c *CLI) getPrompt(args []string) error {
	positional, flags := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("id")
	}
	p, ok := c.service.Store().Prompt(positional[0])
	if !ok {
		return apperrors.NotFoundError("prompt", positional[0])
	}
	if flags["format"] == "json" {
		return printJSON(p)
	}
	fmt.Printf("ID:          %s\n", p.ID)
	fmt.Printf("Title:       %s\n", p.Title)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if len(p.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(p.Tags, ", "))
	}
	if p.CollectionID != "" {
		fmt.Printf("Collection:  %s\n", c.service.CollectionName(p.CollectionID))
	}
	if p.Model != "" {
		fmt.Printf("Model:       %s\n", p.Model)
	}
	fmt.Printf("Favorite:    %t\n", p.Favorite)
	fmt.Printf("Updated:     %s\n", p.UpdatedAt.Format(time.RFC3339))
	fmt.Printf("\n%s\n", p.Body)
	return nil
}

func (c *CLI) addPrompt(args []string) error {
	_, flags := parseArgs(args)
	draft := models.PromptDraft{
		Title:        flags["title"],
		Description:  flags["description"],
		Body:         flags["body"],
		Tags:         splitTags(flags["tags"]),
		CollectionID: flags["collection"],
		Model:        flags["model"],
		Language:     flags["language"],
	}
	if err := validation.ValidatePromptDraft(draft); err != nil {
		return err
	}
	p := c.service.Store().AddPrompt(draft)
	fmt.Printf("Created prompt %s: %s\n", p.ID, p.Title)
	return nil
}

func (c *CLI) editPrompt(args []string) error {
	positional, flags := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("id")
	}
	id := positional[0]
	st := c.service.Store()
	if _, ok := st.Prompt(id); !ok {
		return apperrors.NotFoundError("prompt", id)
	}

	var patch models.PromptUpdate
	if v, ok := flags["title"]; ok {
		patch.Title = &v
	}
	if v, ok := flags["description"]; ok {
		patch.Description = &v
	}
	if v, ok := flags["body"]; ok {
		patch.Body = &v
	}
	if v, ok := flags["tags"]; ok {
		tags := splitTags(v)
		patch.Tags = &tags
	}
	if v, ok := flags["collection"]; ok {
		patch.CollectionID = &v
	}
	if v, ok := flags["model"]; ok {
		patch.Model = &v
	}
	if v, ok := flags["language"]; ok {
		patch.Language = &v
	}
	st.UpdatePrompt(id, patch)
	fmt.Printf("Updated prompt %s\n", id)
	return nil
}

func (c *CLI) deletePrompt(args []string) error {
	positional, _ := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("id")
	}
	c.service.Store().DeletePrompt(positional[0])
	fmt.Printf("Deleted prompt %s\n", positional[0])
	return nil
}

func (c *CLI) duplicatePrompt(args []string) error {
	positional, _ := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("id")
	}
	dup, ok := c.service.Store().DuplicatePrompt(positional[0])
	if !ok {
		return apperrors.NotFoundError("prompt", positional[0])
	}
	fmt.Printf("Created copy %s: %s\n", dup.ID, dup.Title)
	return nil
}

func (c *CLI) toggleFavorite(args []string) error {
	positional, _ := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("id")
	}
	st := c.service.Store()
	id := positional[0]
	if _, ok := st.Prompt(id); !ok {
		return apperrors.NotFoundError("prompt", id)
	}
	st.ToggleFavorite(id)
	p, _ := st.Prompt(id)
	if p.Favorite {
		fmt.Printf("Marked %s as favorite\n", id)
	} else {
		fmt.Printf("Removed favorite from %s\n", id)
	}
	return nil
}

func (c *CLI) collections(args []string) error {
	positional, flags := parseArgs(args)
	st := c.service.Store()

	sub := "list"
	if len(positional) > 0 {
		sub = positional[0]
	}
	switch sub {
	case "list":
		collections := st.Collections()
		if flags["format"] == "json" {
			return printJSON(collections)
		}
		if len(collections) == 0 {
			fmt.Println("No collections.")
			return nil
		}
		for _, col := range collections {
			fmt.Printf("%s  %s\n", col.ID, col.Name)
		}
		return nil
	case "add":
		if len(positional) < 2 {
			return apperrors.MissingFieldError("name")
		}
		draft := models.CollectionDraft{Name: positional[1], Color: flags["color"]}
		if err := validation.ValidateCollectionDraft(draft); err != nil {
			return err
		}
		col := st.AddCollection(draft)
		fmt.Printf("Created collection %s: %s\n", col.ID, col.Name)
		return nil
	case "edit":
		if len(positional) < 2 {
			return apperrors.MissingFieldError("id")
		}
		id := positional[1]
		if _, ok := st.Collection(id); !ok {
			return apperrors.NotFoundError("collection", id)
		}
		var patch models.CollectionUpdate
		if v, ok := flags["name"]; ok {
			patch.Name = &v
		}
		if v, ok := flags["color"]; ok {
			patch.Color = &v
		}
		st.UpdateCollection(id, patch)
		fmt.Printf("Updated collection %s\n", id)
		return nil
	case "delete", "rm":
		if len(positional) < 2 {
			return apperrors.MissingFieldError("id")
		}
		st.DeleteCollection(positional[1])
		fmt.Printf("Deleted collection %s\n", positional[1])
		return nil
	default:
		return fmt.Errorf("unknown collections subcommand: %s", sub)
	}
}

func (c *CLI) filters(args []string) error {
	positional, flags := parseArgs(args)
	st := c.service.Store()

	sub := "show"
	if len(positional) > 0 {
		sub = positional[0]
	}
	switch sub {
	case "show":
		return printJSON(st.Filters())
	case "set":
		var patch models.FilterUpdate
		if v, ok := flags["search"]; ok {
			patch.Search = &v
		}
		if v, ok := flags["tags"]; ok {
			tags := splitTags(v)
			patch.Tags = &tags
		}
		if v, ok := flags["collection"]; ok {
			patch.CollectionID = &v
		}
		if v, ok := flags["favorites"]; ok {
			fav := v == "true"
			patch.FavoritesOnly = &fav
		}
		st.SetFilters(patch)
		return printJSON(st.Filters())
	case "clear":
		empty := ""
		noTags := []string{}
		noFav := false
		st.SetFilters(models.FilterUpdate{
			Search:        &empty,
			Tags:          &noTags,
			CollectionID:  &empty,
			FavoritesOnly: &noFav,
		})
		fmt.Println("Filters cleared.")
		return nil
	default:
		return fmt.Errorf("unknown filters subcommand: %s", sub)
	}
}

func (c *CLI) listTags() error {
	tags := c.service.AllTags()
	if len(tags) == 0 {
		fmt.Println("No tags.")
		return nil
	}
	for _, tag := range tags {
		fmt.Println(tag)
	}
	return nil
}

func (c *CLI) generate(args []string) error {
	positional, flags := parseArgs(args)
	input := flags["input"]
	if input == "" {
		input = strings.Join(positional, " ")
	}
	cfg := composer.Config{
		Input:    input,
		TaskType: flags["task"],
		Tone:     flags["tone"],
		Length:   flags["length"],
	}
	result := c.service.Generate(cfg)
	if result == "" {
		return apperrors.ValidationError("describe what you want to create")
	}
	if flags["save"] == "true" {
		title := flags["title"]
		if title == "" {
			title = firstLine(input)
		}
		p := c.service.Store().AddPrompt(models.PromptDraft{
			Title: title,
			Body:  result,
			Tags:  splitTags(flags["tags"]),
		})
		fmt.Fprintf(os.Stderr, "Saved as prompt %s\n", p.ID)
	}
	fmt.Println(result)
	return nil
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	if len(s) > 60 {
		s = s[:60]
	}
	return strings.TrimSpace(s)
}

func (c *CLI) listTemplates(args []string) error {
	_, flags := parseArgs(args)
	templates := c.service.Templates()
	if flags["format"] == "json" {
		return printJSON(templates)
	}
	for _, t := range templates {
		fmt.Printf("%-12s %s - %s\n", t.ID, t.Title, t.Description)
	}
	return nil
}

func (c *CLI) analyzeImage(args []string) error {
	positional, flags := parseArgs(args)
	if len(positional) == 0 {
		return apperrors.MissingFieldError("image file")
	}
	language := flags["language"]
	if err := validation.ValidateLanguageCode(language); err != nil {
		return err
	}
	imageData, err := vision.EncodeImageFile(positional[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	description, err := c.service.AnalyzeImage(ctx, imageData, language)
	if err != nil {
		return err
	}
	fmt.Println(description)
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
