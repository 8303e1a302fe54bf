package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ziadkadry99/mdmanual/internal/enhance"
)

// candidateInputDirs are checked in order when guessing where the sources live.
var candidateInputDirs = []string{"docs", "doc", "manual", "content"}

// detectInputDir returns the first candidate directory that holds markdown files.
func detectInputDir() string {
	for _, dir := range candidateInputDirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.md"))
		if len(matches) > 0 {
			return dir
		}
	}
	return "docs"
}

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to mdmanual! Let's configure your manual.")
	fmt.Println()

	defaults := DefaultConfig()

	// 1. Manual title.
	titlePrompt := promptui.Prompt{
		Label:   "Manual title",
		Default: defaults.Title,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("title cannot be empty")
			}
			return nil
		},
	}
	title, err := titlePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	// 2. Author.
	authorPrompt := promptui.Prompt{
		Label: "Author (leave blank for none)",
	}
	author, err := authorPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("author: %w", err)
	}

	// 3. Source and output directories.
	inputPrompt := promptui.Prompt{
		Label:   "Directory containing markdown files",
		Default: detectInputDir(),
	}
	inputDir, err := inputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("input dir: %w", err)
	}

	outputPrompt := promptui.Prompt{
		Label:   "Output directory for the HTML manual",
		Default: defaults.OutputDir,
	}
	outputDir, err := outputPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("output dir: %w", err)
	}

	// 4. Navigation order.
	sortPrompt := promptui.Select{
		Label: "Order pages in the navigation by",
		Items: []string{
			"title   — alphabetical by page title",
			"natural — alphabetical, numbers compared by value",
			"weight  — front matter weight, then title",
		},
	}
	sortIdx, _, err := sortPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("sort order: %w", err)
	}
	orders := []SortOrder{SortTitle, SortNatural, SortWeight}

	// 5. Headings without ids.
	missingPrompt := promptui.Select{
		Label: "Headings without an id in the table of contents",
		Items: []string{
			"preserve — list them with an empty link",
			"skip     — leave them out",
		},
	}
	missingIdx, _, err := missingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("missing id policy: %w", err)
	}
	policies := []enhance.MissingIDPolicy{enhance.MissingIDPreserve, enhance.MissingIDSkip}

	// 6. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label: "Extra exclude patterns (comma-separated, leave blank for defaults)",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}

	cfg := DefaultConfig()
	if extra := SplitAndTrim(excludeStr); len(extra) > 0 {
		cfg.Exclude = append(append([]string{}, DefaultExcludes...), extra...)
	}
	cfg.Title = strings.TrimSpace(title)
	cfg.Author = strings.TrimSpace(author)
	cfg.InputDir = inputDir
	cfg.OutputDir = outputDir
	cfg.Sort = orders[sortIdx]
	cfg.TOC.MissingIDs = policies[missingIdx]

	if _, err := os.Stat(cfg.InputDir); os.IsNotExist(err) {
		fmt.Printf("\nNote: %s does not exist yet. Create it and add .md files before running mdmanual build.\n", cfg.InputDir)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

// SplitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func SplitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
