package prompts

import (
	"fmt"
	"strings"
	"sync"
	"text/template"
)

type ErrorPromptNotFound struct{ Name string }

func (e ErrorPromptNotFound) Error() string { return fmt.Sprintf("prompt not found: %s", e.Name) }

/*
Manager is an in-memory prompt registry. It is seeded with the pipeline's
prompts and lets callers override any of them, for instance from config.
Templates are parsed once on Set.
*/
type Manager struct {
	mu        sync.RWMutex
	prompts   map[string]Prompt
	templates map[string]*template.Template
}

func NewManager() *Manager {
	m := &Manager{
		prompts:   make(map[string]Prompt),
		templates: make(map[string]*template.Template),
	}

	for _, prompt := range defaults {
		if err := m.Set(prompt); err != nil {
			panic(err)
		}
	}

	return m
}

var (
	defaultOnce    sync.Once
	defaultManager *Manager
)

/*
Default returns the shared registry.
*/
func Default() *Manager {
	defaultOnce.Do(func() {
		defaultManager = NewManager()
	})

	return defaultManager
}

func (m *Manager) Set(prompt Prompt) error {
	tmpl, err := template.New(prompt.Name).Option("missingkey=error").Parse(prompt.Content)

	if err != nil {
		return fmt.Errorf("invalid prompt %s: %w", prompt.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts[prompt.Name] = prompt
	m.templates[prompt.Name] = tmpl

	return nil
}

func (m *Manager) Get(name string) (Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prompt, ok := m.prompts[name]

	if !ok {
		return Prompt{}, ErrorPromptNotFound{Name: name}
	}

	return prompt, nil
}

/*
Render executes the named prompt with data.
*/
func (m *Manager) Render(name string, data any) (string, error) {
	m.mu.RLock()
	tmpl, ok := m.templates[name]
	m.mu.RUnlock()

	if !ok {
		return "", ErrorPromptNotFound{Name: name}
	}

	var sb strings.Builder

	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s: %w", name, err)
	}

	return sb.String(), nil
}
