package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/clauseguard/internal/core/domain"
	"github.com/custodia-labs/clauseguard/internal/core/ports/driven"
)

// TemplatesFileName is the user template file in the config directory.
const TemplatesFileName = "templates.toml"

// Ensure TemplateStore implements the interface.
var _ driven.TemplateStore = (*TemplateStore)(nil)

// TemplateStore serves the built-in clause templates plus user templates
// read from templates.toml.
//
// The store uses lazy initialisation: the example file is written on the
// first List call, not in the constructor.
type TemplateStore struct {
	mu       sync.RWMutex
	filePath string
	cache    []domain.ClauseTemplate
	loaded   bool
	initOnce sync.Once
}

type templatesFile struct {
	Templates []templateEntry `toml:"templates"`
}

type templateEntry struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Text        string `toml:"text"`
}

// NewTemplateStore creates a template store.
// If configDir is empty, defaults to ~/.clauseguard/templates.toml.
func NewTemplateStore(configDir string) (*TemplateStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = dir
	}
	return &TemplateStore{filePath: filepath.Join(configDir, TemplatesFileName)}, nil
}

// Path returns the user template file path.
func (s *TemplateStore) Path() string {
	return s.filePath
}

// List returns the built-in templates followed by valid user templates.
func (s *TemplateStore) List() ([]domain.ClauseTemplate, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	if s.loaded {
		out := append([]domain.ClauseTemplate(nil), s.cache...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	user, err := s.loadFromFile()
	if err != nil {
		return nil, err
	}

	all := append(domain.DefaultTemplates(), user...)

	s.mu.Lock()
	s.cache = all
	s.loaded = true
	s.mu.Unlock()

	return append([]domain.ClauseTemplate(nil), all...), nil
}

// Reload clears the cache, forcing a fresh read from disk.
func (s *TemplateStore) Reload() {
	s.mu.Lock()
	s.cache = nil
	s.loaded = false
	s.mu.Unlock()
}

func (s *TemplateStore) loadFromFile() ([]domain.ClauseTemplate, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read templates: %w", err)
	}

	var f templatesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, s.filePath, err)
	}

	out := make([]domain.ClauseTemplate, 0, len(f.Templates))
	for _, t := range f.Templates {
		if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, domain.ClauseTemplate{
			Title:       strings.TrimSpace(t.Title),
			Description: strings.TrimSpace(t.Description),
			Text:        strings.TrimSpace(t.Text),
		})
	}
	return out, nil
}

// initialise writes a commented example file if none exists.
// Failures are ignored; the built-ins remain available.
func (s *TemplateStore) initialise() {
	if _, err := os.Stat(s.filePath); !os.IsNotExist(err) {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0700); err != nil {
		return
	}
	_ = os.WriteFile(s.filePath, []byte(templatesExample), 0600)
}

const templatesExample = `# clauseguard clause templates
#
# Templates listed here are shown after the built-in ones by
# "clauseguard templates list" and are matched against clauses when an
# embedding provider is configured.
#
# [[templates]]
# title = "Payment Terms (Net 30)"
# description = "Fixed payment window with late fee cap."
# text = "The Client shall pay each undisputed invoice within thirty days of receipt."
`
