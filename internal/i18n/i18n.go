// internal/i18n/i18n.go
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed locales/*.json
var bundled embed.FS

type I18n struct {
	mu           sync.RWMutex
	translations map[string]map[string]string
	defaultLang  string
}

var (
	instance *I18n
	once     sync.Once
)

func get() *I18n {
	once.Do(func() {
		instance = &I18n{
			translations: make(map[string]map[string]string),
			defaultLang:  "en",
		}
		// Bundled locales always load; a broken build should fail loudly in tests.
		if err := instance.loadFS(bundled, "locales"); err != nil {
			panic(err)
		}
	})
	return instance
}

// Initialize loads the bundled locales and overlays any *.json files found
// in localesPath. A missing directory is not an error.
func Initialize(localesPath string) error {
	i := get()
	if localesPath == "" {
		return nil
	}
	if _, err := os.Stat(localesPath); os.IsNotExist(err) {
		return nil
	}
	return i.loadFS(os.DirFS(localesPath), ".")
}

func (i *I18n) loadFS(fsys fs.FS, dir string) error {
	files, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.json")))
	if err != nil {
		return err
	}

	for _, file := range files {
		lang := strings.TrimSuffix(filepath.Base(file), ".json")

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to unmarshal locale file %s: %w", file, err)
		}

		i.mu.Lock()
		if existing, ok := i.translations[lang]; ok {
			for k, v := range translations {
				existing[k] = v
			}
		} else {
			i.translations[lang] = translations
		}
		i.mu.Unlock()
	}

	return nil
}

func (i *I18n) lookup(lang, key string) (string, bool) {
	if translations, exists := i.translations[lang]; exists {
		if text, exists := translations[key]; exists {
			return text, true
		}
	}
	return "", false
}

func (i *I18n) T(lang, key string, args ...interface{}) string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	text, ok := i.lookup(lang, key)
	if !ok && lang != i.defaultLang {
		text, ok = i.lookup(i.defaultLang, key)
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(text, args...)
	}
	return text
}

// Global functions
func T(lang, key string, args ...interface{}) string {
	return get().T(lang, key, args...)
}

func IsSupported(lang string) bool {
	i := get()
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.translations[lang]
	return ok
}

func GetSupportedLanguages() []string {
	i := get()
	i.mu.RLock()
	defer i.mu.RUnlock()

	langs := make([]string, 0, len(i.translations))
	for lang := range i.translations {
		langs = append(langs, lang)
	}
	return langs
}
