package lang

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bethropolis/modstudio/internal/logger"
)

var (
	registry struct {
		sync.RWMutex
		languages     []*Language
		byName        map[string]*Language
		extToLanguage map[string]*Language
	}

	initOnce sync.Once
)

// Initialize ensures the registry is ready for use
func Initialize() {
	initOnce.Do(func() {
		registry.Lock()
		registry.byName = make(map[string]*Language)
		registry.extToLanguage = make(map[string]*Language)
		registry.languages = make([]*Language, 0)
		registry.Unlock()
		logger.DebugTagf("lang", "Language registry initialized")
	})
}

// Register adds a language to the registry. Re-registering a name replaces it.
func Register(l *Language) {
	Initialize()

	registry.Lock()
	defer registry.Unlock()

	if existing, ok := registry.byName[l.Name]; ok {
		for i, candidate := range registry.languages {
			if candidate == existing {
				registry.languages = append(registry.languages[:i], registry.languages[i+1:]...)
				break
			}
		}
	}
	registry.languages = append(registry.languages, l)

	registry.byName[l.Name] = l
	for _, alias := range l.Aliases {
		registry.byName[strings.ToLower(alias)] = l
	}
	for _, ext := range l.Extensions {
		lowerExt := strings.ToLower(ext)
		if existing, ok := registry.extToLanguage[lowerExt]; ok && existing.Name != l.Name {
			logger.WarnTagf("lang", "Extension %s already registered to %s, overriding with %s",
				lowerExt, existing.Name, l.Name)
		}
		registry.extToLanguage[lowerExt] = l
	}

	logger.DebugTagf("lang", "Registered language: %s with extensions: %v", l.Name, l.Extensions)
}

// Get looks a language up by name or alias.
func Get(name string) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()
	return registry.byName[strings.ToLower(strings.TrimSpace(name))]
}

// GetForFile returns the language for a given file path
func GetForFile(filePath string) *Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	ext := strings.ToLower(filepath.Ext(filePath))
	return registry.extToLanguage[ext]
}

// GetAll returns all registered languages sorted by name.
func GetAll() []*Language {
	Initialize()

	registry.RLock()
	defer registry.RUnlock()

	result := make([]*Language, len(registry.languages))
	copy(result, registry.languages)
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
