package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rickgao/bazaarsetu/internal/model"
)

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds inline UI messages for every supported language.
type Catalog struct {
	messages map[model.Language]map[string]string
}

//go:embed locales/*.yaml
var embeddedLocales embed.FS

var defaultCatalog = mustLoadEmbedded()

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadCatalog(embeddedLocales)
	if err != nil {
		panic(fmt.Sprintf("load embedded locales: %v", err))
	}
	return c
}

// LoadCatalog reads locales/<lang>.yaml files from fsys.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}
	sort.Strings(paths)

	c := &Catalog{messages: make(map[model.Language]map[string]string)}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", path, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", path, err)
		}

		fromPath := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if file.Locale != fromPath {
			return nil, fmt.Errorf("locale %s: locale %q must match file name %q", path, file.Locale, fromPath)
		}
		lang := ParseLanguage(file.Locale)
		if string(lang) != file.Locale {
			return nil, fmt.Errorf("locale %s: unsupported language %q", path, file.Locale)
		}
		c.messages[lang] = file.Messages
	}

	if _, ok := c.messages[model.English]; !ok {
		return nil, fmt.Errorf("default locale %s is not defined", model.English)
	}
	return c, nil
}

// Lookup returns the message for key in lang, falling back to English and then to key.
func (c *Catalog) Lookup(lang model.Language, key string) string {
	if msg := strings.TrimSpace(c.messages[lang][key]); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(c.messages[model.English][key]); msg != "" {
		return msg
	}
	return key
}
