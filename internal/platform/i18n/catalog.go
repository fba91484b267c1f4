// Package i18n provides locale-keyed message catalogs and Accept-Language
// resolution.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/language"
)

// Bundle names shipped with the service.
const (
	// BundleMessages holds application messages (unknown.error, account.notfound).
	BundleMessages = "messages"

	// BundleValidation holds constraint messages keyed by template token.
	BundleValidation = "validation"
)

// DefaultLocale is used when a request carries no usable locale.
var DefaultLocale = language.AmericanEnglish

//go:embed messages/*.yaml
var embedded embed.FS

// Bundles returns the catalog files compiled into the binary.
func Bundles() fs.FS {
	sub, err := fs.Sub(embedded, "messages")
	if err != nil {
		panic(err) // the embed directive guarantees the directory exists
	}

	return sub
}

// Catalog is a read-only mapping of (key, locale) to text for one bundle.
// Files are named <bundle>_<lang>.yaml, one per locale.
type Catalog struct {
	name     string
	fallback language.Tag
	locales  map[language.Tag]*koanf.Koanf
	tags     []language.Tag
}

// Load reads every <name>_*.yaml file from fsys into a catalog.
// fallback is consulted when neither the requested locale nor its base
// language defines a key.
func Load(fsys fs.FS, name string, fallback language.Tag) (*Catalog, error) {
	files, err := fs.Glob(fsys, name+"_*.yaml")
	if err != nil {
		return nil, fmt.Errorf("listing %s bundle: %w", name, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files for bundle %q", name)
	}

	c := &Catalog{
		name:     name,
		fallback: fallback,
		locales:  make(map[language.Tag]*koanf.Koanf, len(files)),
	}

	for _, file := range files {
		suffix := strings.TrimSuffix(strings.TrimPrefix(path.Base(file), name+"_"), ".yaml")

		tag, err := language.Parse(suffix)
		if err != nil {
			return nil, fmt.Errorf("bundle file %q: %w", file, err)
		}

		k, err := loadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", file, err)
		}

		c.locales[tag] = k
		c.tags = append(c.tags, tag)
	}

	return c, nil
}

// MustLoad is Load for the embedded bundles; it panics on error.
func MustLoad(name string, fallback language.Tag) *Catalog {
	c, err := Load(Bundles(), name, fallback)
	if err != nil {
		panic(err)
	}

	return c
}

func loadFile(fsys fs.FS, file string) (*koanf.Koanf, error) {
	raw, err := fs.ReadFile(fsys, file)
	if err != nil {
		return nil, err
	}

	values, err := yaml.Parser().Unmarshal(raw)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		return nil, err
	}

	return k, nil
}

// Message resolves key for tag. The lookup order is the exact locale, its
// base language, the fallback locale and the fallback's base language.
// An unknown key resolves to itself.
func (c *Catalog) Message(key string, tag language.Tag) string {
	for _, candidate := range c.candidates(tag) {
		k, ok := c.locales[candidate]
		if ok && k.Exists(key) {
			return k.String(key)
		}
	}

	return key
}

// Locales returns the locales the catalog has files for.
func (c *Catalog) Locales() []language.Tag {
	out := make([]language.Tag, len(c.tags))
	copy(out, c.tags)

	return out
}

// Name returns the bundle name.
func (c *Catalog) Name() string {
	return c.name
}

func (c *Catalog) candidates(tag language.Tag) []language.Tag {
	out := make([]language.Tag, 0, 4)

	if tag != language.Und {
		out = append(out, tag, baseOf(tag))
	}

	return append(out, c.fallback, baseOf(c.fallback))
}

// baseOf returns the bare language of tag, e.g. es for es-MX.
func baseOf(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	return language.Make(base.String())
}
