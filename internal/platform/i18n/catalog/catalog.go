package catalog

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale. Every key must exist here.
const BaseLocale = "zh-CN"

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

type catalogFile struct {
	Locale    string
	Namespace string
	Messages  map[string]string
}

// Bundle holds UI messages per locale, split by namespace file.
type Bundle struct {
	// namespaces maps locale -> namespace -> key -> message.
	namespaces map[string]map[string]map[string]string
	// keys maps locale -> key -> message across every namespace.
	keys map[string]map[string]string
}

// Default returns the embedded bundle, already registered with x/text/message.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads every locales/<locale>/<namespace>.yaml file in catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	slices.Sort(paths)

	bundle := &Bundle{
		namespaces: map[string]map[string]map[string]string{},
		keys:       map[string]map[string]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		file, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	locale := path.Base(path.Dir(p))
	namespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.Locale != locale {
		return fmt.Errorf("catalog %s: locale %q must match directory %q", p, file.Locale, locale)
	}
	if file.Namespace != namespace {
		return fmt.Errorf("catalog %s: namespace %q must match file name %q", p, file.Namespace, namespace)
	}

	if b.namespaces[locale] == nil {
		b.namespaces[locale] = map[string]map[string]string{}
		b.keys[locale] = map[string]string{}
	}
	if _, ok := b.namespaces[locale][namespace]; ok {
		return fmt.Errorf("catalog %s: namespace %q already defined", p, namespace)
	}
	for key, value := range file.Messages {
		if _, ok := b.keys[locale][key]; ok {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, locale)
		}
		b.keys[locale][key] = value
	}
	b.namespaces[locale][namespace] = file.Messages
	return nil
}

// Register installs every message with x/text/message under its locale tag
// and the tag's bare language, so "zh" resolves to the zh-CN text.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.keys[locale] {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.keys[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the sorted locale identifiers.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.keys))
	for locale := range b.keys {
		out = append(out, locale)
	}
	slices.Sort(out)
	return out
}

// Message returns one message value with base-locale fallback.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if value, ok := b.keys[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.keys[BaseLocale][key]
	return value, ok
}

// NamespaceMessages returns a copy of one namespace for a locale.
func (b *Bundle) NamespaceMessages(locale, namespace string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	for key, value := range b.namespaces[strings.TrimSpace(locale)][strings.TrimSpace(namespace)] {
		out[key] = value
	}
	return out
}

// NamespaceMessagesWithFallback returns namespace messages and the locale
// that satisfied the lookup.
func (b *Bundle) NamespaceMessagesWithFallback(locale, namespace string) (string, map[string]string) {
	locale = strings.TrimSpace(locale)
	if messages := b.NamespaceMessages(locale, namespace); len(messages) > 0 {
		return locale, messages
	}
	return BaseLocale, b.NamespaceMessages(BaseLocale, namespace)
}

// MissingKeys lists base-locale keys that locale does not define.
func (b *Bundle) MissingKeys(locale string) []string {
	if b == nil {
		return nil
	}
	messages := b.keys[strings.TrimSpace(locale)]
	var missing []string
	for key := range b.keys[BaseLocale] {
		if _, ok := messages[key]; !ok {
			missing = append(missing, key)
		}
	}
	slices.Sort(missing)
	return missing
}

func mustLoadAndRegisterEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}

// parseCatalogFile reads the flat YAML shape used by the locale files:
//
//	locale: "zh-CN"
//	namespace: "worksheet"
//	messages:
//	  "key": "value"
func parseCatalogFile(data []byte) (catalogFile, error) {
	out := catalogFile{Messages: map[string]string{}}
	inMessages := false
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "locale:"):
			out.Locale, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
		case strings.HasPrefix(line, "namespace:"):
			out.Namespace, err = strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
		case line == "messages:":
			inMessages = true
		case !inMessages:
			err = fmt.Errorf("unexpected line")
		default:
			var key, value string
			key, value, err = parseMessageEntry(line)
			if err == nil {
				if _, dup := out.Messages[key]; dup {
					err = fmt.Errorf("duplicate key %q", key)
				}
				out.Messages[key] = value
			}
		}
		if err != nil {
			return catalogFile{}, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return catalogFile{}, err
	}

	switch {
	case out.Locale == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case out.Namespace == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(out.Messages) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

// parseMessageEntry splits `"key": "value"`, honoring escapes in the key.
func parseMessageEntry(line string) (string, string, error) {
	if !strings.HasPrefix(line, `"`) {
		return "", "", fmt.Errorf("expected quoted key")
	}
	end := -1
	for i := 1; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '"' {
			end = i
			break
		}
	}
	if end < 0 {
		return "", "", fmt.Errorf("unterminated key")
	}
	key, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("blank key")
	}
	rest, ok := strings.CutPrefix(strings.TrimSpace(line[end+1:]), ":")
	if !ok {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(rest))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}
