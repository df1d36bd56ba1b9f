package translate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"github.com/infiniteWander/xiv-gui-solver/internal/actions"
	"github.com/infiniteWander/xiv-gui-solver/internal/logsink"
)

// Fallback is the language every lookup can fall back to.
const Fallback = "en"

// ErrMissingTranslation reports an action with no English name. It means
// the action table and the translation tables disagree.
var ErrMissingTranslation = errors.New("missing translation")

// Translator turns action ids into display names for one language.
type Translator struct {
	tables  map[string]Table
	codes   []string
	tags    []language.Tag
	matcher language.Matcher
	sink    logsink.Sink
}

// New returns a translator over the bundled tables.
func New(sink logsink.Sink) *Translator {
	t, err := NewWithTables(DefaultTables(), sink)
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithTables builds a translator over custom tables. An "en" table is
// required.
func NewWithTables(tables map[string]Table, sink logsink.Sink) (*Translator, error) {
	if _, ok := tables[Fallback]; !ok {
		return nil, fmt.Errorf("translation tables: %q table is required", Fallback)
	}
	codes := make([]string, 0, len(tables))
	for code := range tables {
		if code != Fallback {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	codes = append([]string{Fallback}, codes...)

	tags := make([]language.Tag, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("translation tables: language %q: %w", code, err)
		}
		tags = append(tags, tag)
	}
	return &Translator{
		tables:  tables,
		codes:   codes,
		tags:    tags,
		matcher: language.NewMatcher(tags),
		sink:    logsink.OrDiscard(sink),
	}, nil
}

// Languages lists the supported language codes, fallback first.
func (t *Translator) Languages() []string {
	out := make([]string, len(t.codes))
	copy(out, t.codes)
	return out
}

// Resolve maps a user supplied code ("FR", "fr-CA", "en_US") to a
// supported table. ok is false when the code matched nothing; the fallback
// code is returned in that case.
func (t *Translator) Resolve(code string) (string, bool) {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	if code == "" {
		return Fallback, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Fallback, false
	}
	_, idx, conf := t.matcher.Match(tag)
	if conf == language.No {
		return Fallback, false
	}
	// The matcher falls back to its first tag with Low confidence for
	// languages it cannot place; only a same-language match counts.
	reqBase, _ := tag.Base()
	gotBase, _ := t.tags[idx].Base()
	if reqBase != gotBase {
		return Fallback, false
	}
	return t.codes[idx], true
}

// Translate returns the display name of each id, in input order. Names
// missing from the requested language come from English. An id unknown to
// the action table or absent from English fails the whole call.
func (t *Translator) Translate(ids []actions.ID, lang string) ([]string, error) {
	code, ok := t.Resolve(lang)
	if !ok {
		t.sink.Add(fmt.Sprintf("Language '%s' is not supported. Defaulting to English.", lang))
	}
	target := t.tables[code]
	english := t.tables[Fallback]

	out := make([]string, len(ids))
	for i, id := range ids {
		info, known := actions.Lookup(id)
		if !known {
			return nil, fmt.Errorf("action %d '%s': unknown action: %w", i, id, ErrMissingTranslation)
		}
		if name, ok := target[info.NameKey]; ok {
			out[i] = name
			continue
		}
		name, ok := english[info.NameKey]
		if !ok {
			return nil, fmt.Errorf("action %d '%s': no English name: %w", i, id, ErrMissingTranslation)
		}
		t.sink.Add(fmt.Sprintf("Translation of '%s' not found for '%s'. Defaulting to English.", name, code))
		out[i] = name
	}
	return out, nil
}
