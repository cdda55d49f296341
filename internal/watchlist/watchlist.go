package watchlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Package watchlist loads the deal watches (YAML/JSON) polled by the deal watcher.

const defaultLimit = 10

// Watch describes one deal query: which component type to poll and what
// counts as a deal worth publishing.
type Watch struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Name          string   `json:"name" yaml:"name"`
	ComponentType string   `json:"component_type" yaml:"component_type"`
	MaxPriceUSD   float64  `json:"max_price_usd" yaml:"max_price_usd" validate:"gte=0"`
	Limit         int      `json:"limit" yaml:"limit" validate:"min=1,max=100"`
	Stores        []string `json:"stores" yaml:"stores" validate:"dive,required"`
	Enabled       *bool    `json:"enabled" yaml:"enabled"`
}

// IsEnabled reports whether the watch should be polled. Missing means enabled.
func (w Watch) IsEnabled() bool {
	return w.Enabled == nil || *w.Enabled
}

// HasCeiling reports whether the watch filters on price.
func (w Watch) HasCeiling() bool {
	return w.MaxPriceUSD > 0
}

// AcceptsStore reports whether products from store pass the watch's store filter.
func (w Watch) AcceptsStore(store string) bool {
	if len(w.Stores) == 0 {
		return true
	}
	store = strings.ToLower(strings.TrimSpace(store))
	for _, s := range w.Stores {
		if s == store {
			return true
		}
	}
	return false
}

type document struct {
	Watches []Watch `json:"watches" yaml:"watches"`
}

// Registry is a loaded, validated set of watches.
type Registry struct {
	watches []Watch
	idx     map[string]Watch
}

// All returns a copy of every loaded watch in file order.
func (r *Registry) All() []Watch {
	if r == nil || len(r.watches) == 0 {
		return nil
	}
	out := make([]Watch, len(r.watches))
	copy(out, r.watches)
	return out
}

// Enabled returns the watches that should be polled.
func (r *Registry) Enabled() []Watch {
	if r == nil {
		return nil
	}
	var out []Watch
	for _, w := range r.watches {
		if w.IsEnabled() {
			out = append(out, w)
		}
	}
	return out
}

// ByID returns the watch with the given id, if loaded.
func (r *Registry) ByID(id string) (Watch, bool) {
	id = strings.TrimSpace(id)
	if r == nil || id == "" {
		return Watch{}, false
	}
	w, ok := r.idx[id]
	return w, ok
}

// Load reads and validates a watchlist file.
func Load(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("watchlist file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open watchlist file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read watchlist file: %w", err)
	}

	return Parse(raw, filepath.Ext(path))
}

// Parse decodes watchlist content. ext selects the format (".yaml", ".yml",
// ".json"); an empty ext tries each in turn.
func Parse(data []byte, ext string) (*Registry, error) {
	doc, err := parseDocument(data, ext)
	if err != nil {
		return nil, err
	}
	if len(doc.Watches) == 0 {
		return nil, errors.New("watchlist file contains no watches entries")
	}

	reg := &Registry{
		watches: make([]Watch, 0, len(doc.Watches)),
		idx:     make(map[string]Watch, len(doc.Watches)),
	}
	for i := range doc.Watches {
		w := sanitizeWatch(doc.Watches[i])
		if err := validateWatch(w); err != nil {
			return nil, fmt.Errorf("watch[%d]: %w", i, err)
		}
		if _, exists := reg.idx[w.ID]; exists {
			return nil, fmt.Errorf("duplicate watch id %q", w.ID)
		}
		reg.watches = append(reg.watches, w)
		reg.idx[w.ID] = w
	}
	return reg, nil
}

func parseDocument(data []byte, ext string) (document, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var doc document
		if err := d.fn(data, &doc); err != nil {
			lastErr = fmt.Errorf("decode %s watchlist: %w", d.name, err)
			continue
		}
		return doc, nil
	}
	if lastErr != nil {
		return document{}, lastErr
	}
	return document{}, errors.New("watchlist file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func sanitizeWatch(w Watch) Watch {
	w.ID = strings.TrimSpace(w.ID)
	w.Name = strings.TrimSpace(w.Name)
	w.ComponentType = strings.TrimSpace(w.ComponentType)
	if w.Name == "" {
		w.Name = w.ID
	}
	if w.Limit == 0 {
		w.Limit = defaultLimit
	}

	stores := make([]string, 0, len(w.Stores))
	for _, s := range w.Stores {
		stores = append(stores, strings.ToLower(strings.TrimSpace(s)))
	}
	w.Stores = stores

	return w
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report yaml names, they are what users edit
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

func validateWatch(w Watch) error {
	err := getValidator().Struct(w)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate watch %q: %w", w.ID, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fe.Field()+": "+describe(fe))
	}
	if w.ID == "" {
		return errors.New(strings.Join(msgs, "; "))
	}
	return fmt.Errorf("watch %q: %s", w.ID, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return "is invalid"
	}
}
