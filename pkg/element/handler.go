package element

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/vango-dev/elkit/internal/errors"
	"github.com/vango-dev/elkit/pkg/dom"
	"github.com/vango-dev/elkit/pkg/idgen"
	"github.com/vango-dev/elkit/pkg/metrics"
)

// DefaultType is the tag used when Config.Type is empty.
const DefaultType = "div"

// idOptions are the options for generated element ids.
var idOptions = idgen.Options{Len: idgen.Length(6), Chars: "Aa#"}

// Handler creates and configures elements in a document.
type Handler struct {
	doc     *dom.Document
	ids     *idgen.Generator
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithIDGenerator sets the generator for default ids.
func WithIDGenerator(g *idgen.Generator) Option {
	return func(h *Handler) {
		h.ids = g
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// NewHandler creates a Handler for doc.
func NewHandler(doc *dom.Document, opts ...Option) *Handler {
	h := &Handler{
		doc:    doc,
		ids:    idgen.New(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// Document returns the document the handler builds into.
func (h *Handler) Document() *dom.Document { return h.doc }

// Logger returns the diagnostics logger.
func (h *Handler) Logger() *slog.Logger { return h.logger }

// Create creates one element of cfg.Type (default "div") and applies cfg to
// it. A tag name the document rejects is returned as an error.
func (h *Handler) Create(cfg *Config) (*dom.Element, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	tag := cfg.Type
	if tag == "" {
		tag = DefaultType
	}

	el, err := h.doc.CreateElement(tag)
	if err != nil {
		return nil, errors.New("E015").WithOp("createElement").WithDetail(fmt.Sprintf("type %q", tag)).Wrap(err)
	}
	h.metrics.NodeCreated(el.Tag())

	if err := h.Apply(el, cfg); err != nil {
		return nil, err
	}
	return el, nil
}

// Apply applies cfg to el in a fixed order: id, value, placeholder, attrs,
// styles, classes, disabled, text, children. Placeholder and disabled only
// apply to elements that carry them. A nil el is a no-op and a nil
// cfg is an empty record. Conditions that only prevent part of the record
// from applying are logged as diagnostics; the returned error is reserved for
// child elements that cannot be created.
func (h *Handler) Apply(el *dom.Element, cfg *Config) error {
	if el == nil {
		return nil
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.ID != "" {
		el.SetID(cfg.ID)
	} else {
		el.SetID(h.ids.Generate(&idOptions))
	}

	if cfg.Value != "" {
		h.applyValue(el, cfg.Value)
	}

	if cfg.Placeholder != "" && el.HasPlaceholderSlot() {
		el.SetAttribute("placeholder", cfg.Placeholder)
	}

	for _, kv := range cfg.Attrs {
		el.SetAttribute(kv.Key, kv.Value)
	}

	if len(cfg.Styles) > 0 {
		style := el.Style()
		for _, kv := range cfg.Styles {
			if style.Supports(kv.Key) {
				style.Set(kv.Key, kv.Value)
			}
		}
	}

	if cfg.Classes.IsSet() {
		if cfg.Classes.IsAttribute() {
			if v := cfg.Classes.Attribute(); v != "" {
				el.SetClassName(v)
			}
		} else {
			el.ClassList().Add(cfg.Classes.Tokens()...)
		}
	}

	if cfg.Disabled != nil && el.HasDisabledSlot() {
		el.SetDisabled(*cfg.Disabled)
	}

	if cfg.Text != "" {
		el.AppendChild(h.doc.CreateTextNode(cfg.Text))
	}

	for _, child := range cfg.Children {
		if child == nil {
			continue
		}
		c, err := h.Create(child)
		if err != nil {
			return err
		}
		if err := el.AppendChild(c); err != nil {
			h.diagnose("E014", "appendChild", "error", err)
		}
	}
	return nil
}

// applyValue picks the value slot, then the markup slot, then gives up with
// a diagnostic.
func (h *Handler) applyValue(el *dom.Element, value string) {
	switch {
	case el.HasValueSlot():
		el.SetValue(value)
	case el.HasMarkupSlot():
		if err := el.SetInnerHTML(nbsp(value)); err != nil {
			h.diagnose("E014", "setInnerHTML", "tag", el.Tag(), "error", err)
		}
	default:
		h.diagnose("E010", "applyValue", "tag", el.Tag(), "id", el.ID())
	}
}

func (h *Handler) diagnose(code, op string, args ...any) {
	h.metrics.Diagnostic(code)
	errors.Report(h.logger, code, op, args...)
}

// nbsp replaces every whitespace rune with the &nbsp; entity.
func nbsp(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			b.WriteString("&nbsp;")
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
