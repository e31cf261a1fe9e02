package element

import "github.com/vango-dev/elkit/pkg/dom"

// List builds an unordered list one entry at a time.
type List struct {
	h       *Handler
	el      *dom.Element
	entries int
}

// CreateList creates a ul container from cfg. cfg.Type is ignored and cfg is
// not modified.
func (h *Handler) CreateList(cfg *Config) (*List, error) {
	c := cfg.clone()
	c.Type = "ul"
	el, err := h.Create(c)
	if err != nil {
		return nil, err
	}
	return &List{h: h, el: el}, nil
}

// AddEntry appends an li configured by cfg.
func (l *List) AddEntry(cfg *Config) error {
	li, err := l.h.doc.CreateElement("li")
	if err != nil {
		return err
	}
	l.h.metrics.NodeCreated("li")
	if err := l.h.Apply(li, cfg); err != nil {
		return err
	}
	if err := l.el.AppendChild(li); err != nil {
		return err
	}
	l.entries++
	return nil
}

// Element returns the list container.
func (l *List) Element() *dom.Element { return l.el }

// Len returns the number of entries added.
func (l *List) Len() int { return l.entries }
