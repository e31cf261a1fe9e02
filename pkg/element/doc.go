// Package element builds configured elements from declarative records.
//
// A Handler turns a Config into a fully configured element in one call, and
// its List and Table builders keep the bookkeeping needed to grow lists and
// tables incrementally:
//
//	h := element.NewHandler(dom.NewDocument())
//	btn, err := h.Create(&element.Config{
//		Type:    "button",
//		Text:    "Save",
//		Classes: element.ClassList("btn", "primary"),
//	})
//
// Conditions that only prevent part of a record from applying (a value on a
// void element, a cell before any row) are logged as warn-level diagnostics
// on the handler's logger and never returned as errors.
package element
