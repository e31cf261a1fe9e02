// Package errors provides the coded errors and diagnostics used across elkit.
//
// Every condition elkit can report has a code (e.g. "E010") registered with a
// category, a short message and a longer detail. Codes are used two ways:
//
//   - Diagnostics: advisory, non-fatal conditions (a value that could not be
//     applied, a cell added before any row). They are logged with Report and
//     never returned to the caller.
//   - Errors: failures that stop an operation (a malformed layout file, an
//     invalid config). They are returned as *Error values.
//
// # Usage
//
//	err := errors.New("E020").
//	    WithDetail(`block 3 has no "element", "list" or "table" key`).
//	    WithSuggestion("Wrap the configuration in one of the three block kinds")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E020: Unknown layout block
//	//
//	//   block 3 has no "element", "list" or "table" key
//	//
//	//   Hint: Wrap the configuration in one of the three block kinds
//
// Diagnostics go through a structured logger:
//
//	errors.Report(logger, "E011", "addCell")
package errors
