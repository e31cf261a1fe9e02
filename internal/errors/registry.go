package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Diagnostics (E010-E019)
	// ============================================

	"E010": {
		Category: CategoryDiagnostic,
		Message:  "Cannot add value to element",
		Detail:   "The element has neither a value slot nor a markup slot (void elements such as img or br).",
	},
	"E011": {
		Category: CategoryDiagnostic,
		Message:  "Cannot add cell",
		Detail:   "A cell was added before any row. Call AddRow first.",
	},
	"E012": {
		Category: CategoryDiagnostic,
		Message:  "Cannot add cell content",
		Detail:   "Cell content was added before any cell in the current table. Call AddCell first.",
	},
	"E013": {
		Category: CategoryDiagnostic,
		Message:  "Cannot flush wrapper",
		Detail:   "A flush was requested without a target element; nothing was scheduled.",
	},
	"E014": {
		Category: CategoryDiagnostic,
		Message:  "Cannot apply configuration",
		Detail:   "The underlying tree primitive rejected part of the configuration.",
	},

	// ============================================
	// Construction Errors (E015-E019)
	// ============================================

	"E015": {
		Category: CategoryConstruction,
		Message:  "Cannot create element",
		Detail:   "The element kind is not a valid tag name.",
	},

	// ============================================
	// Layout Errors (E020-E039)
	// ============================================

	"E020": {
		Category: CategoryLayout,
		Message:  "Unknown layout block",
		Detail:   `A layout block must have exactly one of "element", "list" or "table".`,
	},
	"E021": {
		Category: CategoryLayout,
		Message:  "Invalid layout document",
		Detail:   "The layout document is not valid JSON.",
	},
	"E022": {
		Category: CategoryLayout,
		Message:  "Layout build failed",
		Detail:   "An element described by the layout could not be created.",
	},

	// ============================================
	// Publish Errors (E060-E079)
	// ============================================

	"E060": {
		Category: CategoryPublish,
		Message:  "Publish failed",
		Detail:   "The rendered output could not be written to its destination.",
	},
	"E061": {
		Category: CategoryPublish,
		Message:  "Invalid publish target",
		Detail:   "Publish targets are a directory path or s3://bucket/prefix.",
	},

	// ============================================
	// Configuration Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid elkit.json",
		Detail:   "The elkit.json configuration file is malformed.",
	},
	"E121": {
		Category: CategoryConfig,
		Message:  "Invalid frame rate",
		Detail:   "The frame rate must be between 1 and 240 frames per second.",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid port number",
		Detail:   "The configured port number must be between 0 and 65535.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E141": {
		Category: CategoryCLI,
		Message:  "Configuration file not found",
		Detail:   "No elkit.json was found at the given path.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Cannot read layout file",
		Detail:   "The layout file could not be opened.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
