// Package lang is the Language Dispatcher: it maps a file extension to a
// parser + pattern set by exposing, per language, the tree-sitter node
// kinds the extractors need to walk for (client-side call expressions) and
// (server-side decorator/annotation/attribute nodes).
package lang

// Language identifies one of the four source languages this resolver parses.
type Language string

const (
	Python     Language = "python"
	Go         Language = "go"
	TypeScript Language = "typescript"
	CSharp     Language = "c-sharp"
)

// AllLanguages returns every language this resolver supports.
func AllLanguages() []Language {
	return []Language{Python, Go, TypeScript, CSharp}
}

// LanguageSpec defines the tree-sitter node kinds the extractors walk for
// one language.
type LanguageSpec struct {
	Language Language

	// FileExtensions maps source-file suffixes to this language.
	FileExtensions []string

	// CallNodeTypes are the tree-sitter node kinds representing a function
	// or method invocation — the Service-Call Extractor walks these.
	CallNodeTypes []string

	// DecoratorNodeTypes are the tree-sitter node kinds representing a
	// decorator, annotation, or attribute attached to a function — the
	// Route Extractor walks these in addition to CallNodeTypes (a route
	// registration idiom may be either: Python/Java/C#/Rust use
	// decorators, Go/Express/Ktor/Laravel register routes via a plain
	// call expression).
	DecoratorNodeTypes []string

	// FunctionNodeTypes are the tree-sitter node kinds representing a
	// function or method definition — the node a decorator/annotation is
	// attached to, and whose name the route extractor reports as a route's
	// handler function. Line numbers are file lines, not function-relative.
	FunctionNodeTypes []string
}

// registry maps file extensions to language specs.
var registry = map[string]*LanguageSpec{}

// Register adds a LanguageSpec to the global registry, indexed by every
// extension it claims.
func Register(spec *LanguageSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the LanguageSpec for a file extension (e.g. ".go"),
// or nil if the extension isn't recognized.
func ForExtension(ext string) *LanguageSpec {
	return registry[ext]
}

// ForLanguage returns the LanguageSpec for a Language, or nil.
func ForLanguage(l Language) *LanguageSpec {
	for _, spec := range registry {
		if spec.Language == l {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language registered for a file
// extension, and whether one was found.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}
