package lang

func init() {
	Register(&LanguageSpec{
		Language:          Go,
		FileExtensions:    []string{".go"},
		CallNodeTypes:     []string{"call_expression"},
		FunctionNodeTypes: []string{"function_declaration", "method_declaration"},
		// Go has no decorator/annotation node kind — gin/chi route
		// registrations are plain call expressions, so DecoratorNodeTypes
		// is empty and the route matchers run over CallNodeTypes instead.
	})
}
