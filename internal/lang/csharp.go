package lang

func init() {
	Register(&LanguageSpec{
		Language:           CSharp,
		FileExtensions:     []string{".cs"},
		CallNodeTypes:      []string{"invocation_expression"},
		DecoratorNodeTypes: []string{"attribute"},
		FunctionNodeTypes:  []string{"method_declaration"},
	})
}
