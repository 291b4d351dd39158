package lang

func init() {
	Register(&LanguageSpec{
		Language:           Python,
		FileExtensions:     []string{".py"},
		CallNodeTypes:      []string{"call"},
		DecoratorNodeTypes: []string{"decorator"},
		FunctionNodeTypes:  []string{"function_definition"},
	})
}
