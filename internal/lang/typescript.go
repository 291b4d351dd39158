package lang

func init() {
	Register(&LanguageSpec{
		Language:          TypeScript,
		FileExtensions:    []string{".ts", ".tsx", ".js", ".jsx", ".mjs"},
		CallNodeTypes:     []string{"call_expression"},
		FunctionNodeTypes: []string{"function_declaration", "method_definition", "arrow_function"},
		// Express/Koa route registration is a call expression
		// (app.get("/path", handler)), not a decorator — no
		// DecoratorNodeTypes needed for the route matchers this
		// resolver carries.
	})
}
