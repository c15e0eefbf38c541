package scoring

import "strings"

// Matcher reports whether a lowercased file path matches a rule.
type Matcher func(path string) bool

// Rule adjusts a file's score when its path matches.
type Rule struct {
	Name   string
	Adjust float64
	Match  Matcher
}

// ContextRule adjusts a file's score when the issue text mentions one of
// Keywords and the path matches.
type ContextRule struct {
	Name     string
	Adjust   float64
	Keywords []string
	Match    Matcher
}

func contains(subs ...string) Matcher {
	return func(p string) bool {
		for _, s := range subs {
			if strings.Contains(p, s) {
				return true
			}
		}
		return false
	}
}

func suffix(subs ...string) Matcher {
	return func(p string) bool {
		for _, s := range subs {
			if strings.HasSuffix(p, s) {
				return true
			}
		}
		return false
	}
}

func anyOf(ms ...Matcher) Matcher {
	return func(p string) bool {
		for _, m := range ms {
			if m(p) {
				return true
			}
		}
		return false
	}
}

func allOf(ms ...Matcher) Matcher {
	return func(p string) bool {
		for _, m := range ms {
			if !m(p) {
				return false
			}
		}
		return true
	}
}

func not(m Matcher) Matcher {
	return func(p string) bool { return !m(p) }
}

// PathRules are evaluated against every named file. Each matching rule
// contributes its adjustment once.
var PathRules = []Rule{
	{Name: "migrations", Adjust: -0.4, Match: contains(
		"migrations/", "_migrations/", "schema.rb", "schema.sql",
		"_gen.go", "_generated.go", "models_gen.py", "_pb2.py",
		"prisma/migrations/", "sequelize/migrations/", "knex/migrations/",
		"typeorm/migration/", "alembic/versions/", "flyway/sql/",
	)},
	{Name: "generated", Adjust: -0.3, Match: anyOf(
		contains("_generated/", "target/debug/", "target/release/", "__pycache__/",
			"node_modules/", ".next/", "dist/", "build/", "cmake-build-"),
		suffix(".d.ts", "_pb.py", "_pb2.py", ".pb.go", "_gen.go", "_generated.rs",
			".rs.in", ".pyc", ".o", ".so"),
		allOf(contains("vendor/"), contains(".go")),
	)},
	{Name: "docs", Adjust: -0.3, Match: anyOf(
		suffix("readme.md", "readme.txt", "changelog.md", "changelog.txt",
			"license", "license.md", "contributing.md", "authors.md",
			"todo.md", "notes.md"),
		allOf(suffix(".md"), contains("docs/", "documentation/")),
	)},
	{Name: "config-js", Adjust: -0.2, Match: suffix(
		"package.json", "package-lock.json", "yarn.lock", "pnpm-lock.yaml",
		"tsconfig.json", ".eslintrc.js", "webpack.config.js", "vite.config.js",
		"next.config.js", "tailwind.config.js",
	)},
	{Name: "config-python", Adjust: -0.2, Match: suffix(
		"requirements.txt", "pyproject.toml", "setup.py", "setup.cfg",
		"pipfile", "pipfile.lock", "poetry.lock", "conda.yaml",
	)},
	{Name: "config-go", Adjust: -0.2, Match: suffix("go.mod", "go.sum", "go.work", "go.work.sum")},
	{Name: "config-rust", Adjust: -0.2, Match: suffix("cargo.toml", "cargo.lock")},
	{Name: "config-cpp", Adjust: -0.2, Match: suffix(
		"cmakelists.txt", "makefile", ".cmake", "conanfile.txt", "vcpkg.json",
	)},
	{Name: "tests", Adjust: -0.1, Match: anyOf(
		contains(".test.", ".spec.", "__tests__/", "/tests/", "/test/", "_test.go",
			"_test.py", "test_", "spec/", "testing/"),
		suffix("_test.rs", "_unittest.cpp"),
	)},
	{Name: "entry-js", Adjust: 0.2, Match: contains(
		"page.tsx", "index.tsx", "layout.tsx", "app.tsx",
		"main.js", "index.js", "server.js", "app.js",
	)},
	{Name: "entry-python", Adjust: 0.2, Match: anyOf(
		suffix("main.py", "__init__.py", "app.py", "server.py", "manage.py"),
		contains("wsgi.py", "asgi.py"),
	)},
	{Name: "entry-go", Adjust: 0.2, Match: suffix("main.go", "server.go", "app.go", "cmd.go")},
	{Name: "entry-rust", Adjust: 0.2, Match: suffix("main.rs", "lib.rs", "mod.rs")},
	{Name: "entry-cpp", Adjust: 0.2, Match: suffix("main.cpp", "main.cc", "main.c", "app.cpp")},
	{Name: "components", Adjust: 0.1, Match: anyOf(
		suffix(".tsx", ".jsx"),
		contains("/components/", "/ui/"),
	)},
	{Name: "modules-python", Adjust: 0.1, Match: allOf(
		suffix(".py"), not(contains("test")),
		contains("/models/", "/views/", "/controllers/", "/services/"),
	)},
	{Name: "modules-go", Adjust: 0.1, Match: allOf(
		suffix(".go"), not(contains("test")),
		contains("/pkg/", "/internal/", "/cmd/", "/api/"),
	)},
	{Name: "api-js", Adjust: 0.15, Match: contains(
		"/api/", "route.ts", "server.ts", "middleware.ts", "handler.js", "controller.js",
	)},
	{Name: "api-python", Adjust: 0.15, Match: contains(
		"views.py", "urls.py", "api.py", "routes.py", "handlers.py", "endpoints.py",
	)},
	{Name: "api-go", Adjust: 0.15, Match: contains(
		"handler.go", "router.go", "controller.go", "middleware.go", "/api/", "/handlers/",
	)},
	{Name: "api-rust", Adjust: 0.15, Match: contains(
		"handler.rs", "router.rs", "controller.rs", "/api/",
	)},
}

// ContextRules pair issue vocabulary with the directory conventions that
// usually hold the relevant code.
var ContextRules = []ContextRule{
	{
		Name: "ui", Adjust: 0.1,
		Keywords: []string{"component", "ui", "frontend"},
		Match:    contains("/components/", "/ui/", "/widgets/"),
	},
	{
		Name: "api", Adjust: 0.1,
		Keywords: []string{"api", "endpoint", "server", "backend"},
		Match:    contains("/api/", "/handlers/", "/controllers/", "/routes/", "/endpoints/", "/views/"),
	},
	{
		Name: "database", Adjust: 0.1,
		Keywords: []string{"database", "model", "schema", "query"},
		Match:    contains("/models/", "/schemas/", "/db/", "/database/", "/entities/", "/repository/"),
	},
	{
		Name: "service", Adjust: 0.1,
		Keywords: []string{"service", "business", "logic", "utility"},
		Match:    contains("/services/", "/utils/", "/helpers/", "/lib/", "/core/", "/pkg/"),
	},
	{
		Name: "auth", Adjust: 0.15,
		Keywords: []string{"auth", "login", "security", "jwt"},
		Match:    contains("/auth/", "/security/", "/middleware/", "auth.", "jwt.", "login."),
	},
	{
		Name: "config", Adjust: 0.05,
		Keywords: []string{"config", "setting", "environment"},
		Match:    contains("/config/", "/settings/", "/env/", ".config.", ".env"),
	},
	{
		Name: "test", Adjust: 0.05,
		Keywords: []string{"test", "testing", "spec"},
		Match:    contains("/test/", "/tests/", "/__tests__/", ".test.", ".spec."),
	},
	{
		Name: "python-web", Adjust: 0.1,
		Keywords: []string{"django", "flask"},
		Match:    contains("views.py", "urls.py", "models.py"),
	},
	{
		Name: "go-concurrency", Adjust: 0.1,
		Keywords: []string{"goroutine", "channel", "go func"},
		Match:    suffix(".go"),
	},
	{
		Name: "rust-tooling", Adjust: 0.1,
		Keywords: []string{"cargo", "crate", "rust"},
		Match:    suffix(".rs"),
	},
	{
		Name: "cpp-tooling", Adjust: 0.1,
		Keywords: []string{"cmake", "makefile", "gcc", "clang"},
		Match:    suffix(".cpp", ".cc", ".c", ".h", ".hpp"),
	},
}

func (r ContextRule) mentioned(issue string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(issue, k) {
			return true
		}
	}
	return false
}
