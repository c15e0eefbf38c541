// Package repoctx infers lightweight repository context (language,
// frameworks, layout) from a project's indexed file list.
package repoctx

import (
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
)

// Patterns flags common layout traits.
type Patterns struct {
	UseTypeScript bool `json:"useTypeScript"`
	HasComponents bool `json:"hasComponents"`
	HasUtils      bool `json:"hasUtils"`
	HasAPI        bool `json:"hasApi"`
	HasStyles     bool `json:"hasStyles"`
}

// Context is what the planner knows about a repository.
type Context struct {
	Files           []jobs.SourceFile `json:"files"`
	Directories     []string          `json:"directories"`
	Frameworks      []string          `json:"frameworks"`
	PrimaryLanguage string            `json:"primaryLanguage"`
	Patterns        Patterns          `json:"patterns"`
	FileCount       int               `json:"fileCount"`
	CommonPaths     map[string]string `json:"commonPaths"`
}

// Default is used when the source index cannot be read.
func Default() *Context {
	return &Context{
		Files:           []jobs.SourceFile{},
		Directories:     []string{"src/components", "src/utils", "src/pages"},
		Frameworks:      []string{"javascript"},
		PrimaryLanguage: "javascript",
		Patterns:        Patterns{UseTypeScript: true},
		CommonPaths:     map[string]string{},
	}
}

// Build derives a Context from indexed files. At most maxDirs distinct
// directories are kept, in sorted order.
func Build(files []jobs.SourceFile, maxDirs int) *Context {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.FileName)
	}
	frameworks, primary := Detect(names)
	return &Context{
		Files:           files,
		Directories:     directories(names, maxDirs),
		Frameworks:      frameworks,
		PrimaryLanguage: primary,
		Patterns:        detectPatterns(names),
		FileCount:       len(files),
		CommonPaths:     commonPaths(names),
	}
}

var extLanguages = []struct {
	lang string
	exts []string
}{
	{"python", []string{".py"}},
	{"go", []string{".go"}},
	{"rust", []string{".rs"}},
	{"cpp", []string{".cpp", ".cc", ".c"}},
	{"java", []string{".java"}},
	{"javascript", []string{".js", ".jsx"}},
	{"typescript", []string{".ts", ".tsx"}},
}

// Detect returns the frameworks suggested by path conventions and the
// primary language by extension count. TypeScript wins over JavaScript
// whenever any TypeScript file is present.
func Detect(paths []string) (frameworks []string, primary string) {
	counts := make(map[string]int, len(extLanguages))
	for _, p := range paths {
		for _, el := range extLanguages {
			for _, ext := range el.exts {
				if strings.HasSuffix(p, ext) {
					counts[el.lang]++
				}
			}
		}
	}

	primary = "javascript"
	best := 0
	for _, el := range extLanguages {
		if counts[el.lang] > best {
			best = counts[el.lang]
			primary = el.lang
		}
	}
	if counts["typescript"] > 0 && primary == "javascript" {
		primary = "typescript"
	}

	if anyPath(paths, func(p string) bool {
		return strings.Contains(p, "next.config") || strings.Contains(p, "pages/") || strings.Contains(p, "app/")
	}) {
		frameworks = append(frameworks, "nextjs")
	}
	if anyPath(paths, func(p string) bool { return strings.Contains(p, "src/") && strings.Contains(p, ".tsx") }) {
		frameworks = append(frameworks, "react")
	}
	if anyPath(paths, func(p string) bool { return strings.Contains(p, "nuxt.config") || strings.Contains(p, ".vue") }) {
		frameworks = append(frameworks, "nuxt")
	}
	if anyPath(paths, func(p string) bool { return strings.Contains(p, "angular.json") || strings.Contains(p, ".component.") }) {
		frameworks = append(frameworks, "angular")
	}
	if len(frameworks) == 0 {
		frameworks = []string{"javascript"}
	}
	return frameworks, primary
}

func anyPath(paths []string, pred func(string) bool) bool {
	for _, p := range paths {
		if pred(p) {
			return true
		}
	}
	return false
}

func directories(paths []string, max int) []string {
	seen := make(map[string]bool)
	dirs := []string{}
	for _, p := range paths {
		d := path.Dir(p)
		if d == "." || d == "/" || seen[d] {
			continue
		}
		seen[d] = true
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	if max > 0 && len(dirs) > max {
		dirs = dirs[:max]
	}
	return dirs
}

func detectPatterns(paths []string) Patterns {
	has := func(subs ...string) bool {
		return anyPath(paths, func(p string) bool {
			for _, s := range subs {
				if strings.Contains(p, s) {
					return true
				}
			}
			return false
		})
	}
	return Patterns{
		UseTypeScript: has(".ts"),
		HasComponents: has("components/"),
		HasUtils:      has("utils/", "lib/"),
		HasAPI:        has("api/", "endpoints/"),
		HasStyles:     has(".css", ".scss"),
	}
}

// commonPaths records the directory of the first component-like and the
// first utility-like file.
func commonPaths(paths []string) map[string]string {
	out := map[string]string{}
	for _, p := range paths {
		if strings.Contains(p, "component") {
			out["components"] = path.Dir(p)
			break
		}
	}
	for _, p := range paths {
		if strings.Contains(p, "util") || strings.Contains(p, "lib") {
			out["utils"] = path.Dir(p)
			break
		}
	}
	for k, v := range out {
		if v == "." {
			out[k] = ""
		}
	}
	return out
}

// Vars exposes the context to prompt templates.
func (c *Context) Vars() prompt.Vars {
	frameworks := strings.Join(c.Frameworks, ", ")
	if frameworks == "" {
		frameworks = "Unknown"
	}
	dirs := strings.Join(c.Directories, ", ")
	if dirs == "" {
		dirs = "Unknown"
	}
	return prompt.Vars{
		"language":        c.PrimaryLanguage,
		"frameworks":      frameworks,
		"file_count":      strconv.Itoa(c.FileCount),
		"directories":     dirs,
		"uses_typescript": strconv.FormatBool(c.Patterns.UseTypeScript),
	}
}
