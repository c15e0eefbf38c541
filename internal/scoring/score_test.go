package scoring

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScore_PathRules(t *testing.T) {
	tests := []struct {
		path string
		want float64 // delta from similarity 1.0
	}{
		{"src/app/page.tsx", 0.3},
		{"go.mod", -0.2},
		{"internal/db/store_test.go", -0.1},
		{"cmd/server/main.go", 0.2},
		{"app/services/billing.py", 0.1},
		{"prisma/migrations/001_init.sql", -0.4},
		{"types/index.d.ts", -0.3},
		{"docs/guide.md", -0.3},
		{"notes.txt", 0},
	}
	for _, tt := range tests {
		got := Score(jobs.FileReference{FileName: tt.path, Similarity: 1}, "x")
		if !approx(got, 1+tt.want) {
			t.Errorf("%s: expected %.2f, got %.4f", tt.path, 1+tt.want, got)
		}
	}
}

func TestScore_ClampedAtZero(t *testing.T) {
	paths := []string{
		"dist/migrations/readme.md",
		"node_modules/pkg/package.json",
		"build/schema.sql",
	}
	for _, p := range paths {
		got := Score(jobs.FileReference{FileName: p}, "anything")
		if got < 0 {
			t.Errorf("%s: score %f is negative", p, got)
		}
	}
	if got := Score(jobs.FileReference{FileName: "dist/migrations/readme.md"}, "x"); got != 0 {
		t.Errorf("expected clamp to 0, got %f", got)
	}
}

func TestScore_NoNameUsesSimilarity(t *testing.T) {
	got := Score(jobs.FileReference{Similarity: 0.42, Summary: "Login"}, "Login fails in auth")
	if got != 0.42 {
		t.Errorf("expected 0.42, got %f", got)
	}
}

func TestScore_BaseNameMention(t *testing.T) {
	f := jobs.FileReference{FileName: "lib/format.rb", Similarity: 0.1}
	without := Score(f, "dates look wrong")
	with := Score(f, "dates look wrong in format.rb")
	if !approx(with-without, mentionBonus) {
		t.Errorf("expected mention bonus %.2f, got %.4f", mentionBonus, with-without)
	}
}

func TestScore_IdentifierRepeatsCount(t *testing.T) {
	f := jobs.FileReference{FileName: "src/widget.ts", Summary: "Renders Banner", Similarity: 0.5}
	got := Score(f, "Banner Banner flicker")
	if !approx(got, 0.9) {
		t.Errorf("expected 0.9, got %f", got)
	}
}

func TestScore_FunctionIdentifier(t *testing.T) {
	f := jobs.FileReference{FileName: "src/totals.ts", Similarity: 0.5}
	if got := Score(f, "crash in totals( helper"); !approx(got, 0.7) {
		t.Errorf("expected 0.7, got %f", got)
	}
	if got := Score(f, "crash in totals helper"); !approx(got, 0.5) {
		t.Errorf("expected 0.5 without call syntax, got %f", got)
	}
}

func TestScore_ContextRules(t *testing.T) {
	tests := []struct {
		path  string
		issue string
		want  float64
	}{
		{"src/auth/session.ts", "users get logged out, security issue", 0.15},
		{"server/db/conn.ts", "slow query on orders", 0.1},
		{"worker/pool.go", "goroutine leak in pool", 0.1},
		{"src/config/app.yaml", "environment variable ignored", 0.05},
		{"src/auth/session.ts", "page is blank", 0},
	}
	for _, tt := range tests {
		got := Score(jobs.FileReference{FileName: tt.path, Similarity: 0.5}, tt.issue)
		if !approx(got, 0.5+tt.want) {
			t.Errorf("%s / %q: expected %.2f, got %.4f", tt.path, tt.issue, 0.5+tt.want, got)
		}
	}
}

func TestScore_LoginOutranksReadme(t *testing.T) {
	issue := "fix JWT expiration bug in login"
	login := Score(jobs.FileReference{FileName: "src/auth/login.ts", Similarity: 0.5}, issue)
	readme := Score(jobs.FileReference{FileName: "README.md", Similarity: 0.5}, issue)
	if login <= readme {
		t.Errorf("expected login.ts (%f) > README.md (%f)", login, readme)
	}
}

func TestScore_Deterministic(t *testing.T) {
	f := jobs.FileReference{FileName: "src/components/Nav.tsx", Summary: "Nav bar", Similarity: 0.33}
	issue := "Nav component overlaps the UserMenu() on mobile"
	first := Score(f, issue)
	for i := 0; i < 20; i++ {
		if got := Score(f, issue); got != first {
			t.Fatalf("run %d: expected %f, got %f", i, first, got)
		}
	}
}

func TestIdentifiers(t *testing.T) {
	got := Identifiers("UserCard breaks when fetchUser( returns null in UserCard")
	want := []string{"usercard", "user", "usercard", "fetchuser"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 3}, {99, 3}, {100, 4}, {299, 4}, {300, 5}, {5000, 5},
	}
	for _, tt := range tests {
		if got := Limit(strings.Repeat("a", tt.n)); got != tt.want {
			t.Errorf("length %d: expected %d, got %d", tt.n, tt.want, got)
		}
	}
}

func TestSelect_SevenFilesShortIssue(t *testing.T) {
	var files []jobs.FileReference
	for i := 0; i < 7; i++ {
		files = append(files, jobs.FileReference{
			FileName:   fmt.Sprintf("src/file%d.ts", i),
			Similarity: float64(i) / 10,
		})
	}
	issue := strings.Repeat("b", 50)
	got := Select(files, issue)
	if len(got) != 3 {
		t.Fatalf("expected 3 files, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].PriorityScore > got[i-1].PriorityScore {
			t.Errorf("not sorted descending at %d", i)
		}
	}
	if got[0].FileName != "src/file6.ts" {
		t.Errorf("expected highest similarity first, got %s", got[0].FileName)
	}
}

func TestRank_StableTies(t *testing.T) {
	files := []jobs.FileReference{
		{FileName: "a/one.txt", Similarity: 0.5},
		{FileName: "a/two.txt", Similarity: 0.5},
		{FileName: "a/three.txt", Similarity: 0.9},
		{FileName: "a/four.txt", Similarity: 0.5},
	}
	got := Rank(files, "x")
	order := []string{"a/three.txt", "a/one.txt", "a/two.txt", "a/four.txt"}
	for i, name := range order {
		if got[i].FileName != name {
			t.Errorf("position %d: expected %s, got %s", i, name, got[i].FileName)
		}
	}
}

func TestSelect_FewerThanLimit(t *testing.T) {
	files := []jobs.FileReference{{FileName: "a.go"}}
	if got := Select(files, "x"); len(got) != 1 {
		t.Errorf("expected 1 file, got %d", len(got))
	}
	if got := Select(nil, "x"); len(got) != 0 {
		t.Errorf("expected 0 files, got %d", len(got))
	}
}
