// Package fixer asks the model for minimal line edits to one file and
// applies them.
package fixer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/llm"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/patch"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/reply"
)

// Options tunes the model request.
type Options struct {
	Temperature  float64
	MaxTokens    int64
	MaxCodeChars int // budget for the numbered listing; 0 means unlimited
}

// Result is the verdict for one file. FixedCode is set when NeedsFix is
// true and the reply supplied line edits, even if none of them applied.
type Result struct {
	NeedsFix    bool
	FixedCode   *string
	Explanation string
	Changes     []string
	LineChanges []patch.Edit
	Strategy    reply.Strategy
}

// Generator produces fixes for single files.
type Generator struct {
	client   llm.Client
	prompts  prompt.Library
	opts     Options
	progress io.Writer
}

// New creates a Generator.
func New(client llm.Client, prompts prompt.Library, opts Options) *Generator {
	return &Generator{client: client, prompts: prompts, opts: opts}
}

// SetProgress sets a writer for live progress output (e.g. os.Stderr).
func (g *Generator) SetProgress(w io.Writer) {
	g.progress = w
}

func (g *Generator) logf(format string, args ...interface{}) {
	if g.progress != nil {
		fmt.Fprintf(g.progress, "  → "+format+"\n", args...)
	}
}

// GenerateFix never fails: transport and patch errors come back as a
// Result with NeedsFix false and the cause in Explanation.
func (g *Generator) GenerateFix(ctx context.Context, file jobs.FileReference, question, summary string) *Result {
	listing := Number(file.SourceCode, g.opts.MaxCodeChars)

	vars := prompt.Vars{
		"question":      question,
		"issue_summary": summary,
		"file_name":     file.FileName,
		"file_summary":  file.Summary,
		"code":          listing.Text,
	}
	if listing.Truncated() {
		vars["visible_lines"] = strconv.Itoa(listing.Visible)
		vars["total_lines"] = strconv.Itoa(listing.Total)
		g.logf("%s: showing %d of %d lines", file.FileName, listing.Visible, listing.Total)
	}
	text, err := g.prompts.Render(prompt.Fix, vars)
	if err != nil {
		return failed(fmt.Sprintf("Error generating fix: %v", err))
	}

	raw, err := g.client.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		g.logf("%s: model error: %v", file.FileName, err)
		return failed(fmt.Sprintf("Error generating fix: %v", err))
	}

	parsed := reply.ParseFix(raw)
	if parsed.Strategy != reply.StrategyStrict {
		g.logf("%s: reply parsed with %s strategy", file.FileName, parsed.Strategy)
	}
	return g.resolve(file, parsed, listing)
}

// resolve turns a parsed reply into a Result, applying the edits.
func (g *Generator) resolve(file jobs.FileReference, parsed *reply.FixReply, listing Listing) *Result {
	r := &Result{
		NeedsFix:    parsed.NeedsFix,
		Explanation: parsed.Explanation,
		Changes:     parsed.Changes,
		LineChanges: []patch.Edit{},
		Strategy:    parsed.Strategy,
	}
	if !r.NeedsFix {
		return r
	}
	if len(parsed.LineChanges) == 0 {
		g.logf("%s: fix requested without line changes", file.FileName)
		return r
	}

	edits := parsed.LineChanges
	if listing.Truncated() {
		var kept []patch.Edit
		for _, e := range edits {
			if e.LineNumber <= listing.Visible {
				kept = append(kept, e)
			}
		}
		if dropped := len(edits) - len(kept); dropped > 0 {
			r.Explanation += fmt.Sprintf(" (ignored %d line changes beyond line %d)", dropped, listing.Visible)
		}
		edits = kept
	}

	report := patch.ApplyReport(file.SourceCode, edits)
	if len(report.Applied) == 0 {
		g.logf("%s: none of %d line changes could be applied", file.FileName, len(parsed.LineChanges))
	} else {
		g.logf("%s: applied %d line changes", file.FileName, len(report.Applied))
		r.LineChanges = report.Applied
	}
	if n := len(report.Skipped); n > 0 {
		g.logf("%s: skipped %d line changes", file.FileName, n)
	}
	fixed := report.Text
	r.FixedCode = &fixed
	return r
}

func failed(explanation string) *Result {
	return &Result{
		Explanation: explanation,
		Changes:     []string{},
		LineChanges: []patch.Edit{},
		Strategy:    reply.StrategyNone,
	}
}

// Listing is a line-numbered rendering of a file.
type Listing struct {
	Text    string
	Visible int
	Total   int
}

// Truncated reports whether some lines were left out.
func (l Listing) Truncated() bool {
	return l.Visible < l.Total
}

// Number renders source as "N: line" rows. When maxChars is positive the
// listing stops at the last whole row that fits, so line numbers in the
// reply always refer to rows the model actually saw.
func Number(source string, maxChars int) Listing {
	lines := strings.Split(source, "\n")
	var b strings.Builder
	visible := 0
	for i, line := range lines {
		row := strconv.Itoa(i+1) + ": " + line
		size := len(row)
		if i > 0 {
			size++
		}
		if maxChars > 0 && b.Len()+size > maxChars && visible > 0 {
			break
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(row)
		visible++
	}
	return Listing{Text: b.String(), Visible: visible, Total: len(lines)}
}
