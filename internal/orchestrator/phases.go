package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/lang"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/llm"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/prompt"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/reply"
	"github.com/Aakash231217/OEngine-CodingAgent/internal/repoctx"
)

const (
	missingContent     = "// Original file content not available"
	defaultInstruction = "Generate appropriate modifications based on the type and reason."
)

// createFile generates the content of one planned file.
func (o *Orchestrator) createFile(ctx context.Context, question string, rc *repoctx.Context, spec reply.NewFileSpec) (jobs.CreatedFile, error) {
	text, err := o.prompts.Render(prompt.Generate, generateVars(rc, spec, question))
	if err != nil {
		return jobs.CreatedFile{}, fmt.Errorf("build generate prompt for %s: %w", spec.Path, err)
	}
	raw, err := o.client.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return jobs.CreatedFile{}, fmt.Errorf("generate %s: %w", spec.Path, err)
	}

	r := reply.ParseFile(raw)
	if r.Code == "" {
		o.logf("%s: model returned no code (%s)", spec.Path, r.Strategy)
	} else {
		o.logf("%s: generated %d bytes (%s)", spec.Path, len(r.Code), r.Strategy)
	}
	explanation := r.Explanation
	if explanation == "" {
		explanation = "New file created as part of orchestrated implementation"
	}
	return jobs.CreatedFile{
		FileName:     spec.Path,
		Content:      r.Code,
		Explanation:  explanation,
		FileType:     spec.Type,
		Dependencies: mergeDeps(spec.Dependencies, r.Dependencies),
	}, nil
}

// generateVars fills the generate prompt for the repository's language.
// JavaScript and TypeScript share one entry and also get project context.
func generateVars(rc *repoctx.Context, spec reply.NewFileSpec, question string) prompt.Vars {
	conv := lang.Lookup(rc.PrimaryLanguage)
	name := conv.DisplayName
	vars := prompt.Vars{
		"file_type":   spec.Type,
		"file_path":   spec.Path,
		"description": spec.Description,
		"question":    question,
		"naming":      conv.NamingList(),
	}
	if conv.Key == lang.Fallback {
		name = "JavaScript"
		if rc.Patterns.UseTypeScript {
			name = "TypeScript"
		}
		frameworks := strings.Join(rc.Frameworks, ", ")
		if frameworks == "" {
			frameworks = "javascript"
		}
		vars["project_frameworks"] = frameworks
		vars["uses_typescript"] = strconv.FormatBool(rc.Patterns.UseTypeScript)
	}
	vars["language_name"] = name
	vars["requirements"] = conv.NumberedRequirements(name)
	return vars
}

// mergeDeps keeps declared dependencies first, then any the model added.
func mergeDeps(declared, generated []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, list := range [][]string{declared, generated} {
		for _, d := range list {
			d = strings.TrimSpace(d)
			if d == "" || seen[d] {
				continue
			}
			seen[d] = true
			out = append(out, d)
		}
	}
	return out
}

// modifyFile fetches the current body of a file and asks the model for a
// full replacement. A fetch failure proceeds with a placeholder body; an
// unreadable reply keeps the original body and records the reason.
func (o *Orchestrator) modifyFile(ctx context.Context, question string, project *jobs.Project, m reply.FileModification) (jobs.ModifiedFile, error) {
	if project == nil {
		o.logf("%s: project not found", m.Path)
		return jobs.ModifiedFile{
			FileName:    m.Path,
			Changes:     []jobs.FileChange{},
			Explanation: "Project not found",
			Summary:     "Project not found",
			Type:        "MODIFY",
		}, nil
	}

	original, err := o.gh.GetContent(project.Owner, project.Repo, m.Path, project.AccessToken)
	if err != nil {
		o.logf("%s: could not fetch original content: %v", m.Path, err)
		original = missingContent
	}

	instructions := defaultInstruction
	if len(m.Changes) > 0 {
		instructions = strings.Join(m.Changes, ", ")
	}
	text, err := o.prompts.Render(prompt.Modify, prompt.Vars{
		"file_path":         m.Path,
		"modification_type": "modify",
		"reason":            m.Reason,
		"question":          question,
		"instructions":      instructions,
		"original_code":     original,
	})
	if err != nil {
		return jobs.ModifiedFile{}, fmt.Errorf("build modify prompt for %s: %w", m.Path, err)
	}
	raw, err := o.client.Complete(ctx, llm.Request{
		Prompt:      text,
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.ModifyMaxTokens,
	})
	if err != nil {
		return jobs.ModifiedFile{}, fmt.Errorf("modify %s: %w", m.Path, err)
	}

	r, err := reply.ParseModify(raw)
	if err != nil {
		o.logf("%s: modification reply unusable, keeping original: %v", m.Path, err)
		return jobs.ModifiedFile{
			FileName:     m.Path,
			OriginalCode: original,
			FixedCode:    original,
			Changes:      []jobs.FileChange{{LineNumber: 1, Type: "modify", Reason: m.Reason}},
			Explanation:  m.Reason,
			Summary:      fmt.Sprintf("Need to manually modify %s", m.Path),
			Type:         "MODIFY",
		}, nil
	}

	explanation := r.Explanation
	if explanation == "" {
		explanation = "File updated for orchestrated integration"
	}
	summary := r.Summary
	if summary == "" {
		summary = fmt.Sprintf("Modified %s", m.Path)
	}
	return jobs.ModifiedFile{
		FileName:     m.Path,
		OriginalCode: original,
		FixedCode:    r.FixedCode,
		Changes:      r.Changes,
		Explanation:  explanation,
		Summary:      summary,
		Type:         "MODIFY",
	}, nil
}

// dependencyChange transcribes one manifest update. Every package reason is
// kept; the first non-empty one is the representative explanation.
func dependencyChange(d reply.DependencyUpdate) jobs.DependencyChange {
	reasons := []string{}
	for _, p := range d.Packages {
		if strings.TrimSpace(p.Reason) != "" {
			reasons = append(reasons, p.Reason)
		}
	}
	explanation := "Dependencies added for new feature"
	if len(reasons) > 0 {
		explanation = reasons[0]
	}
	pkgs := d.Packages
	if pkgs == nil {
		pkgs = []jobs.Package{}
	}
	return jobs.DependencyChange{
		FileName:     d.File,
		Dependencies: pkgs,
		Explanation:  explanation,
		Reasons:      reasons,
	}
}
