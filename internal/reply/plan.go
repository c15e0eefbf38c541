package reply

import (
	"strings"

	"github.com/Aakash231217/OEngine-CodingAgent/internal/jobs"
)

// NewFileSpec describes a file the plan wants created.
type NewFileSpec struct {
	Path         string
	Type         string
	Description  string
	Priority     string
	Dependencies []string
}

// FileModification describes an existing file the plan wants changed.
type FileModification struct {
	Path    string
	Reason  string
	Changes []string
}

// DependencyUpdate lists packages to add to one manifest.
type DependencyUpdate struct {
	File     string
	Packages []jobs.Package
}

// ConfigChange lists changes to one configuration file.
type ConfigChange struct {
	File    string
	Changes []string
}

// Plan is a cross-file implementation plan.
type Plan struct {
	NewFiles             []NewFileSpec
	ModifiedFiles        []FileModification
	DependencyUpdates    []DependencyUpdate
	ConfigurationChanges []ConfigChange
	IntegrationSteps     []string
}

// Empty reports whether the plan has nothing to execute. Integration steps
// are advisory and do not count.
func (p *Plan) Empty() bool {
	return p == nil || len(p.NewFiles)+len(p.ModifiedFiles)+len(p.DependencyUpdates)+len(p.ConfigurationChanges) == 0
}

// Steps is the total step count used for progress weighting.
func (p *Plan) Steps() int {
	if p == nil {
		return 0
	}
	return len(p.NewFiles) + len(p.ModifiedFiles) + len(p.DependencyUpdates) +
		len(p.ConfigurationChanges) + len(p.IntegrationSteps)
}

// PlanReply is the planner's answer. Plan is nil when the reply could not
// be read or carried no plan.
type PlanReply struct {
	NeedsNewFiles bool
	Reasoning     string
	Summary       string
	Plan          *Plan
	Strategy      Strategy
}

// ParsePlan reads a planning reply using the strict and repaired tiers only.
// An unreadable reply yields a PlanReply with a nil Plan.
func ParsePlan(text string) *PlanReply {
	m, strategy, err := ParseObject(strings.TrimSpace(text))
	if err != nil {
		return &PlanReply{}
	}
	r := &PlanReply{
		NeedsNewFiles: asBool(m["needsNewFiles"]),
		Reasoning:     asString(m["reasoning"], ""),
		Summary:       asString(m["summary"], ""),
		Strategy:      strategy,
	}
	if pm, ok := m["orchestratedPlan"].(map[string]any); ok {
		r.Plan = planFrom(pm)
	}
	return r
}

func planFrom(m map[string]any) *Plan {
	p := &Plan{IntegrationSteps: asStringSlice(m["integrationSteps"])}
	for _, o := range asObjects(m["newFiles"]) {
		path := strings.TrimSpace(asString(o["path"], ""))
		if path == "" {
			continue
		}
		p.NewFiles = append(p.NewFiles, NewFileSpec{
			Path:         path,
			Type:         asString(o["type"], "component"),
			Description:  asString(o["description"], "Generated component"),
			Priority:     asString(o["priority"], "medium"),
			Dependencies: asStringSlice(o["dependencies"]),
		})
	}
	for _, o := range asObjects(m["modifiedFiles"]) {
		path := strings.TrimSpace(asString(o["path"], ""))
		if path == "" {
			continue
		}
		p.ModifiedFiles = append(p.ModifiedFiles, FileModification{
			Path:    path,
			Reason:  asString(o["reason"], ""),
			Changes: asStringSlice(o["changes"]),
		})
	}
	for _, o := range asObjects(m["dependencyUpdates"]) {
		file := asString(o["file"], "")
		if file == "" {
			continue
		}
		u := DependencyUpdate{File: file, Packages: []jobs.Package{}}
		for _, pkg := range asObjects(o["packages"]) {
			u.Packages = append(u.Packages, jobs.Package{
				Name:    asString(pkg["name"], ""),
				Version: asString(pkg["version"], ""),
				Reason:  asString(pkg["reason"], ""),
			})
		}
		p.DependencyUpdates = append(p.DependencyUpdates, u)
	}
	for _, o := range asObjects(m["configurationChanges"]) {
		file := asString(o["file"], "")
		if file == "" {
			continue
		}
		p.ConfigurationChanges = append(p.ConfigurationChanges, ConfigChange{
			File:    file,
			Changes: asStringSlice(o["changes"]),
		})
	}
	return p
}
