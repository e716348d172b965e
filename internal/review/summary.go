package review

import (
	"regexp"
	"sort"
	"strings"

	"einvoice/pkg/models"
)

var businessTerm = regexp.MustCompile(`\b(BT|BG)-\d+\b`)

// IssueGroup is a set of issues sharing a business term or rule family.
type IssueGroup struct {
	Key    string
	Label  string
	Issues []models.ValidationIssue
}

// Summary is a validation report prepared for display.
type Summary struct {
	Valid     bool
	Validator string
	Errors    []IssueGroup
	Warnings  []IssueGroup

	// Inconsistent holds the reason the report contradicts itself, if it does.
	Inconsistent error
}

// Summarize groups a validation report's issues by business term, falling
// back to the rule family (e.g. BR-DE) when no term is referenced.
func Summarize(result *models.ValidationResult) Summary {
	if result == nil {
		return Summary{}
	}
	return Summary{
		Valid:        result.IsValid,
		Validator:    result.ValidatorName(),
		Errors:       group(result.Errors),
		Warnings:     group(result.Warnings),
		Inconsistent: result.Check(),
	}
}

// IssueKey returns the grouping key for a single issue.
func IssueKey(issue models.ValidationIssue) string {
	for _, s := range []string{issue.Code, issue.Location, issue.Message} {
		if term := businessTerm.FindString(s); term != "" {
			return term
		}
	}
	code := strings.TrimSpace(issue.Code)
	if code == "" {
		return "other"
	}
	if i := strings.LastIndex(code, "-"); i > 0 {
		return code[:i]
	}
	return code
}

func group(issues []models.ValidationIssue) []IssueGroup {
	if len(issues) == 0 {
		return nil
	}
	index := map[string]int{}
	var groups []IssueGroup
	for _, issue := range issues {
		key := IssueKey(issue)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, IssueGroup{Key: key, Label: labelFor(key)})
		}
		groups[i].Issues = append(groups[i].Issues, issue)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
	return groups
}

func labelFor(key string) string {
	for _, f := range models.RecognizedFields() {
		if f.BTCode == key {
			return f.Label
		}
	}
	return ""
}
