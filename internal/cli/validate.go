package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storyreel/internal/config"
	"storyreel/pkg/compfile"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the project config and composition file",
		RunE:  runValidate,
	}
}

type validateFinding struct {
	Source  string `json:"source"` // "config" or "composition"
	Level   string `json:"level"`
	Line    int    `json:"line,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func runValidate(cmd *cobra.Command, _ []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	findings := collectFindings(p)

	if outputJSON {
		if err := writeValidateJSON(cmd, p.pp.Root, findings); err != nil {
			return err
		}
	} else {
		writeValidateTable(cmd, p.pp.Root, findings)
	}

	errCount := 0
	for _, f := range findings {
		if f.Level == "error" {
			errCount++
		}
	}
	if errCount > 0 {
		return fmt.Errorf("validation failed with %d error(s)", errCount)
	}
	return nil
}

func collectFindings(p project) []validateFinding {
	var findings []validateFinding
	for _, r := range p.cfg.ValidateStrict(p.pp.Root) {
		findings = append(findings, validateFinding{Source: "config", Level: r.Level, Message: r.Message})
	}

	_, err := p.loadComposition()
	var issues compfile.ValidationErrors
	switch {
	case err == nil:
	case errors.As(err, &issues):
		for _, issue := range issues {
			findings = append(findings, validateFinding{
				Source:  "composition",
				Level:   "error",
				Line:    issue.Line,
				Field:   issue.Field,
				Message: issue.Message,
			})
		}
	default:
		findings = append(findings, validateFinding{Source: "composition", Level: "error", Message: err.Error()})
	}
	return findings
}

func writeValidateTable(cmd *cobra.Command, projectName string, findings []validateFinding) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Project: %s\n", projectName)
	if len(findings) == 0 {
		fmt.Fprintln(out, "No issues found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "LEVEL\tSOURCE\tLINE\tFIELD\tMESSAGE")
	for _, f := range findings {
		line := "-"
		if f.Line > 0 {
			line = fmt.Sprintf("%d", f.Line)
		}
		field := f.Field
		if field == "" {
			field = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Level, f.Source, line, field, f.Message)
	}
	w.Flush()
}

func writeValidateJSON(cmd *cobra.Command, projectName string, findings []validateFinding) error {
	payload := struct {
		Project  string            `json:"project"`
		Valid    bool              `json:"valid"`
		Findings []validateFinding `json:"findings"`
	}{
		Project:  projectName,
		Valid:    !hasErrorFindings(findings),
		Findings: findings,
	}
	if payload.Findings == nil {
		payload.Findings = []validateFinding{}
	}

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode validate json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func hasErrorFindings(findings []validateFinding) bool {
	results := make([]config.ValidationResult, len(findings))
	for i, f := range findings {
		results[i] = config.ValidationResult{Level: f.Level, Message: f.Message}
	}
	return config.HasErrors(results)
}
