package reporter

import (
	"encoding/json"
	"io"
)

// JSONReporter outputs results as JSON
type JSONReporter struct {
	w    io.Writer
	opts Options
}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter(w io.Writer, opts Options) *JSONReporter {
	return &JSONReporter{w: w, opts: opts}
}

// JSONOutput represents the JSON output format
type JSONOutput struct {
	Files   []JSONFile `json:"files"`
	Summary Summary    `json:"summary"`
}

// JSONFile represents the result for one input in JSON format
type JSONFile struct {
	Path       string        `json:"path"`
	Report     string        `json:"report"`
	Findings   []JSONFinding `json:"findings"`
	Refactored *string       `json:"refactored,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// JSONFinding represents a finding in JSON format
type JSONFinding struct {
	Kind      string `json:"kind"`
	Rule      string `json:"rule"`
	Severity  string `json:"severity"`
	Subject   string `json:"subject"`
	Line      int    `json:"line,omitempty"`
	Measured  int    `json:"measured"`
	Threshold int    `json:"threshold"`
	Message   string `json:"message"`
	Rewrite   string `json:"rewrite"`
}

// Report outputs results as JSON
func (r *JSONReporter) Report(results []FileResult) error {
	output := JSONOutput{
		Files:   make([]JSONFile, 0, len(results)),
		Summary: ComputeSummary(results),
	}

	for _, res := range results {
		file := JSONFile{
			Path:     res.Path,
			Report:   res.Report,
			Findings: make([]JSONFinding, 0, len(res.Findings)),
		}
		if res.Err != nil {
			file.Error = res.Err.Error()
		}
		if r.opts.ShowCode && res.Regenerated {
			src := res.Refactored
			file.Refactored = &src
		}

		for _, f := range res.Findings {
			file.Findings = append(file.Findings, JSONFinding{
				Kind:      f.Kind.String(),
				Rule:      f.Rule,
				Severity:  f.Severity.String(),
				Subject:   f.Subject,
				Line:      f.Line,
				Measured:  f.Measured,
				Threshold: f.Threshold,
				Message:   f.Message,
				Rewrite:   f.Rewrite.String(),
			})
		}
		output.Files = append(output.Files, file)
	}

	encoder := json.NewEncoder(r.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
