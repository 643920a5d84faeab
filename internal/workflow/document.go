package workflow

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is the exported form of an approved or generated workflow.
type Document struct {
	Prompt     string     `yaml:"prompt"`
	ApprovedAt *time.Time `yaml:"approved_at,omitempty"`
	Steps      []Step     `yaml:"steps"`
}

// EncodeYAML writes the document as YAML.
func (d Document) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding workflow: %w", err)
	}
	return enc.Close()
}

// StepFields is the editable subset of a Step, used for external editing.
type StepFields struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Tool        string  `yaml:"tool"`
	Agent       string  `yaml:"agent"`
	Reasoning   string  `yaml:"reasoning"`
	Confidence  float64 `yaml:"confidence"`
}

// FieldsOf extracts the editable fields of s.
func FieldsOf(s Step) StepFields {
	return StepFields{
		Title:       s.Title,
		Description: s.Description,
		Tool:        s.Tool,
		Agent:       s.Agent,
		Reasoning:   s.Reasoning,
		Confidence:  s.Confidence,
	}
}

// MarshalFields renders the editable fields of s as YAML.
func MarshalFields(s Step) (string, error) {
	data, err := yaml.Marshal(FieldsOf(s))
	if err != nil {
		return "", fmt.Errorf("marshaling step: %w", err)
	}
	return string(data), nil
}

// ParseFields parses YAML produced by MarshalFields (and then edited) and
// returns a patch containing only the fields that differ from orig.
func ParseFields(content string, orig Step) (StepPatch, error) {
	var f StepFields
	if err := yaml.Unmarshal([]byte(content), &f); err != nil {
		return StepPatch{}, fmt.Errorf("parsing step: %w", err)
	}
	if !ValidConfidence(f.Confidence) {
		return StepPatch{}, ErrInvalidConfidence
	}

	var p StepPatch
	if f.Title != orig.Title {
		p.Title = Ptr(f.Title)
	}
	if f.Description != orig.Description {
		p.Description = Ptr(f.Description)
	}
	if f.Tool != orig.Tool {
		p.Tool = Ptr(f.Tool)
	}
	if f.Agent != orig.Agent {
		p.Agent = Ptr(f.Agent)
	}
	if f.Reasoning != orig.Reasoning {
		p.Reasoning = Ptr(f.Reasoning)
	}
	if f.Confidence != orig.Confidence {
		p.Confidence = Ptr(f.Confidence)
	}
	return p, nil
}
