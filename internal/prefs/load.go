package prefs

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError reports preferences that do not satisfy the schema.
type ValidationError struct {
	Path    string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid preferences %s: %s", e.Path, e.Message)
	}
	return "invalid preferences: " + e.Message
}

// Load reads a YAML preferences file. Missing keys keep their defaults.
func Load(path string) (Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to read preferences file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML preferences, validating them against the embedded CUE
// schema before decoding.
func Parse(data []byte) (Preferences, error) {
	if err := validate(data); err != nil {
		return Preferences{}, err
	}

	p := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Preferences{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return p, nil
}

// validate unifies the raw YAML document with #Preferences.
func validate(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		return nil // Empty file: all defaults
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile preferences schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Preferences"))

	value := def.Unify(ctx.Encode(raw))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return toValidationError(err)
	}
	return nil
}

func toValidationError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}
	first := errs[0]
	format, args := first.Msg()
	return &ValidationError{
		Path:    cue.MakePath(selectors(first.Path())...).String(),
		Message: fmt.Sprintf(format, args...),
	}
}

func selectors(path []string) []cue.Selector {
	sels := make([]cue.Selector, 0, len(path))
	for _, p := range path {
		if p == "#Preferences" {
			continue
		}
		sels = append(sels, cue.Str(p))
	}
	return sels
}
