package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/compiler"
	"github.com/roach88/sieve/internal/rules"
)

// LoadResult contains the rule sets loaded from a directory.
type LoadResult struct {
	RuleSets  []*compiler.RuleSetSpec
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred while loading rule sets.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadRuleSets loads the CUE package in dir and compiles every rule set
// declared under its top-level "ruleset" field. A nil result means
// nothing could be compiled; otherwise errs holds per-rule-set failures.
func LoadRuleSets(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("rules directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing rules directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	specs, err := compiler.CompileRuleSets(value)
	result.RuleSets = specs
	if err != nil {
		return result, []error{convertCompileError(err)}
	}
	if len(specs) == 0 {
		return result, []error{&LoadError{Code: ErrCodeNoRuleSets, Message: "no rule sets found under \"ruleset\""}}
	}
	return result, nil
}

// loadValidRuleSets loads dir and rejects any load or validation error,
// for commands that need a usable set of rule sets.
func loadValidRuleSets(dir string) ([]*compiler.RuleSetSpec, error) {
	res, errs := LoadRuleSets(dir)
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "failed to load rule sets", errs[0])
	}
	if verrs := compiler.ValidateAll(res.RuleSets, rules.Known); len(verrs) > 0 {
		return nil, WrapExitError(ExitCommandError, "invalid rule sets", verrs[0])
	}
	return res.RuleSets, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// Error code constants shared by all CLI commands. Rule-set validation
// codes (E101-E106) come from the compiler package.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeNoRuleSets  = "E008" // No ruleset field

	ErrCodeInvalidRules       = "E110" // rules missing or not a list of strings
	ErrCodeInvalidDescription = "E111" // description not a string

	ErrCodeScenario     = "E201" // scenario cannot be loaded or run
	ErrCodeExpectations = "E202" // scenario expectations failed
	ErrCodeTestFailed   = "E203" // one or more scenarios failed
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch field {
	case "rules":
		return ErrCodeInvalidRules
	case "description":
		return ErrCodeInvalidDescription
	case "max_steps":
		return compiler.ErrInvalidMaxSteps
	case "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}
