package store

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/roach88/sieve/internal/ir"
)

// marshalRules converts the rule names of a run to canonical JSON TEXT.
func marshalRules(rules []string) (string, error) {
	if rules == nil {
		rules = []string{}
	}
	data, err := ir.MarshalCanonical(rules)
	if err != nil {
		return "", errors.Wrap(err, "marshal rules")
	}
	return string(data), nil
}

func unmarshalRules(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var rules []string
	if err := json.Unmarshal([]byte(data), &rules); err != nil {
		return nil, errors.Wrap(err, "unmarshal rules")
	}
	if rules == nil {
		rules = []string{}
	}
	return rules, nil
}

// InputDigest returns the content digest stored in runs.input_hash: the
// domain-separated SHA-256 of the run kind, its rule names and the
// rendered input.
func InputDigest(kind, input string, rules []string) (string, error) {
	names := make(ir.IRArray, len(rules))
	for i, r := range rules {
		names[i] = ir.IRString(r)
	}
	return ir.Digest(ir.DomainRun, ir.IRObject{
		"input": ir.IRString(input),
		"kind":  ir.IRString(kind),
		"rules": names,
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
