package config

import (
	"fmt"
	"strings"
)

// Validate checks the pipeline for:
//   - Required fields (version, step ids, run commands)
//   - Duplicate step ids
//   - After references that are unknown, forward, or self-referential
//
// Forward references are rejected rather than resolved: declaration
// order is what makes cycles unrepresentable.
func Validate(p *Pipeline) error {
	if p.Version == "" {
		return fmt.Errorf("config: version is required")
	}
	if len(p.Steps) == 0 {
		return fmt.Errorf("config: at least one step is required")
	}

	var errs []string
	declared := make(map[string]bool, len(p.Steps))

	for i, step := range p.Steps {
		if step.ID == "" {
			errs = append(errs, fmt.Sprintf("steps[%d]: id is required", i))
			continue
		}
		if declared[step.ID] {
			errs = append(errs, fmt.Sprintf("steps[%d]: duplicate id %q", i, step.ID))
		}
		if step.Run == "" {
			errs = append(errs, fmt.Sprintf("step %s: run is required", step.ID))
		}
		seen := make(map[string]bool, len(step.After))
		for _, ref := range step.After {
			switch {
			case ref == step.ID:
				errs = append(errs, fmt.Sprintf("step %s: after references itself", step.ID))
			case !declared[ref]:
				errs = append(errs, fmt.Sprintf("step %s: after references %q, which is not declared earlier", step.ID, ref))
			case seen[ref]:
				errs = append(errs, fmt.Sprintf("step %s: duplicate after reference %q", step.ID, ref))
			}
			seen[ref] = true
		}
		declared[step.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
