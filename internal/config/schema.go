// Package config loads declarative pipeline files and assembles them
// into dependency graphs. A pipeline file is YAML:
//
//	version: "1"
//	name: release
//	steps:
//	  - id: checkout
//	    run: git clone https://example.com/repo.git .
//	  - id: build
//	    run: make build
//	    after: [checkout]
//	  - id: vet
//	    run: make vet
//	    after: [checkout]
//	  - id: package
//	    run: make package
//	    after: [build, vet]
//
// A step's after list may only name steps declared earlier in the file,
// so a pipeline file cannot express a cycle.
package config

// Pipeline is the top-level document of a pipeline file.
type Pipeline struct {
	Version string `yaml:"version"`
	Name    string `yaml:"name"`
	Steps   []Step `yaml:"steps"`
}

// Step is one unit of work: a shell command plus the ids of the steps
// it must run after. An empty After makes it a root.
type Step struct {
	ID    string   `yaml:"id"`
	Run   string   `yaml:"run"`
	After []string `yaml:"after,omitempty"`
}
