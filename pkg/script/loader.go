package script

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yml
var builtinFS embed.FS

const builtinDemoPath = "builtin/cascade.yml"

// LoadDemo reads and validates a demo file.
func LoadDemo(path string) (*Demo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading demo file: %w", err)
	}
	return parseDemo(data)
}

// BuiltinDemo returns the demo shipped with the binary: the strategic
// decision cascade from Digital Twin briefing through VP rollout.
func BuiltinDemo() *Demo {
	data, err := builtinFS.ReadFile(builtinDemoPath)
	if err != nil {
		// The file is embedded at compile time.
		panic(fmt.Sprintf("builtin demo missing: %v", err))
	}
	demo, err := parseDemo(data)
	if err != nil {
		panic(fmt.Sprintf("builtin demo invalid: %v", err))
	}
	return demo
}

func parseDemo(data []byte) (*Demo, error) {
	var demo Demo
	if err := yaml.Unmarshal(data, &demo); err != nil {
		return nil, fmt.Errorf("parsing demo file: %w", err)
	}
	demo.normalize()
	if err := demo.Validate(); err != nil {
		return nil, fmt.Errorf("validating demo: %w", err)
	}
	return &demo, nil
}
