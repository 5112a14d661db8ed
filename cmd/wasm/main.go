//go:build js && wasm

// Command wasm exposes the planner simulation to the browser via WebAssembly.
// After loading, it registers a global JavaScript function:
//
//	runSimulation(jsonString[, configYAML]) -> jsonString
//
// The input and output are JSON-encoded SimulationInput and SimulationLog, matching
// "planner simulate". The optional second argument overlays the planner configuration.
package main

import (
	"syscall/js"

	"github.com/cxd309/longplan/internal/config"
	"github.com/cxd309/longplan/internal/engine"
)

func main() {
	js.Global().Set("runSimulation", js.FuncOf(runSimulation))
	select {} // keep the WASM module alive until the page is closed
}

func runSimulation(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return map[string]any{"error": "no input provided"}
	}

	cfg := config.Default()
	if len(args) > 1 && args[1].Type() == js.TypeString {
		var err error
		if cfg, err = config.Parse([]byte(args[1].String())); err != nil {
			return map[string]any{"error": err.Error()}
		}
	}

	result, err := engine.RunJSONWithConfig(args[0].String(), cfg, engine.Options{})
	if err != nil {
		return map[string]any{"error": err.Error()}
	}
	return result
}
