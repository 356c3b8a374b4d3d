package mhf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Runtime starts the game from a launch configuration. Run blocks until
// the game exits. An error means the handoff itself failed, which the
// launcher cannot recover from.
type Runtime interface {
	Run(cfg Config) error
}

// ProcessRuntime hands off by spawning the loader executable with the
// configuration as JSON on stdin. Stdout and stderr are inherited, the
// loader owns the console from that point on.
type ProcessRuntime struct {
	LoaderPath string
}

func (r *ProcessRuntime) Run(cfg Config) error {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("mhf: encode config: %w", err)
	}

	cmd := exec.Command(r.LoaderPath)
	cmd.Dir = cfg.Folder
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("mhf: run loader %s: %w", r.LoaderPath, err)
	}
	return nil
}
