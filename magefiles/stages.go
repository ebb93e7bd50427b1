//go:build mage

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

// Pipeline runs convert and index in order.
func Pipeline() {
	mg.SerialDeps(Convert, Index)
}

// Convert converts every source under sources/ into AIR and block files.
func Convert() error {
	mg.Deps(Build)
	return runStage("convert")
}

// Index ingests converted articles into the SQLite article index.
func Index() error {
	mg.Deps(Build)
	return runStage("index", "store")
}

// Preview prints the content store payloads without sending them.
func Preview() error {
	mg.Deps(Build)
	return runStage("publish", "--dry-run")
}

func runStage(args ...string) error {
	bin := filepath.Join(binDir, binName)
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", binName, args, err)
	}
	return nil
}
