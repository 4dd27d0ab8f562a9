//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

const sampleScene = "assets/scenes/sample.toml"

// Generates a sample scene and prints its report.
func (Run) Sample() error {
	mg.Deps(Build.CLI)

	seed := os.Getenv("SEED")
	if seed == "" {
		seed = "1"
	}
	if _, err := executeCmd(binary, withArgs("sample", "--seed", seed, "--avatars", "4", "--out", sampleScene), withStream()); err != nil {
		return err
	}
	fmt.Println("Report...")
	if _, err := executeCmd(binary, withArgs("report", sampleScene), withStream()); err != nil {
		return err
	}
	return nil
}

// Re-prints the sample report whenever the scene or its textures change.
func (Run) Watch() error {
	mg.Deps(Run.Sample)
	if _, err := executeCmd(binary, withArgs("watch", sampleScene), withStream()); err != nil {
		return err
	}
	return nil
}
