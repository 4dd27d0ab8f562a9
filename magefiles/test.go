//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Vets the module, then runs every test with the race detector.
func (Test) All() error {
	if err := goVet(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "-race", "-count=1", "./..."), withEnv("CGO_ENABLED=1"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the cost formula tests only.
func (Test) Cost() error {
	if _, err := executeCmd("go", withArgs("test", "-count=1", "./..."), withDir("engine/cost"), withStream()); err != nil {
		return err
	}
	return nil
}
