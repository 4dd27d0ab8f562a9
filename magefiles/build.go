//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const binary = "bin/rendercost"

// Builds the rendercost command line tool into bin/.
func (Build) CLI() error {
	if _, err := executeCmd("go", withArgs("build", "-o", binary, "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy.
func (Build) Tidy() error {
	return goTidy()
}
