package main

import (
	"io"
	"os"
	"time"

	leet2tex "github.com/alnah/go-leet2tex"
	"github.com/alnah/go-leet2tex/internal/pipeline"
)

// Environment holds injectable dependencies for testability.
// Nil Source and Converter are built from the resolved configuration.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	Source    leet2tex.Source
	Converter pipeline.LatexConverter
	LookPath  func(file string) (string, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:      time.Now,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		LookPath: lookPath,
	}
}
