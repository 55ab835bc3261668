package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Simplici0/docquote/internal/pricing"
)

// loadInputs reads a YAML inputs file over the default inputs. Keys missing
// from the file keep their default value; unknown keys are an error.
func loadInputs(path string) (pricing.Inputs, error) {
	in := pricing.DefaultInputs()
	if path == "" {
		return in, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pricing.Inputs{}, fmt.Errorf("read inputs: %w", err)
	}
	if err := decodeInputs(data, &in); err != nil {
		return pricing.Inputs{}, fmt.Errorf("parse inputs %s: %w", path, err)
	}
	return in, nil
}

func decodeInputs(data []byte, in *pricing.Inputs) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(in); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
