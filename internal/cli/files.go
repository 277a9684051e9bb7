package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/binpatch/bindiff"
)

func runGenerate(oldPath, newPath, patchPath string, blockSize int) error {
	ref, err := os.ReadFile(oldPath) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("reading old file: %w", err)
	}
	target, err := os.ReadFile(newPath) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("reading new file: %w", err)
	}

	patchFile, err := os.Create(patchPath) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("creating patch file: %w", err)
	}
	defer patchFile.Close()

	opts := &bindiff.GenerateOptions{BlockSize: blockSize}
	if err := bindiff.Generate(ref, target, opts, patchFile); err != nil {
		return err
	}
	return patchFile.Close()
}

func runApply(oldPath, newPath, patchPath string) error {
	oldFile, err := os.Open(oldPath) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("opening old file: %w", err)
	}
	defer oldFile.Close()

	patchFile, err := os.Open(patchPath) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		return fmt.Errorf("opening patch file: %w", err)
	}
	defer patchFile.Close()

	outPath := newPath
	if info, err := os.Stat(newPath); err == nil && info.IsDir() {
		f, err := os.CreateTemp(newPath, "bindiffapply-*.tmp")
		if err != nil {
			return fmt.Errorf("creating output in target directory: %w", err)
		}
		outPath = f.Name()
		_ = f.Close()
		_ = os.Remove(outPath)
	}

	var buf bytes.Buffer
	if err := bindiff.Apply(oldFile, patchFile, &buf, bindiff.DefaultApplyOptions()); err != nil {
		return err
	}

	absOut, err := filepath.Abs(outPath)
	if err != nil {
		absOut = outPath
	}
	return atomic.WriteFile(absOut, bytes.NewReader(buf.Bytes()))
}
