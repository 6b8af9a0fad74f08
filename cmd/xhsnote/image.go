package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/xhsnote"
)

// Run executes the image command.
func (c *ImageCmd) Run(deps *Dependencies) error {
	img, err := deps.Images.Get(deps.Ctx, c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", xhsnote.ErrorMessage(err))
		return err
	}

	if c.Out == "" {
		if _, err := deps.Stdout.Write(img.Data); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		return nil
	}

	if err := os.WriteFile(c.Out, img.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.Out, err)
	}
	fmt.Fprintf(deps.Stderr, "Wrote %d bytes (%s) to %s\n", len(img.Data), img.ContentType, c.Out)
	return nil
}
