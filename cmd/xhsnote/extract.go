package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/xhsnote"
)

// Run executes the extract command. Records and errors are both written to
// stdout as JSON.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	rec, err := deps.Pipeline.Extract(deps.Ctx, c.ShareText, !c.NoSaveImages)
	if err != nil {
		if encErr := enc.Encode(map[string]string{"error": xhsnote.ErrorMessage(err)}); encErr != nil {
			return fmt.Errorf("failed to write error: %w", encErr)
		}
		return err
	}

	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}
