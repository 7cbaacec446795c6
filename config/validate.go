package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("save_file", c.SaveFile, saveFilePath),
		criterio.Run("timezone", c.Timezone, timezone),
		c.validateLLM(),
	)
}

func (c *Config) validateLLM() error {
	var errs criterio.FieldErrorsBuilder
	if strings.TrimSpace(c.LLM.Model) == "" {
		errs = errs.Append("llm.model", fmt.Errorf("cannot be empty"))
	}
	if c.LLM.MaxTokens < 1 {
		errs = errs.Append("llm.max_tokens", fmt.Errorf("must be at least 1"))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = errs.Append("llm.temperature", fmt.Errorf("must be between 0 and 2"))
	}
	return errs.ToError()
}

// saveFilePath validates that the save file is a .txt file whose parent is
// a directory or does not exist yet.
func saveFilePath(path string) error {
	if !strings.HasSuffix(path, ".txt") {
		return fmt.Errorf("must end in .txt")
	}

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	dir := filepath.Dir(path)
	info, err = os.Stat(dir)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("parent %s exists but is not a directory", dir)
	}
	return nil
}

func timezone(name string) error {
	_, err := ParseTimezone(name)
	return err
}
