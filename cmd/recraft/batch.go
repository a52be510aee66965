package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dukex/operion-recraft/pkg/binstore"
	"github.com/dukex/operion-recraft/pkg/models"
	"gopkg.in/yaml.v3"
)

// Batch is a YAML or JSON file listing the records to run.
type Batch struct {
	ContinueOnFail bool        `yaml:"continue_on_fail"`
	Items          []BatchItem `yaml:"items"`
}

// BatchItem is one record. Binary maps property names to file paths relative to the batch file.
type BatchItem struct {
	Operation string            `yaml:"operation"`
	Params    map[string]any    `yaml:"params"`
	Binary    map[string]string `yaml:"binary"`
}

// LoadBatch reads a batch file and prepares its records and binaries. A malformed operation does
// not reject the file; that record fails when the node builds it.
func LoadBatch(path string) (*Batch, []models.Item, *binstore.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse batch file %s: %w", path, err)
	}

	store := binstore.NewFile(filepath.Dir(path))
	items := make([]models.Item, 0, len(batch.Items))

	for i, entry := range batch.Items {
		for property, file := range entry.Binary {
			store.Add(i, property, file)
		}

		items = append(items, models.Item{Operation: models.ParseOperationLenient(entry.Operation), Params: entry.Params})
	}

	return &batch, items, store, nil
}
