package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// DataFileName is the name of the task file inside the data directory.
const DataFileName = "today.json"

// Repository loads and saves the complete task list.
type Repository interface {
	Load() ([]Task, error)
	Save(tasks []Task) error
}

// JSONRepository keeps tasks in a single JSON file.
type JSONRepository struct {
	Path string
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{Path: path}
}

// Load reads the task file. A missing file is an empty list.
func (r *JSONRepository) Load() ([]Task, error) {
	b, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Task{}, nil
		}
		return nil, fmt.Errorf("read task file %s: %w", r.Path, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return []Task{}, nil
	}
	if err := validateTaskFile(b); err != nil {
		return nil, fmt.Errorf("task file %s: %w", r.Path, err)
	}
	var tasks []Task
	if err := json.Unmarshal(b, &tasks); err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", r.Path, err)
	}
	return tasks, nil
}

// Save replaces the task file atomically, creating its directory if needed.
func (r *JSONRepository) Save(tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal tasks: %w", err)
	}
	data = append(data, '\n')
	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create directory %s: %w", dir, err)
	}
	if err := atomic.WriteFile(r.Path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("could not save to file %s: %w", r.Path, err)
	}
	return nil
}

const taskSchemaURL = "today-tasks.schema.json"

const taskSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name"],
    "properties": {
      "id": {"type": "string", "pattern": "^([0-9a-f]{32}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$"},
      "name": {"type": "string", "pattern": "\\S"},
      "due": {
        "oneOf": [
          {"type": "null"},
          {"type": "string", "format": "date-time"}
        ]
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	taskSchema *jsonschema.Schema
	schemaErr  error
)

func compiledTaskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		taskSchema, schemaErr = compiler.Compile(taskSchemaURL)
	})
	return taskSchema, schemaErr
}

// ValidationError lists schema violations found in a task file.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid task file: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func validateTaskFile(data []byte) error {
	schema, err := compiledTaskSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return &ValidationError{Problems: collectSchemaProblems(ve)}
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func collectSchemaProblems(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var out []string
	for _, cause := range ve.Causes {
		out = append(out, collectSchemaProblems(cause)...)
	}
	return out
}
