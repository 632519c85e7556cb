package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/singlekey/query"
	"github.com/s0up4200/singlekey/singlekey"
)

// loadInput decodes a YAML or JSON request file into v. Fields absent from
// the file keep the values already set in v.
func loadInput(path string, v any) error {
	if path == "" {
		return errors.New("--input is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse input %s: %w", path, err)
	}
	return nil
}

// printResult writes result as indented JSON, or the value of expression
// evaluated against it when one is given
func printResult(w io.Writer, result singlekey.Result, expression string) error {
	var out any = result
	if expression != "" {
		value, err := query.Evaluate(expression, result)
		if err != nil {
			return err
		}
		out = value
	}
	return printJSON(w, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// printError reports err on w, listing each validation problem on its own line
func printError(w io.Writer, err error) {
	var apiErr *singlekey.Error
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Error (%s): %s\n", apiErr.Kind, apiErr.Message)
	for _, e := range apiErr.Errors {
		fmt.Fprintf(w, "  - %s\n", e)
	}
}
