// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// configdoc generates markdown documentation from Go struct tags.
// Usage: go run ./cmd/configdoc > doc/CONFIG_REFERENCE.md
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aplane-algo/secfield/internal/util"
)

// EnvVar represents an environment variable configuration
type EnvVar struct {
	Name        string
	Description string
	UsedBy      string
}

var codePointType = reflect.TypeOf(util.CodePoint(0))

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		fmt.Println("Usage: go run ./cmd/configdoc > doc/CONFIG_REFERENCE.md")
		fmt.Println()
		fmt.Println("Generates markdown documentation from Go struct tags.")
		return
	}
	if err := writeDoc(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func writeDoc(w io.Writer) error {
	fmt.Fprintln(w, "# Configuration Reference")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Auto-generated from Go struct tags. Do not edit manually.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Secure Field Configuration")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: `%s` in the data directory. Changes are picked up while a binary runs and apply to fields created afterwards.\n", util.ConfigFileName)
	fmt.Fprintln(w)
	printStructTable(w, reflect.TypeOf(util.Config{}))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "### Defaults")
	fmt.Fprintln(w)
	out, err := yaml.Marshal(util.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}
	fmt.Fprintln(w, "```yaml")
	fmt.Fprint(w, string(out))
	fmt.Fprintln(w, "```")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Environment Variables")
	fmt.Fprintln(w)
	printEnvVars(w)
	return nil
}

func printStructTable(w io.Writer, t reflect.Type) {
	fmt.Fprintln(w, "| Field | Type | Default | Description |")
	fmt.Fprintln(w, "|-------|------|---------|-------------|")
	printStructRows(w, t, "")
}

func printStructRows(w io.Writer, t reflect.Type, prefix string) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		// Handle tag options like "omitempty"
		fieldName := strings.Split(tag, ",")[0]
		if prefix != "" {
			fieldName = prefix + "." + fieldName
		}

		desc := field.Tag.Get("description")
		if desc == "" {
			desc = "(no description)"
		}

		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			fmt.Fprintf(w, "| `%s` | object | (none) | %s |\n", fieldName, desc)
			printStructRows(w, ft, fieldName)
			continue
		}

		def := field.Tag.Get("default")
		switch def {
		case "":
			def = "(none)"
		case `""`:
			def = "(empty string)"
		}

		fmt.Fprintf(w, "| `%s` | %s | `%s` | %s |\n", fieldName, formatType(field.Type), def, desc)
	}
}

func formatType(t reflect.Type) string {
	if t == codePointType {
		return "code point (`U+XXXX` or `0xXXXX`)"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		return "[]" + formatType(t.Elem())
	case reflect.Ptr:
		return "*" + formatType(t.Elem())
	default:
		return t.String()
	}
}

func printEnvVars(w io.Writer) {
	envVars := []EnvVar{
		{"SECFIELD_DATA", "Data directory holding secfield.yaml (default ~/.secfield)", "secfield, secprompt, secscript"},
		{"SECFIELD_DEBUG", "Set to any value to enable debug logging", "secfield, secprompt, secscript"},
		{"SECFIELD_NO_MLOCK", "Set to any value to skip locking process memory", "secfield, secprompt, secscript"},
	}

	fmt.Fprintln(w, "| Variable | Description | Used By |")
	fmt.Fprintln(w, "|----------|-------------|---------|")

	for _, env := range envVars {
		fmt.Fprintf(w, "| `%s` | %s | %s |\n", env.Name, env.Description, env.UsedBy)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "### Data Directory Resolution")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. `-d <path>` flag")
	fmt.Fprintln(w, "2. `SECFIELD_DATA` environment variable")
	fmt.Fprintln(w, "3. `~/.secfield`")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "A missing directory or file means built-in defaults.")
}
