// Package astroenv populates a settings struct from environment
// variables (and an optional .env file) using `env` tags.
//
// Tag format:
//
//	`env:"ENV_KEY"`           → required, error if missing
//	`env:"ENV_KEY,default"`   → optional, uses default if missing
//
// Supported field types: string, int, bool, float64. Nested structs are
// walked recursively.
package astroenv

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load fills cfg (a pointer to a struct) from the environment. A .env
// file in the working directory is applied first when present; its
// absence is not an error for a tool that usually runs from cron.
func Load(cfg interface{}) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("astroenv: expected a pointer to a struct, got %T", cfg)
	}

	return parseStruct(v.Elem())
}

// parseStruct walks every field, resolving its `env` tag; nested
// structs recurse.
func parseStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := parseStruct(field); err != nil {
				return err
			}
			continue
		}

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			continue
		}

		key, defaultVal, hasDefault := parseTag(tag)

		rawVal, err := resolveValue(key, defaultVal, hasDefault, fieldType.Name)
		if err != nil {
			return err
		}

		if err := setField(field, fieldType.Name, rawVal); err != nil {
			return err
		}
	}

	return nil
}

// parseTag splits "ENV_KEY,default_value" into its parts.
func parseTag(tag string) (key, defaultVal string, hasDefault bool) {
	parts := strings.SplitN(tag, ",", 2)
	key = strings.TrimSpace(parts[0])

	if len(parts) == 2 {
		return key, strings.TrimSpace(parts[1]), true
	}
	return key, "", false
}

// resolveValue looks up the env var, falls back to the default, and
// errors when a required value is missing.
func resolveValue(key, defaultVal string, hasDefault bool, fieldName string) (string, error) {
	if val := os.Getenv(key); val != "" {
		return val, nil
	}
	if hasDefault {
		return defaultVal, nil
	}
	return "", fmt.Errorf("missing required env variable %q (for field %q)", key, fieldName)
}

// setField converts the raw string to the field's type and sets it.
func setField(field reflect.Value, fieldName, rawVal string) error {
	switch field.Kind() {

	case reflect.String:
		field.SetString(rawVal)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(rawVal, 10, 64)
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as int: %w", fieldName, rawVal, err)
		}
		field.SetInt(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(rawVal)
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as bool (use true/false/1/0): %w", fieldName, rawVal, err)
		}
		field.SetBool(b)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(rawVal, 64)
		if err != nil {
			return fmt.Errorf("field %q: cannot parse %q as float: %w", fieldName, rawVal, err)
		}
		field.SetFloat(f)

	default:
		return fmt.Errorf("field %q: unsupported type %s", fieldName, field.Kind())
	}

	return nil
}
