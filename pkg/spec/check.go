package spec

import (
	"context"
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// CheckDocument runs the full OpenAPI 3 loader over raw document bytes and
// validates the result. This catches structural problems outside the
// subset Load extracts (broken refs, malformed parameter declarations) and
// backs the `oasgate check` command. Request validation itself never
// depends on this; Load alone decides what the engine enforces.
func CheckDocument(ctx context.Context, raw []byte) error {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return fmt.Errorf("invalid OpenAPI document: %w", err)
	}
	return nil
}

// CheckFile is CheckDocument over a file path.
func CheckFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read spec from file %s: %w", path, err)
	}
	if err := CheckDocument(ctx, raw); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
