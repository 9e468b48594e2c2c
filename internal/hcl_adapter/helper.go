package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/modelgraph/internal/ctxlog"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with non-nil,
// zero-width expression objects, so a nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		logger.Debug("Expression is nil, considering it undefined.", "attribute", attrName)
		return false
	}

	// A real attribute occupies bytes in the file, a placeholder for an
	// omitted one has a zero-width range.
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)

	return isDefined
}

// evalProperties evaluates a `properties = { ... }` expression into a map of
// cty values. Only constant expressions are supported.
func evalProperties(ctx context.Context, expr hcl.Expression, owner string) (map[string]cty.Value, error) {
	if !isExprDefined(ctx, expr, "properties") {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid properties for element '%s': %w", owner, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	t := val.Type()
	if !t.IsObjectType() && !t.IsMapType() {
		return nil, fmt.Errorf("properties of element '%s' must be an object, got %s", owner, t.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("properties of element '%s' must be known values", owner)
	}

	props := make(map[string]cty.Value, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		props[k.AsString()] = v
	}
	return props, nil
}

// sortedPropertyKeys returns the keys of props in lexical order.
func sortedPropertyKeys(props map[string]cty.Value) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
