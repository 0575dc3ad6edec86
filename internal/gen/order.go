package gen

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"typewriter/internal/diagnostic"
	"typewriter/internal/typemap"
)

// Order selects the order of declarations in generated files.
type Order string

const (
	OrderAlpha      Order = "alpha"
	OrderSource     Order = "source"
	OrderDependency Order = "dependency"
)

// ParseOrder parses an order name. The empty string selects OrderAlpha.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderAlpha, nil
	case OrderAlpha, OrderSource, OrderDependency:
		return o, nil
	default:
		return "", fmt.Errorf("unknown order %q (want alpha, source or dependency)", s)
	}
}

// SortDecls returns the declarations in the given order. The input slice is
// not modified.
func SortDecls(decls []typemap.Decl, order Order) ([]typemap.Decl, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	out := make([]typemap.Decl, len(decls))
	copy(out, decls)

	switch order {
	case OrderSource:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })

		return out, diags

	case OrderDependency:
		sortAlpha(out)

		sorted, err := sortByDependency(out)
		if err == nil {
			return sorted, diags
		}

		if !errors.Is(err, errCycle) {
			diags.AddError(diagnostic.CodeCycle, err.Error(), "", "")
			return out, diags
		}

		diags.AddInfo(diagnostic.CodeCycle,
			"declarations reference each other in a cycle, using alphabetical order", "", "")

		return out, diags

	default:
		sortAlpha(out)

		return out, diags
	}
}

func sortAlpha(decls []typemap.Decl) {
	sort.SliceStable(decls, func(i, j int) bool { return decls[i].Name < decls[j].Name })
}

// sortByDependency orders referenced declarations first. Ties keep the
// input order.
func sortByDependency(decls []typemap.Decl) ([]typemap.Decl, error) {
	index := make(map[string]int, len(decls))
	for i := range decls {
		index[decls[i].Name] = i
	}

	order, err := topoSort(len(decls), func(i int) []int {
		var deps []int

		for _, ref := range decls[i].Type.Refs() {
			if j, ok := index[ref]; ok && j != i {
				deps = append(deps, j)
			}
		}

		return deps
	})
	if err != nil {
		return nil, err
	}

	out := make([]typemap.Decl, 0, len(decls))
	for _, i := range order {
		out = append(out, decls[i])
	}

	return out, nil
}
