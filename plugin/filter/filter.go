// Package filter translates client filter expressions into store query
// conditions. Filters are CEL expressions over three variables:
//
//	date   string  ISO date, e.g. date >= "2026-08-01"
//	rating int     1..5, e.g. rating >= 4
//	note   string  supports note.contains("gym")
//
// joined with &&. Anything else is rejected with ErrInvalidFilter so the API
// layer can answer 400 instead of 500.
package filter

import (
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/ast"
	"github.com/pkg/errors"

	"github.com/Bylo24/moodtracker/analytics"
	"github.com/Bylo24/moodtracker/store"
)

// ErrInvalidFilter marks unparsable or unsupported filter expressions.
var ErrInvalidFilter = errors.New("invalid filter")

// Apply parses filterStr and tightens find with its conditions. Repeated
// bounds combine to the most restrictive; an empty filter is a no-op.
func Apply(filterStr string, find *store.FindEntry) error {
	filterStr = strings.TrimSpace(filterStr)
	if filterStr == "" {
		return nil
	}

	env, err := cel.NewEnv(
		cel.Variable("date", cel.StringType),
		cel.Variable("rating", cel.IntType),
		cel.Variable("note", cel.StringType),
	)
	if err != nil {
		return errors.Wrap(err, "failed to create CEL environment")
	}

	celAST, issues := env.Compile(filterStr)
	if issues != nil && issues.Err() != nil {
		return errors.Wrapf(ErrInvalidFilter, "%s: %v", filterStr, issues.Err())
	}

	return applyExpr(celAST.NativeRep().Expr(), find)
}

func applyExpr(expr ast.Expr, find *store.FindEntry) error {
	if expr == nil {
		return errors.Wrap(ErrInvalidFilter, "empty expression")
	}
	if expr.Kind() != ast.CallKind {
		return errors.Wrap(ErrInvalidFilter, "filter must be a comparison (e.g. rating >= 4)")
	}

	call := expr.AsCall()
	switch call.FunctionName() {
	case "_&&_":
		for _, arg := range call.Args() {
			if err := applyExpr(arg, find); err != nil {
				return err
			}
		}
		return nil
	case "contains":
		return applyContains(call, find)
	case "_==_", "_>=_", "_<=_", "_>_", "_<_":
		return applyComparison(call.FunctionName(), call.Args(), find)
	default:
		return errors.Wrapf(ErrInvalidFilter, "unsupported operator %q", call.FunctionName())
	}
}

func applyContains(call ast.CallExpr, find *store.FindEntry) error {
	target := call.Target()
	args := call.Args()
	if target == nil || target.Kind() != ast.IdentKind || target.AsIdent() != "note" {
		return errors.Wrap(ErrInvalidFilter, "contains() is only supported on note")
	}
	if len(args) != 1 || args[0].Kind() != ast.LiteralKind {
		return errors.Wrap(ErrInvalidFilter, "note.contains() takes one string constant")
	}
	s, ok := args[0].AsLiteral().Value().(string)
	if !ok || s == "" {
		return errors.Wrap(ErrInvalidFilter, "note.contains() takes a non-empty string constant")
	}
	if find.NoteContains != nil {
		return errors.Wrap(ErrInvalidFilter, "note.contains() may appear at most once")
	}
	find.NoteContains = &s
	return nil
}

// applyComparison handles ident-vs-constant comparisons in either order.
func applyComparison(op string, args []ast.Expr, find *store.FindEntry) error {
	if len(args) != 2 {
		return errors.Wrap(ErrInvalidFilter, "malformed comparison")
	}

	ident, lit := args[0], args[1]
	if ident.Kind() != ast.IdentKind {
		// Constant on the left: flip the comparison around.
		ident, lit = args[1], args[0]
		op = flipOperator(op)
	}
	if ident.Kind() != ast.IdentKind || lit.Kind() != ast.LiteralKind {
		return errors.Wrap(ErrInvalidFilter, "comparison must pit a field against a constant")
	}

	switch ident.AsIdent() {
	case "date":
		value, ok := lit.AsLiteral().Value().(string)
		if !ok {
			return errors.Wrap(ErrInvalidFilter, "date compares against a string constant")
		}
		return applyDateBound(op, value, find)
	case "rating":
		value, ok := lit.AsLiteral().Value().(int64)
		if !ok {
			return errors.Wrap(ErrInvalidFilter, "rating compares against an integer constant")
		}
		return applyRatingBound(op, int32(value), find)
	default:
		return errors.Wrapf(ErrInvalidFilter, "unknown field %q", ident.AsIdent())
	}
}

func flipOperator(op string) string {
	switch op {
	case "_>=_":
		return "_<=_"
	case "_<=_":
		return "_>=_"
	case "_>_":
		return "_<_"
	case "_<_":
		return "_>_"
	default:
		return op
	}
}

func applyDateBound(op, value string, find *store.FindEntry) error {
	date, err := analytics.ParseDate(value)
	if err != nil {
		return errors.Wrapf(ErrInvalidFilter, "bad date constant %q", value)
	}
	switch op {
	case "_==_":
		tightenDateStart(find, string(date))
		tightenDateEnd(find, string(date))
	case "_>=_":
		tightenDateStart(find, string(date))
	case "_>_":
		tightenDateStart(find, string(date.AddDays(1)))
	case "_<=_":
		tightenDateEnd(find, string(date))
	case "_<_":
		tightenDateEnd(find, string(date.AddDays(-1)))
	}
	return nil
}

func applyRatingBound(op string, value int32, find *store.FindEntry) error {
	switch op {
	case "_==_":
		tightenMinRating(find, value)
		tightenMaxRating(find, value)
	case "_>=_":
		tightenMinRating(find, value)
	case "_>_":
		tightenMinRating(find, value+1)
	case "_<=_":
		tightenMaxRating(find, value)
	case "_<_":
		tightenMaxRating(find, value-1)
	}
	return nil
}

func tightenDateStart(find *store.FindEntry, d string) {
	if find.DateStart == nil || *find.DateStart < d {
		find.DateStart = &d
	}
}

func tightenDateEnd(find *store.FindEntry, d string) {
	if find.DateEnd == nil || *find.DateEnd > d {
		find.DateEnd = &d
	}
}

func tightenMinRating(find *store.FindEntry, r int32) {
	if find.MinRating == nil || *find.MinRating < r {
		find.MinRating = &r
	}
}

func tightenMaxRating(find *store.FindEntry, r int32) {
	if find.MaxRating == nil || *find.MaxRating > r {
		find.MaxRating = &r
	}
}
