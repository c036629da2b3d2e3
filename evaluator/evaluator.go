// Package evaluator is the default expression backend of the interpolation
// engine. Expressions use the expr language (github.com/expr-lang/expr):
//
//	name
//	user.name
//	(age / 2) + 7
//	len(items) > 0 ? items[0] : "none"
//
// Compiled programs are cached per expression text, so an Evaluator may be
// shared between goroutines.
package evaluator

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/builtin"
	"github.com/expr-lang/expr/conf"
	"github.com/expr-lang/expr/parser"
	"github.com/expr-lang/expr/vm"
)

// Evaluator evaluates expressions and extracts the identifiers they use.
type Evaluator struct {
	programs sync.Map // expression text -> *vm.Program
	options  []expr.Option
}

// New creates an evaluator. Options are passed to expr.Compile for every
// expression, e.g. expr.Function to expose helpers.
func New(options ...expr.Option) *Evaluator {
	return &Evaluator{options: options}
}

// Evaluate runs expression against data. Data is normally a map[string]any or
// a struct; nil is treated as an empty map. Missing map keys evaluate to nil.
// Compile and runtime errors are returned as produced by expr.
func (e *Evaluator) Evaluate(expression string, data any) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}
	return expr.Run(program, data)
}

func (e *Evaluator) compile(expression string) (*vm.Program, error) {
	if cached, ok := e.programs.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, e.options...)
	if err != nil {
		return nil, err
	}
	actual, _ := e.programs.LoadOrStore(expression, program)
	return actual.(*vm.Program), nil
}

// Identifiers returns the top-level variable names expression reads, in
// source order and without duplicates. Member names (`name` in `user.name`),
// builtins, functions passed to New, the `$env` handle and names bound by
// `let` inside their body are not reported.
func (e *Evaluator) Identifiers(expression string) ([]string, error) {
	config := conf.CreateNew()
	for _, opt := range e.options {
		opt(config)
	}
	tree, err := parser.ParseWithConfig(expression, config)
	if err != nil {
		return nil, err
	}
	sv := &scopeVisitor{
		functions: config.Functions,
		skip:      make(map[*ast.IdentifierNode]struct{}),
	}
	ast.Walk(&tree.Node, sv)

	iv := &identVisitor{skip: sv.skip, seen: make(map[string]struct{})}
	ast.Walk(&tree.Node, iv)
	if iv.names == nil {
		return []string{}, nil
	}
	return iv.names, nil
}

// scopeVisitor marks identifier nodes that are not data lookups: uses of a
// `let` binding within its body and builtin or configured functions used as
// call targets.
type scopeVisitor struct {
	functions conf.FunctionsTable
	skip      map[*ast.IdentifierNode]struct{}
}

func (v *scopeVisitor) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.VariableDeclaratorNode:
		ast.Walk(&n.Expr, &bindingVisitor{name: n.Name, skip: v.skip})
	case *ast.CallNode:
		id, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			return
		}
		_, isBuiltin := builtin.Index[id.Value]
		_, isFunction := v.functions[id.Value]
		if isBuiltin || isFunction {
			v.skip[id] = struct{}{}
		}
	}
}

// bindingVisitor marks every reference to name inside a `let` body.
type bindingVisitor struct {
	name string
	skip map[*ast.IdentifierNode]struct{}
}

func (v *bindingVisitor) Visit(node *ast.Node) {
	if id, ok := (*node).(*ast.IdentifierNode); ok && id.Value == v.name {
		v.skip[id] = struct{}{}
	}
}

type identVisitor struct {
	skip  map[*ast.IdentifierNode]struct{}
	names []string
	seen  map[string]struct{}
}

func (v *identVisitor) Visit(node *ast.Node) {
	id, ok := (*node).(*ast.IdentifierNode)
	if !ok {
		return
	}
	name := id.Value
	if name == "" || name[0] == '$' {
		return
	}
	if _, ok := v.skip[id]; ok {
		return
	}
	if _, ok := v.seen[name]; ok {
		return
	}
	v.seen[name] = struct{}{}
	v.names = append(v.names, name)
}
