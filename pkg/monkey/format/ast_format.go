package format

import (
	"fmt"
	"strings"

	"github.com/sambeau/monkey/pkg/monkey/ast"
	"github.com/sambeau/monkey/pkg/monkey/parser"
)

// atomPrecedence ranks literals, identifiers, if and fn expressions above
// every operator: they never need parentheses.
const atomPrecedence = parser.CALL + 1

// FormatNode formats a single AST node.
func FormatNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	p := NewPrinter()
	p.formatNode(node)
	return p.String()
}

// FormatProgram formats an entire Monkey program: one statement per line,
// each terminated by a semicolon, with blocks indented by tabs and
// parentheses only where operator precedence needs them.
func FormatProgram(prog *ast.Program) string {
	if prog == nil || len(prog.Statements) == 0 {
		return ""
	}
	p := NewPrinter()
	p.formatProgram(prog)
	return p.String()
}

func (p *Printer) formatProgram(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		p.formatStatement(stmt)
		p.newline()
	}
}

func (p *Printer) formatNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		p.formatProgram(n)
	case ast.Statement:
		p.formatStatement(n)
	case ast.Expression:
		p.formatExpression(n)
	}
}

func (p *Printer) formatStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		p.formatLetStatement(s)
	case *ast.ReturnStatement:
		p.formatReturnStatement(s)
	case *ast.ExpressionStatement:
		p.formatExpressionStatement(s)
	case *ast.BlockStatement:
		p.formatBlockStatement(s)
	}
}

func (p *Printer) formatLetStatement(ls *ast.LetStatement) {
	p.write("let ")
	p.write(ls.Name.Value)
	p.write(" = ")
	p.formatExpression(ls.Value)
	p.write(";")
}

func (p *Printer) formatReturnStatement(rs *ast.ReturnStatement) {
	p.write("return ")
	p.formatExpression(rs.ReturnValue)
	p.write(";")
}

func (p *Printer) formatExpressionStatement(es *ast.ExpressionStatement) {
	p.formatExpression(es.Expression)
	p.write(";")
}

// formatBlockStatement writes the braces and the indented statements. The
// caller has already written any indentation for the opening line.
func (p *Printer) formatBlockStatement(bs *ast.BlockStatement) {
	if len(bs.Statements) == 0 {
		p.write("{}")
		return
	}

	p.writeln("{")
	p.indentInc()
	for _, stmt := range bs.Statements {
		p.writeIndent()
		p.formatStatement(stmt)
		p.newline()
	}
	p.indentDec()
	p.writeIndent()
	p.write("}")
}

func (p *Printer) formatExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Value)
	case *ast.IntegerLiteral:
		p.write(e.Token.Literal)
	case *ast.Boolean:
		p.write(fmt.Sprintf("%t", e.Value))
	case *ast.PrefixExpression:
		p.formatPrefixExpression(e)
	case *ast.InfixExpression:
		p.formatInfixExpression(e)
	case *ast.IfExpression:
		p.formatIfExpression(e)
	case *ast.FunctionLiteral:
		p.formatFunctionLiteral(e)
	case *ast.CallExpression:
		p.formatCallExpression(e)
	}
}

// formatOperand writes expr, wrapped in parentheses when it binds looser
// than its context requires.
func (p *Printer) formatOperand(expr ast.Expression, parens bool) {
	if parens {
		p.write("(")
		p.formatExpression(expr)
		p.write(")")
		return
	}
	p.formatExpression(expr)
}

func (p *Printer) formatPrefixExpression(pe *ast.PrefixExpression) {
	p.write(pe.Operator)
	p.formatOperand(pe.Right, precedenceOf(pe.Right) < parser.PREFIX)
}

// formatInfixExpression relies on operators being left associative: a
// right operand of equal precedence keeps its parentheses.
func (p *Printer) formatInfixExpression(ie *ast.InfixExpression) {
	prec := parser.PrecedenceOf(ie.Token.Type)

	p.formatOperand(ie.Left, precedenceOf(ie.Left) < prec)
	p.write(" " + ie.Operator + " ")
	p.formatOperand(ie.Right, precedenceOf(ie.Right) <= prec)
}

func (p *Printer) formatIfExpression(ie *ast.IfExpression) {
	p.write("if (")
	p.formatExpression(ie.Condition)
	p.write(") ")
	p.formatBlockStatement(ie.Consequence)

	if ie.Alternative != nil {
		p.write(" else ")
		p.formatBlockStatement(ie.Alternative)
	}
}

func (p *Printer) formatFunctionLiteral(fl *ast.FunctionLiteral) {
	paramStrs := make([]string, len(fl.Parameters))
	for i, param := range fl.Parameters {
		paramStrs[i] = param.Value
	}
	paramsLine := strings.Join(paramStrs, ", ")

	// A body holding one short expression stays on one line.
	if len(fl.Body.Statements) == 1 {
		if es, ok := fl.Body.Statements[0].(*ast.ExpressionStatement); ok {
			bodyStr := FormatNode(es.Expression)
			inline := fmt.Sprintf("fn(%s) { %s }", paramsLine, bodyStr)
			if p.fitsOnLine(inline, MaxLineWidth) {
				p.write(inline)
				return
			}
		}
	}

	p.write("fn(" + paramsLine + ") ")
	p.formatBlockStatement(fl.Body)
}

func (p *Printer) formatCallExpression(ce *ast.CallExpression) {
	p.formatOperand(ce.Function, precedenceOf(ce.Function) < parser.CALL)
	p.write("(")
	for i, arg := range ce.Arguments {
		if i > 0 {
			p.write(", ")
		}
		p.formatExpression(arg)
	}
	p.write(")")
}

// precedenceOf returns how tightly a formatted expression holds together,
// on the parser's precedence scale.
func precedenceOf(expr ast.Expression) int {
	switch e := expr.(type) {
	case *ast.InfixExpression:
		return parser.PrecedenceOf(e.Token.Type)
	case *ast.PrefixExpression:
		return parser.PREFIX
	case *ast.CallExpression:
		return parser.CALL
	}
	return atomPrecedence
}

// Tree returns an indented outline of node and its descendants, one node
// per line, for debugging the shape the parser produced.
func Tree(node ast.Node) string {
	if node == nil {
		return ""
	}
	p := newTreePrinter()
	p.tree(node)
	return p.String()
}

func (p *Printer) tree(node ast.Node) {
	p.writeIndent()
	p.writeln(nodeLabel(node))

	p.indentInc()
	for _, child := range children(node) {
		p.tree(child)
	}
	p.indentDec()
}

func nodeLabel(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Program:
		return "Program"
	case *ast.LetStatement:
		return "LetStatement " + n.Name.Value
	case *ast.ReturnStatement:
		return "ReturnStatement"
	case *ast.ExpressionStatement:
		return "ExpressionStatement"
	case *ast.BlockStatement:
		return "BlockStatement"
	case *ast.Identifier:
		return "Identifier " + n.Value
	case *ast.IntegerLiteral:
		return "IntegerLiteral " + n.Token.Literal
	case *ast.Boolean:
		return fmt.Sprintf("Boolean %t", n.Value)
	case *ast.PrefixExpression:
		return "PrefixExpression " + n.Operator
	case *ast.InfixExpression:
		return "InfixExpression " + n.Operator
	case *ast.IfExpression:
		if n.Alternative != nil {
			return "IfExpression (else)"
		}
		return "IfExpression"
	case *ast.FunctionLiteral:
		params := make([]string, len(n.Parameters))
		for i, param := range n.Parameters {
			params[i] = param.Value
		}
		return "FunctionLiteral (" + strings.Join(params, ", ") + ")"
	case *ast.CallExpression:
		return fmt.Sprintf("CallExpression %d args", len(n.Arguments))
	}
	return fmt.Sprintf("%T", node)
}

func children(node ast.Node) []ast.Node {
	var out []ast.Node
	switch n := node.(type) {
	case *ast.Program:
		for _, s := range n.Statements {
			out = append(out, s)
		}
	case *ast.LetStatement:
		out = append(out, n.Value)
	case *ast.ReturnStatement:
		out = append(out, n.ReturnValue)
	case *ast.ExpressionStatement:
		out = append(out, n.Expression)
	case *ast.BlockStatement:
		for _, s := range n.Statements {
			out = append(out, s)
		}
	case *ast.PrefixExpression:
		out = append(out, n.Right)
	case *ast.InfixExpression:
		out = append(out, n.Left, n.Right)
	case *ast.IfExpression:
		out = append(out, n.Condition, n.Consequence)
		if n.Alternative != nil {
			out = append(out, n.Alternative)
		}
	case *ast.FunctionLiteral:
		out = append(out, n.Body)
	case *ast.CallExpression:
		out = append(out, n.Function)
		for _, a := range n.Arguments {
			out = append(out, a)
		}
	}
	return out
}
