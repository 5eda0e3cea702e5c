package tools

import (
    "context"
    "errors"
    "fmt"
    "math"
    "strconv"
    "strings"
)

// CalculatorTool evaluates arithmetic expressions with a small recursive
// descent parser. Supported: + - * / % ^ (and **), parentheses, unary minus,
// the constants pi and e, and a fixed set of functions.
type CalculatorTool struct{}

func (t *CalculatorTool) Name() string { return "calculator" }

func (t *CalculatorTool) Description() string {
    return "Perform mathematical calculations and arithmetic operations"
}

func (t *CalculatorTool) Execute(ctx context.Context, input string) (string, error) {
    expr := strings.TrimSpace(input)
    if expr == "" {
        return "", errors.New("empty expression")
    }
    expr = strings.ReplaceAll(expr, "**", "^")

    p := &exprParser{src: expr}
    v, err := p.parseExpr()
    if err != nil {
        return "", err
    }
    p.skipSpaces()
    if p.pos != len(p.src) {
        return "", fmt.Errorf("invalid syntax at %q", p.src[p.pos:])
    }
    if math.IsNaN(v) || math.IsInf(v, 0) {
        return "", errors.New("expression has no finite result")
    }
    return formatNumber(v), nil
}

var calcFunctions = map[string]func(float64) float64{
    "sqrt":  math.Sqrt,
    "sin":   math.Sin,
    "cos":   math.Cos,
    "tan":   math.Tan,
    "log":   math.Log,
    "log10": math.Log10,
    "abs":   math.Abs,
    "round": math.Round,
    "ceil":  math.Ceil,
    "floor": math.Floor,
}

type exprParser struct {
    src string
    pos int
}

func (p *exprParser) skipSpaces() {
    for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
        p.pos++
    }
}

func (p *exprParser) peek() byte {
    if p.pos < len(p.src) {
        return p.src[p.pos]
    }
    return 0
}

func (p *exprParser) parseExpr() (float64, error) {
    v, err := p.parseTerm()
    if err != nil {
        return 0, err
    }
    for {
        p.skipSpaces()
        switch p.peek() {
        case '+':
            p.pos++
            rhs, err := p.parseTerm()
            if err != nil {
                return 0, err
            }
            v += rhs
        case '-':
            p.pos++
            rhs, err := p.parseTerm()
            if err != nil {
                return 0, err
            }
            v -= rhs
        default:
            return v, nil
        }
    }
}

func (p *exprParser) parseTerm() (float64, error) {
    v, err := p.parseUnary()
    if err != nil {
        return 0, err
    }
    for {
        p.skipSpaces()
        switch p.peek() {
        case '*':
            p.pos++
            rhs, err := p.parseUnary()
            if err != nil {
                return 0, err
            }
            v *= rhs
        case '/':
            p.pos++
            rhs, err := p.parseUnary()
            if err != nil {
                return 0, err
            }
            if rhs == 0 {
                return 0, errors.New("division by zero")
            }
            v /= rhs
        case '%':
            p.pos++
            rhs, err := p.parseUnary()
            if err != nil {
                return 0, err
            }
            if rhs == 0 {
                return 0, errors.New("division by zero")
            }
            v = math.Mod(v, rhs)
        default:
            return v, nil
        }
    }
}

func (p *exprParser) parseUnary() (float64, error) {
    p.skipSpaces()
    switch p.peek() {
    case '-':
        p.pos++
        v, err := p.parseUnary()
        return -v, err
    case '+':
        p.pos++
        return p.parseUnary()
    }
    return p.parsePower()
}

func (p *exprParser) parsePower() (float64, error) {
    v, err := p.parseAtom()
    if err != nil {
        return 0, err
    }
    p.skipSpaces()
    if p.peek() == '^' {
        p.pos++
        // right associative
        rhs, err := p.parseUnary()
        if err != nil {
            return 0, err
        }
        return math.Pow(v, rhs), nil
    }
    return v, nil
}

func (p *exprParser) parseAtom() (float64, error) {
    p.skipSpaces()
    c := p.peek()
    switch {
    case c == '(':
        p.pos++
        v, err := p.parseExpr()
        if err != nil {
            return 0, err
        }
        p.skipSpaces()
        if p.peek() != ')' {
            return 0, errors.New("missing closing parenthesis")
        }
        p.pos++
        return v, nil
    case c >= '0' && c <= '9' || c == '.':
        return p.parseNumber()
    case isIdentByte(c):
        return p.parseIdent()
    }
    return 0, fmt.Errorf("unexpected character %q in expression", string(c))
}

func (p *exprParser) parseNumber() (float64, error) {
    start := p.pos
    for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
        p.pos++
    }
    v, err := strconv.ParseFloat(p.src[start:p.pos], 64)
    if err != nil {
        return 0, fmt.Errorf("invalid number %q", p.src[start:p.pos])
    }
    return v, nil
}

func (p *exprParser) parseIdent() (float64, error) {
    start := p.pos
    for p.pos < len(p.src) && (isIdentByte(p.src[p.pos]) || p.src[p.pos] >= '0' && p.src[p.pos] <= '9') {
        p.pos++
    }
    name := strings.ToLower(p.src[start:p.pos])
    switch name {
    case "pi":
        return math.Pi, nil
    case "e":
        return math.E, nil
    }
    fn, ok := calcFunctions[name]
    if !ok {
        return 0, fmt.Errorf("unknown identifier %q", name)
    }
    p.skipSpaces()
    if p.peek() != '(' {
        return 0, fmt.Errorf("expected '(' after function %q", name)
    }
    p.pos++
    arg, err := p.parseExpr()
    if err != nil {
        return 0, err
    }
    p.skipSpaces()
    if p.peek() != ')' {
        return 0, fmt.Errorf("missing closing parenthesis after %q argument", name)
    }
    p.pos++
    return fn(arg), nil
}

func isIdentByte(c byte) bool {
    return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

// formatNumber rounds away float noise and drops the fraction when integral.
func formatNumber(v float64) string {
    v = math.Round(v*1e8) / 1e8
    if v == math.Trunc(v) && math.Abs(v) < 1e15 {
        return strconv.FormatInt(int64(v), 10)
    }
    return strconv.FormatFloat(v, 'f', -1, 64)
}
