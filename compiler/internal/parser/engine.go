package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xiaobogaga/jackc/compiler/internal/token"
)

// The parser is not written by hand. Instead the grammar is declared as data: an ordered
// list of rules, each one made of a combinator over other rules or primitives and a build
// function turning what was matched into an ast node. One generic evaluator interprets the
// table, trying choices in order and backtracking on failure. Positions are passed by value,
// so a failed attempt never moves the caller forward.
//
// Items referenced by a combinator are either rule names or primitives:
// * keyword:xxx matches the keyword xxx
// * symbol:x matches the symbol x
// * Identifier, IntegerConstant, StringConstant match one token of that kind.

type CombinatorKind int

const (
	SequenceKind CombinatorKind = iota
	ChoiceKind
	StarKind
	OptionalKind
)

func (k CombinatorKind) String() string {
	switch k {
	case SequenceKind:
		return "sequence"
	case ChoiceKind:
		return "choice"
	case StarKind:
		return "star"
	case OptionalKind:
		return "optional"
	}
	return "unknown"
}

type Spec struct {
	Kind  CombinatorKind
	Items []string
}

func Sequence(items ...string) Spec {
	return Spec{Kind: SequenceKind, Items: items}
}

func Choice(items ...string) Spec {
	return Spec{Kind: ChoiceKind, Items: items}
}

func Star(item string) Spec {
	return Spec{Kind: StarKind, Items: []string{item}}
}

func Optional(item string) Spec {
	return Spec{Kind: OptionalKind, Items: []string{item}}
}

// BuildFunc receives the results accumulated by a rule. res[0] is always the rule name,
// the sub results follow in match order. A choice passes exactly one sub result.
type BuildFunc func(res []interface{}) interface{}

type Rule struct {
	Name  string
	Spec  Spec
	Build BuildFunc
}

const (
	keywordPrefix    = "keyword:"
	symbolPrefix     = "symbol:"
	identifierItem   = "Identifier"
	integerItem      = "IntegerConstant"
	stringItem       = "StringConstant"
	unparsedTokenMsg = "unparsed tokens left"
)

var ErrUnparsedTokens = errors.New(unparsedTokenMsg)

// SyntaxError is the failure of one rule. Cause holds the failure of the sub rule which
// made it fail, so printing the outermost error gives the whole trail.
type SyntaxError struct {
	Rule  string
	Cause error
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("can't parse `%s`", e.Rule)
	if e.Cause != nil {
		msg += "\n" + e.Cause.Error()
	}
	return msg
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}

// UnexpectedTokenError is the failure of a primitive. Got is nil at end of input.
type UnexpectedTokenError struct {
	Expected string
	Got      *token.Token
}

func (e *UnexpectedTokenError) Error() string {
	if e.Got == nil {
		return fmt.Sprintf("expected %s, got end of input", e.Expected)
	}
	return fmt.Sprintf("expected %s, got `%s` at line %d", e.Expected, e.Got.String(), e.Got.Line)
}

// Engine is built once from a grammar and can parse any number of token sequences.
type Engine struct {
	start string
	rules map[string]*Rule
}

func New(grammar []Rule, start string) (*Engine, error) {
	engine := &Engine{start: start, rules: make(map[string]*Rule, len(grammar))}
	for i := range grammar {
		rule := &grammar[i]
		if _, ok := engine.rules[rule.Name]; ok {
			return nil, fmt.Errorf("duplicate grammar rule: %s", rule.Name)
		}
		if rule.Build == nil {
			return nil, fmt.Errorf("grammar rule %s has no build function", rule.Name)
		}
		engine.rules[rule.Name] = rule
	}
	for _, rule := range grammar {
		err := engine.checkRule(rule)
		if err != nil {
			return nil, err
		}
	}
	if _, ok := engine.rules[start]; !ok {
		return nil, fmt.Errorf("unknown start rule: %s", start)
	}
	return engine, nil
}

func MustNew(grammar []Rule, start string) *Engine {
	engine, err := New(grammar, start)
	if err != nil {
		panic(err)
	}
	return engine
}

func (engine *Engine) checkRule(rule Rule) error {
	switch rule.Spec.Kind {
	case SequenceKind, ChoiceKind:
		if len(rule.Spec.Items) == 0 {
			return fmt.Errorf("grammar rule %s: %s needs at least one item", rule.Name, rule.Spec.Kind)
		}
	case StarKind, OptionalKind:
		if len(rule.Spec.Items) != 1 {
			return fmt.Errorf("grammar rule %s: %s needs exactly one item", rule.Name, rule.Spec.Kind)
		}
	default:
		return fmt.Errorf("grammar rule %s: unknown combinator %d", rule.Name, rule.Spec.Kind)
	}
	for _, item := range rule.Spec.Items {
		if isPrimitive(item) {
			continue
		}
		if _, ok := engine.rules[item]; !ok {
			return fmt.Errorf("grammar rule %s refers to unknown rule %s", rule.Name, item)
		}
	}
	return nil
}

func isPrimitive(item string) bool {
	switch item {
	case identifierItem, integerItem, stringItem:
		return true
	}
	return strings.HasPrefix(item, keywordPrefix) || strings.HasPrefix(item, symbolPrefix)
}

// Parse parses tokens with the start rule. Every token must be consumed.
func (engine *Engine) Parse(tokens []token.Token) (interface{}, error) {
	return engine.ParseRule(engine.start, tokens)
}

// ParseRule parses tokens with the named rule. Every token must be consumed.
func (engine *Engine) ParseRule(name string, tokens []token.Token) (interface{}, error) {
	if _, ok := engine.rules[name]; !ok {
		return nil, fmt.Errorf("unknown grammar rule: %s", name)
	}
	p := &run{engine: engine, tokens: tokens}
	ret := p.eval(name, 0)
	if ret.err != nil {
		return nil, ret.err
	}
	if ret.next < len(tokens) {
		left := tokens[ret.next]
		return nil, fmt.Errorf("%w near `%s` at line %d", ErrUnparsedTokens, left.String(), left.Line)
	}
	return ret.value, nil
}

// result is what every evaluation step returns: either a value and the position of the
// next unconsumed token, or the reason of the failure.
type result struct {
	value interface{}
	next  int
	err   error
}

func success(value interface{}, next int) result {
	return result{value: value, next: next}
}

func failure(err error) result {
	return result{err: err}
}

type run struct {
	engine *Engine
	tokens []token.Token
}

func (p *run) eval(item string, pos int) result {
	if isPrimitive(item) {
		return p.evalPrimitive(item, pos)
	}
	rule := p.engine.rules[item]
	switch rule.Spec.Kind {
	case SequenceKind:
		return p.evalSequence(rule, pos)
	case ChoiceKind:
		return p.evalChoice(rule, pos)
	case StarKind:
		return p.evalStar(rule, pos)
	case OptionalKind:
		return p.evalOptional(rule, pos)
	}
	return failure(fmt.Errorf("grammar rule %s: unknown combinator %d", rule.Name, rule.Spec.Kind))
}

func (p *run) evalSequence(rule *Rule, pos int) result {
	res := []interface{}{rule.Name}
	for _, item := range rule.Spec.Items {
		ret := p.eval(item, pos)
		if ret.err != nil {
			return failure(&SyntaxError{Rule: rule.Name, Cause: ret.err})
		}
		res = append(res, ret.value)
		pos = ret.next
	}
	return success(rule.Build(res), pos)
}

// Alternatives are tried strictly in the declared order, the first success wins.
func (p *run) evalChoice(rule *Rule, pos int) result {
	for _, item := range rule.Spec.Items {
		ret := p.eval(item, pos)
		if ret.err == nil {
			return success(rule.Build([]interface{}{rule.Name, ret.value}), ret.next)
		}
	}
	return failure(&SyntaxError{Rule: rule.Name})
}

func (p *run) evalStar(rule *Rule, pos int) result {
	res := []interface{}{rule.Name}
	for {
		ret := p.eval(rule.Spec.Items[0], pos)
		// Stop on failure, and on empty matches which would loop forever.
		if ret.err != nil || ret.next == pos {
			break
		}
		res = append(res, ret.value)
		pos = ret.next
	}
	return success(rule.Build(res), pos)
}

func (p *run) evalOptional(rule *Rule, pos int) result {
	res := []interface{}{rule.Name}
	ret := p.eval(rule.Spec.Items[0], pos)
	if ret.err == nil {
		res = append(res, ret.value)
		pos = ret.next
	}
	return success(rule.Build(res), pos)
}

// Primitives consume exactly one token or fail without consuming.
func (p *run) evalPrimitive(item string, pos int) result {
	var tok *token.Token
	if pos < len(p.tokens) {
		tok = &p.tokens[pos]
	}
	switch {
	case strings.HasPrefix(item, keywordPrefix):
		keyword := item[len(keywordPrefix):]
		if tok != nil && tok.Is(token.KeywordKind, keyword) {
			return success(keyword, pos+1)
		}
		return failure(&UnexpectedTokenError{Expected: fmt.Sprintf("keyword `%s`", keyword), Got: tok})
	case strings.HasPrefix(item, symbolPrefix):
		symbol := item[len(symbolPrefix):]
		if tok != nil && tok.Is(token.SymbolKind, symbol) {
			return success(symbol, pos+1)
		}
		return failure(&UnexpectedTokenError{Expected: fmt.Sprintf("symbol `%s`", symbol), Got: tok})
	case item == identifierItem:
		if tok != nil && tok.Kind == token.IdentifierKind {
			return success(tok.Text, pos+1)
		}
		return failure(&UnexpectedTokenError{Expected: token.IdentifierKind.String(), Got: tok})
	case item == integerItem:
		if tok != nil && tok.Kind == token.IntegerConstantKind {
			v, err := strconv.Atoi(tok.Text)
			if err == nil {
				return success(v, pos+1)
			}
		}
		return failure(&UnexpectedTokenError{Expected: token.IntegerConstantKind.String(), Got: tok})
	case item == stringItem:
		if tok != nil && tok.Kind == token.StringConstantKind {
			return success(tok.Text, pos+1)
		}
		return failure(&UnexpectedTokenError{Expected: token.StringConstantKind.String(), Got: tok})
	}
	return failure(fmt.Errorf("unknown primitive %s", item))
}
