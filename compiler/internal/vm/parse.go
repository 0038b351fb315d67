package vm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xiaobogaga/jackc/util"
)

// Parsing vm text back into commands. All possible syntax are:
// Memory access commands: push|pop segment integer.
// Arithmetic commands: add, sub, neg, eq, gt, lt, and, or, not.
// Program flow commands: label name, if-goto name, goto name.
// Function calling commands: function name integer, call name integer, return.
// Anything after // is a comment, and keywords are case insensitive.

type keyWordTP int

const (
	pushKeyWordTP keyWordTP = iota
	popKeyWordTP
	arithmeticKeyWordTP
	labelKeyWordTP
	ifGotoKeyWordTP
	gotoKeyWordTP
	functionKeyWordTP
	callKeyWordTP
	returnKeyWordTP
	commentKeyWordTP
)

var keyWordsMap = map[string]keyWordTP{
	"PUSH":     pushKeyWordTP,
	"POP":      popKeyWordTP,
	"ADD":      arithmeticKeyWordTP,
	"SUB":      arithmeticKeyWordTP,
	"NEG":      arithmeticKeyWordTP,
	"EQ":       arithmeticKeyWordTP,
	"GT":       arithmeticKeyWordTP,
	"LT":       arithmeticKeyWordTP,
	"AND":      arithmeticKeyWordTP,
	"OR":       arithmeticKeyWordTP,
	"NOT":      arithmeticKeyWordTP,
	"LABEL":    labelKeyWordTP,
	"IF-GOTO":  ifGotoKeyWordTP,
	"GOTO":     gotoKeyWordTP,
	"FUNCTION": functionKeyWordTP,
	"CALL":     callKeyWordTP,
	"RETURN":   returnKeyWordTP,
	"//":       commentKeyWordTP,
}

var labelFormat = regexp.MustCompile(`^[a-zA-Z_.:][0-9a-zA-Z_.$:]*$`)

// ValidName reports whether name can be used as a label, function or call target.
func ValidName(name string) bool {
	return labelFormat.MatchString(name)
}

// SyntaxError reports a line which is not a valid vm command. Line is 1-based, or 0
// when a single line was parsed on its own.
type SyntaxError struct {
	Line int
	Near string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("vm syntax error near %s", e.Near)
	}
	return fmt.Sprintf("vm syntax error near %s at line %d", e.Near, e.Line)
}

// ParseLine parses one line. ok is false for blank and comment only lines.
func ParseLine(line string) (c Command, ok bool, err error) {
	p := &lineParser{}
	return p.parseLine(line)
}

// ParseProgram parses vm text, one command per line.
func ParseProgram(rd io.Reader) (Program, error) {
	var ret Program
	scanner := bufio.NewScanner(rd)
	p := &lineParser{}
	for scanner.Scan() {
		p.lineCounter++
		c, ok, err := p.parseLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			ret = append(ret, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ret, nil
}

type lineParser struct {
	lineCounter int
}

// getNextToken fetches the next whitespace separated token, and returns it with the rest
// of the line. The token is empty at the end of the line.
func (p *lineParser) getNextToken(line string) (string, string) {
	line = strings.TrimSpace(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v' {
			return line[:i], line[i:]
		}
	}
	return line, ""
}

func (p *lineParser) parseLine(line string) (c Command, ok bool, err error) {
	token, line := p.getNextToken(line)
	if len(token) == 0 {
		return c, false, nil
	}
	if strings.HasPrefix(token, "//") {
		return c, false, nil
	}
	keyWordTP, exist := keyWordsMap[strings.ToUpper(token)]
	if !exist {
		return c, false, p.makeError(token)
	}
	switch keyWordTP {
	case commentKeyWordTP:
		return c, false, nil
	case pushKeyWordTP:
		c, line, err = p.parseMemoryAccess(PushCommand, line)
	case popKeyWordTP:
		c, line, err = p.parseMemoryAccess(PopCommand, line)
	case arithmeticKeyWordTP:
		c = Arithmetic(strings.ToLower(token))
	case labelKeyWordTP:
		c, line, err = p.parseLabel(LabelCommand, line)
	case ifGotoKeyWordTP:
		c, line, err = p.parseLabel(IfGotoCommand, line)
	case gotoKeyWordTP:
		c, line, err = p.parseLabel(GotoCommand, line)
	case functionKeyWordTP:
		c, line, err = p.parseFunctionOrCall(FunctionCommand, line)
	case callKeyWordTP:
		c, line, err = p.parseFunctionOrCall(CallCommand, line)
	case returnKeyWordTP:
		c = Return()
	}
	if err != nil {
		return c, false, err
	}
	err = p.parseRemainContent(line)
	if err != nil {
		return c, false, err
	}
	return c, true, nil
}

func (p *lineParser) parseMemoryAccess(kind CommandKind, line string) (Command, string, error) {
	token, line := p.getNextToken(line)
	segment, ok := segments[strings.ToLower(token)]
	if !ok {
		return Command{}, "", p.makeError(token)
	}
	// Nothing can be popped into a constant.
	if kind == PopCommand && segment == ConstantSegment {
		return Command{}, "", p.makeError(token)
	}
	index, line, err := p.getIntegerValue(line)
	if err != nil {
		return Command{}, "", err
	}
	return Command{Kind: kind, Segment: segment, Index: index}, line, nil
}

func (p *lineParser) parseLabel(kind CommandKind, line string) (Command, string, error) {
	line, name, err := p.parseLabelName(line)
	if err != nil {
		return Command{}, "", err
	}
	return Command{Kind: kind, Name: name}, line, nil
}

func (p *lineParser) parseFunctionOrCall(kind CommandKind, line string) (Command, string, error) {
	line, name, err := p.parseLabelName(line)
	if err != nil {
		return Command{}, "", err
	}
	n, line, err := p.getIntegerValue(line)
	if err != nil {
		return Command{}, "", err
	}
	return Command{Kind: kind, Name: name, N: n}, line, nil
}

func (p *lineParser) parseLabelName(line string) (string, string, error) {
	token, line := p.getNextToken(line)
	if !ValidName(token) {
		return "", "", p.makeError(token)
	}
	return line, token, nil
}

func (p *lineParser) getIntegerValue(line string) (int, string, error) {
	token, line := p.getNextToken(line)
	for i := 0; i < len(token); i++ {
		if !util.IsNumber(token[i]) {
			return 0, "", p.makeError(token)
		}
	}
	value, err := strconv.Atoi(token)
	if err != nil {
		return 0, "", p.makeError(token)
	}
	return value, line, nil
}

// parseRemainContent only allows a trailing comment after a command.
func (p *lineParser) parseRemainContent(line string) error {
	remain := strings.TrimSpace(line)
	if len(remain) == 0 || strings.HasPrefix(remain, "//") {
		return nil
	}
	return p.makeError(remain)
}

func (p *lineParser) makeError(near string) error {
	if near == "" {
		near = "end of line"
	}
	return &SyntaxError{Line: p.lineCounter, Near: near}
}
