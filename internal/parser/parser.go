// Package parser reads the line-oriented edit language:
//
//	new 2022-12-24 00:00 It's Christmas everybody
//	4df78 2022-05-04 18:00 4th july dinner, not lunch
//	4df78 edit Now call the bank
//	4df78 remove
//
// Every line is parsed on its own. A line that fails to parse yields a
// *ParseError carrying the byte column of the first problem.
package parser

import (
	"strconv"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/amirbrooks/today/internal/store"
)

const (
	keywordNew    = "new"
	keywordEdit   = "edit"
	keywordRemove = "remove"
	keywordNow    = "Now"
)

// Parser is a single pass cursor over one line. The cursor is a byte offset.
type Parser struct {
	text string
	pos  int
}

func NewParser(line string) *Parser {
	return &Parser{text: line}
}

// Parse parses a single line.
func Parse(line string) (Program, error) {
	return NewParser(line).Parse()
}

// Parse consumes the whole line and returns the instruction it holds.
func (p *Parser) Parse() (Program, error) {
	prog, err := p.instruction()
	if err != nil {
		return nil, err
	}
	p.pos = p.boundary(p.pos)
	if !p.eof() {
		r, _ := utf8.DecodeRuneInString(p.text[p.pos:])
		return nil, &ParseError{Column: p.pos, Kind: ExpectedEOF, Char: r}
	}
	return prog, nil
}

func (p *Parser) instruction() (Program, error) {
	p.skipWhitespace()
	if p.eof() {
		return Empty{}, nil
	}
	if p.word() == keywordNew {
		p.pos += len(keywordNew)
		return p.add()
	}
	return p.edit()
}

func (p *Parser) add() (Program, error) {
	if err := p.whitespace(); err != nil {
		return nil, err
	}
	due, err := p.dateTime()
	if err != nil {
		return nil, err
	}
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	return Add{Task: store.NewTask(name).WithDue(due)}, nil
}

func (p *Parser) edit() (Program, error) {
	id := p.word()
	p.pos += len(id)

	action, column, ok := p.action()
	if ok {
		switch action {
		case keywordRemove:
			p.pos = len(p.text)
			return Remove{IDPrefix: id}, nil
		case keywordNew:
			return nil, &ParseError{Column: column, Kind: UnexpectedToken, Char: 'n'}
		}
	}

	if err := p.whitespace(); err != nil {
		return nil, err
	}
	due, err := p.dateTime()
	if err != nil {
		return nil, err
	}
	name, err := p.name()
	if err != nil {
		return nil, err
	}
	return Edit{IDPrefix: id, Name: name, Due: due}, nil
}

// action tries to read whitespace followed by an action keyword. On success
// the cursor sits right after the keyword. Otherwise the cursor is put back
// where it was and the line is read as an edit.
func (p *Parser) action() (string, int, bool) {
	mark := p.pos
	if p.whitespace() != nil {
		p.pos = mark
		return "", 0, false
	}
	column := p.pos
	switch w := p.word(); w {
	case keywordEdit, keywordNew, keywordRemove:
		p.pos += len(w)
		return w, column, true
	}
	p.pos = mark
	return "", 0, false
}

func (p *Parser) dateTime() (*time.Time, error) {
	if p.eof() {
		return nil, p.unexpected()
	}
	if p.word() == keywordNow {
		p.pos += len(keywordNow)
		return nil, nil
	}

	// time.Time only marshals years 0 through 9999.
	year, err := p.field(0, 9999)
	if err != nil {
		return nil, err
	}
	if err := p.expect('-'); err != nil {
		return nil, err
	}
	month, err := p.field(1, 12)
	if err != nil {
		return nil, err
	}
	if err := p.expect('-'); err != nil {
		return nil, err
	}
	day, err := p.field(1, daysIn(year, time.Month(month)))
	if err != nil {
		return nil, err
	}
	if err := p.whitespace(); err != nil {
		return nil, err
	}
	hour, err := p.field(0, 23)
	if err != nil {
		return nil, err
	}
	if err := p.expect(':'); err != nil {
		return nil, err
	}
	minute, err := p.field(0, 59)
	if err != nil {
		return nil, err
	}

	due := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return &due, nil
}

// field reads a run of ASCII digits and checks it lies within [lo, hi].
func (p *Parser) field(lo, hi int) (int, error) {
	start := p.pos
	for !p.eof() && isDigit(p.text[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return 0, p.unexpected()
	}
	n, err := strconv.Atoi(p.text[start:p.pos])
	if err != nil || n < lo || n > hi {
		return 0, &ParseError{Column: start, Kind: InvalidDue}
	}
	return n, nil
}

func (p *Parser) name() (store.TaskName, error) {
	if !p.eof() && !p.atWhitespace() {
		return store.TaskName{}, p.unexpected()
	}
	p.skipWhitespace()
	column := p.pos
	name, err := store.NewTaskName(p.text[p.pos:])
	if err != nil {
		return store.TaskName{}, &ParseError{Column: column, Kind: InvalidTaskName}
	}
	p.pos = len(p.text)
	return name, nil
}

// expect consumes the ASCII byte c.
func (p *Parser) expect(c byte) error {
	if p.eof() || p.text[p.pos] != c {
		return p.unexpected()
	}
	p.pos++
	return nil
}

// whitespace requires at least one whitespace character and skips all of them.
func (p *Parser) whitespace() error {
	p.pos = p.boundary(p.pos)
	if !p.atWhitespace() {
		return p.unexpected()
	}
	p.skipWhitespace()
	return nil
}

// unexpected describes whatever sits at the cursor.
func (p *Parser) unexpected() error {
	p.pos = p.boundary(p.pos)
	if p.eof() {
		return &ParseError{Column: p.pos, Kind: UnexpectedEOF}
	}
	r, _ := utf8.DecodeRuneInString(p.text[p.pos:])
	return &ParseError{Column: p.pos, Kind: UnexpectedToken, Char: r}
}

// word returns the text from the cursor up to the next whitespace without
// moving the cursor.
func (p *Parser) word() string {
	start := p.boundary(p.pos)
	end := start
	for end < len(p.text) {
		r, size := utf8.DecodeRuneInString(p.text[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return p.text[start:end]
}

func (p *Parser) skipWhitespace() {
	p.pos = p.boundary(p.pos)
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.text[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += size
	}
}

func (p *Parser) atWhitespace() bool {
	if p.eof() {
		return false
	}
	r, _ := utf8.DecodeRuneInString(p.text[p.boundary(p.pos):])
	return unicode.IsSpace(r)
}

func (p *Parser) eof() bool {
	return p.pos >= len(p.text)
}

// boundary snaps i forward to the start of the next character.
func (p *Parser) boundary(i int) int {
	for i < len(p.text) && !utf8.RuneStart(p.text[i]) {
		i++
	}
	return min(i, len(p.text))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
