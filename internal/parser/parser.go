package parser

import (
	"strconv"

	"flow/internal/ast"
	"flow/internal/diag"
	"flow/internal/lexer"
	"flow/internal/source"
	"flow/internal/token"
	"flow/internal/trace"
)

type Options struct {
	// MaxErrors останавливает запись синтаксических ошибок после лимита; 0 - без лимита.
	MaxErrors     uint
	CurrentErrors uint
	// MaxDiagnostics: ёмкость Bag парсера (и лексера); 0 - diag.DefaultMax.
	MaxDiagnostics int
	// Reporter получает копию каждой диагностики (лексической и синтаксической).
	Reporter diag.Reporter
	// Tracer получает span'ы фаз lex и parse.
	Tracer trace.Tracer
	// TraceParent: родительский span для фаз.
	TraceParent uint64
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

// Parser: состояние парсера на один вход
type Parser struct {
	file     *source.File
	tokens   []token.Token // отфильтрованный буфер: без Whitespace и Unknown, EOF последним
	pos      int
	bag      *diag.Bag
	reporter diag.Reporter
	opts     Options
	empty    bool // лексер сообщил о пустом входе
	tree     *Tree
}

// New lexes the whole file eagerly and prepares a parser over the filtered buffer.
// Lexical diagnostics are copied into the parser's own bag before any syntax error.
func New(file *source.File, opts Options) *Parser {
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	span := trace.Begin(opts.Tracer, trace.ScopePass, "lex", opts.TraceParent)

	lx := lexer.New(file, lexer.Options{
		Reporter:       diag.Combine(opts.Reporter, trace.Reporter(opts.Tracer, span.ID())),
		MaxDiagnostics: opts.MaxDiagnostics,
	})
	tokens := make([]token.Token, 0, len(file.Content)/2+1)
	total := 0
	for lx.HasNext() {
		tok := lx.Next()
		total++
		if tok.Kind == token.Whitespace || tok.Kind == token.Unknown {
			continue
		}
		tokens = append(tokens, tok)
	}

	bag := diag.NewBag(opts.MaxDiagnostics)
	lexDiags := lx.Diagnostics()
	bag.AddAll(lexDiags)
	span.WithExtra("tokens", strconv.Itoa(total)).End(strconv.Itoa(len(lexDiags)) + " diagnostics")

	return &Parser{
		file:     file,
		tokens:   tokens,
		bag:      bag,
		reporter: diag.Combine(diag.BagReporter{Bag: bag}, opts.Reporter, trace.Reporter(opts.Tracer, opts.TraceParent)),
		opts:     opts,
		empty:    len(file.Content) == 0,
	}
}

// ParseString parses an in-memory input with default options.
func ParseString(text string) *Tree {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(text))
	return New(fs.Get(id), Options{}).Parse()
}

// Parse builds the expression tree. It always finishes by matching EOF and
// returns a tree even when diagnostics were reported. Repeated calls return the same tree.
func (p *Parser) Parse() *Tree {
	if p.tree != nil {
		return p.tree
	}
	span := trace.Begin(p.opts.Tracer, trace.ScopePass, "parse", p.opts.TraceParent)

	var root ast.Expr
	var eof token.Token
	if p.empty {
		// пустой вход уже продиагностирован лексером; синтаксических ошибок не добавляем
		eof = p.peek(0)
		root = ast.NewLiteral(token.Synthetic(token.Number, eof.Span, eof.Pos))
	} else {
		root = p.parseExpression()
		eof = p.match(token.EOF)
	}

	p.tree = &Tree{
		Root:  root,
		EOF:   eof,
		File:  p.file,
		diags: p.bag.Items(),
	}
	span.WithExtra("nodes", strconv.Itoa(ast.Count(root))).End(strconv.Itoa(len(p.tree.diags)) + " diagnostics")
	return p.tree
}

// Diagnostics returns a copy of lexical and syntactic diagnostics collected so far.
func (p *Parser) Diagnostics() []diag.Diagnostic {
	return p.bag.Items()
}

// Tokens returns the filtered token buffer.
func (p *Parser) Tokens() []token.Token {
	out := make([]token.Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}
