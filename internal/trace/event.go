package trace

import "time"

// Kind различает начало span, его конец и мгновенное событие.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event; smaller values are coarser.
type Scope uint8

const (
	// ScopeDriver is a whole command: eval, run, one REPL line.
	ScopeDriver Scope = iota + 1
	// ScopePass is lex, parse or eval.
	ScopePass
	// ScopeFile is one file inside a batch run.
	ScopeFile
	// ScopeNode covers diagnostics and tree nodes.
	ScopeNode
)

var scopeNames = map[Scope]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if name, ok := scopeNames[s]; ok {
		return name
	}
	return "unknown"
}

// Event is one record handed to a Tracer.
type Event struct {
	Time     time.Time
	Seq      uint64 // монотонный номер внутри процесса
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корня
	Name     string // "lex", "parse", "file:calc.flow"
	Detail   string
	Extra    map[string]string
}
