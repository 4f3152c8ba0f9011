package driver

import (
	"flow/internal/diag"
	"flow/internal/lexer"
	"flow/internal/source"
	"flow/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads a .flow file and returns every token including Whitespace, Unknown and the final EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	if err := CheckPath(path); err != nil {
		return nil, err
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	return tokenizeFile(fs, fs.Get(fileID), maxDiagnostics), nil
}

// TokenizeString tokenizes an in-memory expression.
func TokenizeString(text string, maxDiagnostics int) *TokenizeResult {
	fs := source.NewFileSet()
	id := fs.AddVirtual(InputName, []byte(text))
	return tokenizeFile(fs, fs.Get(id), maxDiagnostics)
}

func tokenizeFile(fs *source.FileSet, file *source.File, maxDiagnostics int) *TokenizeResult {
	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{
		Reporter:       diag.BagReporter{Bag: bag},
		MaxDiagnostics: maxDiagnostics,
	})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}
}
