package discover

import (
	"context"
	"os"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"splitgraph/internal/graph"
)

var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// importRef is a dependency reference found in source: either a relative
// specifier resolved against the importing file, or a bare specifier
// naming a package outside the tree.
type importRef struct {
	spec  string
	async bool
}

func languageFor(path string) *sitter.Language {
	switch filepath.Ext(path) {
	case ".ts", ".tsx":
		return typescript.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// parseDependencies reads path, extracts every static and dynamic import,
// resolves each against the tree or registers it as an external module,
// and adds the corresponding dependency edges.
func (b *builder) parseDependencies(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(languageFor(path))
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return err
	}
	defer tree.Close()

	var refs []importRef
	collectImports(tree.RootNode(), content, &refs)

	from := b.idByPath[path]
	for _, ref := range refs {
		to, err := b.resolve(path, ref.spec)
		if err != nil {
			return err
		}
		if err := b.mg.AddDependency(from, to, ref.async); err != nil {
			return err
		}
	}
	return nil
}

// collectImports walks the AST looking for static import statements,
// require(...) calls, and dynamic import(...) calls with a recursive
// descent over every child node.
func collectImports(node *sitter.Node, content []byte, out *[]importRef) {
	switch node.Type() {
	case "import_statement":
		if source := node.ChildByFieldName("source"); source != nil {
			*out = append(*out, importRef{spec: stringLiteral(source, content)})
		}
	case "export_statement":
		if source := node.ChildByFieldName("source"); source != nil {
			*out = append(*out, importRef{spec: stringLiteral(source, content)})
		}
	case "call_expression":
		if fn := node.ChildByFieldName("function"); fn != nil {
			args := node.ChildByFieldName("arguments")
			spec, ok := firstStringArg(args, content)
			if ok {
				switch {
				case fn.Type() == "import":
					*out = append(*out, importRef{spec: spec, async: true})
				case fn.Type() == "identifier" && nodeText(fn, content) == "require":
					*out = append(*out, importRef{spec: spec})
				}
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		collectImports(node.Child(i), content, out)
	}
}

func firstStringArg(args *sitter.Node, content []byte) (string, bool) {
	if args == nil {
		return "", false
	}
	for i := 0; i < int(args.ChildCount()); i++ {
		c := args.Child(i)
		if c.Type() == "string" {
			return stringLiteral(c, content), true
		}
	}
	return "", false
}

func nodeText(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}

// stringLiteral strips the surrounding quote characters from a tree-sitter
// "string" node's text.
func stringLiteral(n *sitter.Node, content []byte) string {
	text := nodeText(n, content)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

// resolve maps an import specifier found in fromFile to a module handle:
// either a filesystem-backed module (already registered by moduleFor) or
// an external placeholder module, created on first use.
func (b *builder) resolve(fromFile, spec string) (graph.ModuleID, error) {
	if len(spec) == 0 || (spec[0] != '.' && spec[0] != '/') {
		return b.externalModule(spec)
	}

	base := filepath.Clean(filepath.Join(filepath.Dir(fromFile), spec))
	for _, candidate := range candidatePaths(base) {
		if id, ok := b.idByPath[candidate]; ok {
			return id, nil
		}
	}
	// Unresolved relative import (e.g. a file excluded by gitignore or
	// genuinely missing): fall back to an external-style placeholder keyed
	// by the resolved base path so repeated imports of it still collapse
	// to one module.
	return b.externalModule(base)
}

func candidatePaths(base string) []string {
	candidates := []string{base}
	for _, ext := range resolveExtensions {
		candidates = append(candidates, base+ext)
	}
	for _, ext := range resolveExtensions {
		candidates = append(candidates, filepath.Join(base, "index"+ext))
	}
	return candidates
}
