package css

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// PseudoClasses are the built-in pseudo classes every new Engine starts with.
var PseudoClasses = map[string]func(Node) bool{
	"first-child": func(n Node) bool { return n.PreviousElementSibling() == nil },
	"last-child":  func(n Node) bool { return n.NextElementSibling() == nil },
	"only-child":  func(n Node) bool { return n.PreviousElementSibling() == nil && n.NextElementSibling() == nil },
	"empty":       func(n Node) bool { return !n.HasChildNodes() },
	"enabled":     isEnabled,
	"disabled":    Node.Disabled,
	"checked":     Node.Checked,
	"root":        func(n Node) bool { return n.ParentElement() == nil },
	"required":    func(n Node) bool { return isFormControl(n) && n.HasAttribute("required") },
	"optional":    func(n Node) bool { return isFormControl(n) && !n.HasAttribute("required") },
	"read-only":   func(n Node) bool { return isFormControl(n) && n.HasAttribute("readonly") },
	"read-write":  func(n Node) bool { return isFormControl(n) && !n.HasAttribute("readonly") },
}

// PseudoFunctions are the built-in pseudo classes taking an argument. The engine adds
// "not", which needs to compile its argument.
var PseudoFunctions = map[string]func(string) (func(Node) bool, error){
	"contains": contains,
}

// RegisterPseudo adds or replaces the pseudo class :name.
// Only expressions compiled afterwards see the change.
func (e *Engine) RegisterPseudo(name string, match func(Node) bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pseudoClasses[strings.ToLower(name)] = match
}

// RegisterPseudoWithArgument adds or replaces the pseudo class :name(argument).
// compile is called once per compiled expression with the raw argument.
// Only expressions compiled afterwards see the change.
func (e *Engine) RegisterPseudoWithArgument(name string, compile func(argument string) (func(Node) bool, error)) {
	e.registerPseudoFunction(name, func(argument string) (filterFunc, error) {
		match, err := compile(argument)
		if err != nil {
			return nil, err
		}
		return matcherFilter(match), nil
	})
}

func (e *Engine) registerPseudoFunction(name string, f func(string) (filterFunc, error)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pseudoFunctions[strings.ToLower(name)] = f
}

// PseudoNames returns the sorted names of all registered pseudo classes; names taking an
// argument are suffixed with "()".
func (e *Engine) PseudoNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := maps.Keys(e.pseudoClasses)
	for _, name := range maps.Keys(e.pseudoFunctions) {
		names = append(names, name+"()")
	}
	slices.Sort(names)
	return names
}

func (e *Engine) pseudoFilter(captures []string) (filterFunc, error) {
	e.mu.RLock()
	name := captures[0]
	match, compile := e.pseudoClasses[name], e.pseudoFunctions[name]
	e.mu.RUnlock()
	if len(captures) == 1 {
		if match == nil {
			return nil, &UnsupportedPseudoError{Name: name}
		}
		return matcherFilter(match), nil
	}
	if compile == nil {
		return nil, &UnsupportedPseudoError{Name: name, Argument: true}
	}
	return compile(captures[1])
}

// not compiles :not(expression): the candidates minus those accepted by expression.
func (e *Engine) not(expression string) (filterFunc, error) {
	cs, err := Tokenize(expression)
	if err != nil {
		return nil, err
	}
	unwanted, err := e.filterFromChains(cs)
	if err != nil {
		return nil, err
	}
	return func(ns []Node) []Node {
		skip := map[any]bool{}
		for _, n := range unwanted(ns) {
			skip[nodeKey(n)] = true
		}
		return matcherFilter(func(n Node) bool { return !skip[nodeKey(n)] })(ns)
	}, nil
}

func contains(text string) (func(Node) bool, error) {
	if l := len(text); l >= 2 && (text[0] == '"' || text[0] == '\'') && text[l-1] == text[0] {
		text = Unescape(text[1 : l-1])
	}
	return func(n Node) bool {
		content := n.TextContent()
		return content == text || strings.Contains(content, text)
	}, nil
}

func isEnabled(n Node) bool {
	t, _ := n.GetAttribute("type")
	return !n.Disabled() && !strings.EqualFold(t, "hidden")
}

func isFormControl(n Node) bool {
	switch strings.ToLower(n.TagName()) {
	case "input", "textarea", "select":
		return true
	}
	return false
}
