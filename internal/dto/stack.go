package dto

// StackKind selects the program a stack runs.
type StackKind int

const (
	IdentityStack StackKind = iota
	DataStack
)

func (k StackKind) String() string {
	if k == DataStack {
		return "data"
	}
	return "identity"
}

type StackRequest struct {
	Stack  string
	Kind   StackKind
	Config map[string]string
}

type StackOutput struct {
	Value  any
	Secret bool
}

type StackResult struct {
	Outputs map[string]StackOutput
	Changes map[string]int
}

// String reads a string output. ok is false when the output is missing or
// not a string.
func (r StackResult) String(key string) (string, bool) {
	out, found := r.Outputs[key]
	if !found {
		return "", false
	}
	s, ok := out.Value.(string)
	return s, ok
}

func (r StackResult) Bool(key string) (bool, bool) {
	out, found := r.Outputs[key]
	if !found {
		return false, false
	}
	b, ok := out.Value.(bool)
	return b, ok
}

// StringMap reads a map output with string values; other entries are skipped.
func (r StackResult) StringMap(key string) map[string]string {
	out, found := r.Outputs[key]
	if !found {
		return nil
	}
	raw, ok := out.Value.(map[string]any)
	if !ok {
		return nil
	}
	m := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			m[k] = s
		}
	}
	return m
}
