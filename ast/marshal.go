package ast

import "encoding/json"

// JSON marshaling renders the tree with a "kind" discriminator on
// every node and a resolved "type" on every expression, which is what
// the CLI's ast command prints. Unmarshaling is not supported; the
// tree is only ever built by the analyzer.

func marshalStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return []Stmt{}
	}
	return stmts
}

func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Stmts []Stmt `json:"statements"`
	}{p.Kind(), marshalStmts(p.Stmts)})
}

func (s *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Stmts []Stmt `json:"statements"`
	}{s.Kind(), marshalStmts(s.Stmts)})
}

func (s *Assign) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind     Kind   `json:"kind"`
		Name     *Ident `json:"name"`
		Value    Expr   `json:"value"`
		Declares bool   `json:"declares"`
	}{s.Kind(), s.Name, s.Value, s.Declares})
}

func (s *Print) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind `json:"kind"`
		Value Expr `json:"value"`
	}{s.Kind(), s.Value})
}

func (s *Func) MarshalJSON() ([]byte, error) {
	params := make([]string, 0, len(s.Params))
	for _, p := range s.Params {
		params = append(params, p.String())
	}
	returns := TypeUnknown
	if s.Name != nil && s.Name.Binding != nil {
		returns = s.Name.Binding.RetType
	}
	return json.Marshal(struct {
		Kind    Kind     `json:"kind"`
		Name    string   `json:"name"`
		Params  []string `json:"params"`
		Returns string   `json:"returns"`
		Body    *Block   `json:"body"`
	}{s.Kind(), s.Name.String(), params, returns.String(), s.Body})
}

func (s *Return) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind `json:"kind"`
		Value Expr `json:"value"`
	}{s.Kind(), s.Value})
}

func (s *Break) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind `json:"kind"`
	}{s.Kind()})
}

func (s *If) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind       Kind   `json:"kind"`
		Cond       Expr   `json:"condition"`
		Consequent *Block `json:"consequent"`
		Alternate  Stmt   `json:"alternate,omitempty"`
	}{s.Kind(), s.Cond, s.Consequent, s.Alternate})
}

func (s *While) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Var   *Ident `json:"var"`
		Range *Range `json:"range"`
		Body  *Block `json:"body"`
	}{s.Kind(), s.Var, s.Bound, s.Body})
}

func (s *Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Text string `json:"text"`
	}{s.Kind(), s.Text})
}

func (x *Ident) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Name string `json:"name"`
		Type string `json:"type"`
	}{x.Kind(), x.String(), x.Type().String()})
}

func (x *Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind    `json:"kind"`
		Value float64 `json:"value"`
		Type  string  `json:"type"`
	}{x.Kind(), x.Value, x.Type().String()})
}

func (x *String) MarshalJSON() ([]byte, error) {
	segments := make([]any, 0, len(x.Segments))
	for _, seg := range x.Segments {
		if seg.Expr != nil {
			segments = append(segments, struct {
				Expr Expr `json:"expr"`
			}{seg.Expr})
			continue
		}
		segments = append(segments, struct {
			Text string `json:"text"`
		}{seg.Text})
	}
	return json.Marshal(struct {
		Kind     Kind   `json:"kind"`
		Segments []any  `json:"segments"`
		Type     string `json:"type"`
	}{x.Kind(), segments, x.Type().String()})
}

func (x *Bool) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Value bool   `json:"value"`
		Type  string `json:"type"`
	}{x.Kind(), x.Value, x.Type().String()})
}

func (x *Unary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind    Kind   `json:"kind"`
		Op      string `json:"op"`
		Operand Expr   `json:"operand"`
		Type    string `json:"type"`
	}{x.Kind(), x.Op, x.X, x.Type().String()})
}

func (x *Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Op    string `json:"op"`
		Left  Expr   `json:"left"`
		Right Expr   `json:"right"`
		Type  string `json:"type"`
	}{x.Kind(), x.Op, x.X, x.Y, x.Type().String()})
}

func (x *Compare) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind   `json:"kind"`
		Op    string `json:"op"`
		Left  Expr   `json:"left"`
		Right Expr   `json:"right"`
		Type  string `json:"type"`
	}{x.Kind(), x.Op, x.X, x.Y, x.Type().String()})
}

func (x *Call) MarshalJSON() ([]byte, error) {
	args := make([]Expr, 0, len(x.Args))
	args = append(args, x.Args...)
	return json.Marshal(struct {
		Kind Kind   `json:"kind"`
		Fun  string `json:"function"`
		Args []Expr `json:"args"`
		Type string `json:"type"`
	}{x.Kind(), x.Fun.String(), args, x.Type().String()})
}

func (x *Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind  Kind `json:"kind"`
		Bound Expr `json:"bound"`
	}{x.Kind(), x.Bound})
}
