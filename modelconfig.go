package shapekit

// ModelConfig describes a sequential model: its input shape and layer stack.
type ModelConfig struct {
	Name       string        `json:"name"`
	InputShape []float64     `json:"inputShape"`
	Layers     []LayerConfig `json:"layers"`
	Optimizer  string        `json:"optimizer"`
	Loss       string        `json:"loss"`
}

// LayerConfig is one entry of ModelConfig.Layers.
type LayerConfig struct {
	Type       string   `json:"type"`
	Units      *float64 `json:"units,omitempty"`
	Activation string   `json:"activation,omitempty"`
	Rate       *float64 `json:"rate,omitempty"`
}

var (
	modelRule = RecordRule{Fields: []FieldSpec{
		{Name: "name", Kind: KindText, Required: true},
		{Name: "optimizer", Kind: KindText, Required: true},
		{Name: "loss", Kind: KindText, Required: true},
	}}
	layerRule = RecordRule{Fields: []FieldSpec{
		{Name: "type", Kind: KindText, Required: true},
		{Name: "units", Kind: KindNumber},
		{Name: "activation", Kind: KindText},
		{Name: "rate", Kind: KindNumber},
	}}
	inputShapeRule = TensorRule{Rank: 1}
)

// IsModelConfig reports whether v is a model configuration: text name,
// optimizer and loss, a rank-1 numeric inputShape, and a layers sequence
// whose entries each carry a text type.
func IsModelConfig(v any) bool {
	return len(checkModelConfig(v, true)) == 0
}

// CheckModelConfig reports why v is not a model configuration.
func CheckModelConfig(v any) Issues {
	return checkModelConfig(v, false)
}

// AsModelConfig narrows v to ModelConfig.
func AsModelConfig(v any) (ModelConfig, bool) {
	if !IsModelConfig(v) {
		return ModelConfig{}, false
	}
	r, _ := AsRecord(v, modelRule)
	var mc ModelConfig
	mc.Name, _ = r.Text("name")
	mc.Optimizer, _ = r.Text("optimizer")
	mc.Loss, _ = r.Text("loss")
	shape, _ := r.m.Lookup("inputShape")
	if t, ok := AsTensor(shape, inputShapeRule); ok {
		mc.InputShape = t.Flatten()
	}
	layers, _ := r.m.Lookup("layers")
	seq, _ := asSequence(layers)
	mc.Layers = make([]LayerConfig, 0, seq.Len())
	for i := 0; i < seq.Len(); i++ {
		lr, _ := AsRecord(seq.At(i), layerRule)
		var l LayerConfig
		l.Type, _ = lr.Text("type")
		l.Activation, _ = lr.Text("activation")
		if f, ok := lr.Number("units"); ok {
			l.Units = &f
		}
		if f, ok := lr.Number("rate"); ok {
			l.Rate = &f
		}
		mc.Layers = append(mc.Layers, l)
	}
	return mc, true
}

func checkModelConfig(v any, failFast bool) Issues {
	root := PathRef{}
	m, ok := asMapping(v)
	if !ok {
		return Issues{root.Issue(CodeInvalidType, "expected", "object")}
	}
	iss := checkFields(m, modelRule, root, failFast)
	if failFast && len(iss) > 0 {
		return iss
	}

	at := root.Field("inputShape")
	if shape, ok := m.Lookup("inputShape"); !ok {
		iss = append(iss, at.Issue(CodeRequired, "expected", "sequence"))
	} else {
		w := tensorWalker{policy: inputShapeRule.Policy, failFast: failFast}
		w.check(shape, inputShapeRule.Rank, at)
		iss = append(iss, w.issues...)
	}
	if failFast && len(iss) > 0 {
		return iss
	}

	at = root.Field("layers")
	layers, ok := m.Lookup("layers")
	if !ok {
		return append(iss, at.Issue(CodeRequired, "expected", "sequence"))
	}
	seq, ok := asSequence(layers)
	if !ok {
		return append(iss, at.Issue(CodeInvalidType, "expected", "sequence"))
	}
	for i := 0; i < seq.Len(); i++ {
		iss = append(iss, checkRecordAt(seq.At(i), layerRule, at.Index(i), failFast)...)
		if failFast && len(iss) > 0 {
			return iss
		}
	}
	return iss
}
