package shapekit

// TrainingMetrics is the per-epoch result of a training run.
type TrainingMetrics struct {
	Epoch       float64  `json:"epoch"`
	Loss        float64  `json:"loss"`
	Accuracy    float64  `json:"accuracy"`
	ValLoss     *float64 `json:"valLoss,omitempty"`
	ValAccuracy *float64 `json:"valAccuracy,omitempty"`
}

// MetricsRule returns the record rule behind IsMetricsRecord.
func MetricsRule() RecordRule {
	return RecordRule{Fields: []FieldSpec{
		{Name: "epoch", Kind: KindNumber, Required: true},
		{Name: "loss", Kind: KindNumber, Required: true},
		{Name: "accuracy", Kind: KindNumber, Required: true},
		{Name: "valLoss", Kind: KindNumber},
		{Name: "valAccuracy", Kind: KindNumber},
	}}
}

// IsMetricsRecord reports whether v has numeric epoch, loss and accuracy.
func IsMetricsRecord(v any) bool {
	return IsRecord(v, MetricsRule())
}

// CheckMetrics reports why v is not a metrics record.
func CheckMetrics(v any) Issues {
	return CheckRecord(v, MetricsRule())
}

// AsMetrics narrows v to TrainingMetrics.
func AsMetrics(v any) (TrainingMetrics, bool) {
	r, ok := AsRecord(v, MetricsRule())
	if !ok {
		return TrainingMetrics{}, false
	}
	var m TrainingMetrics
	m.Epoch, _ = r.Number("epoch")
	m.Loss, _ = r.Number("loss")
	m.Accuracy, _ = r.Number("accuracy")
	if f, ok := r.Number("valLoss"); ok {
		m.ValLoss = &f
	}
	if f, ok := r.Number("valAccuracy"); ok {
		m.ValAccuracy = &f
	}
	return m, true
}
