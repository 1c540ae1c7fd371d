// Package shapekit provides:
//
// - Structural validation of untyped values (numeric tensors, flat records) via Is*/As*/Check*
// - Narrowed results (Tensor, Record, TrainingMetrics, ModelConfig) so callers never cast after a check
// - The EntitySchema model consumed by the scaffold generator
// - A stable diagnostic model via Issues (JSON Pointer, code, message)
//
// Design policy:
// - Validation never panics and never returns an error; a mismatch is simply false.
// - Check* functions report the same verdict as Is* with paths and codes for humans.
// - Keep only public APIs in the root package. Decoding lives in source/, code
//   generation in scaffold/ and internal/, and the HTTP runtime in crud/.
//
// Typical usage:
//
//	if t, ok := shapekit.AsTensor(v, shapekit.TensorRule{}); ok {
//		fmt.Println(t.Rank(), t.Flatten())
//	}
//	ok := shapekit.IsEntityRecord(body, userSchema)
//	iss := shapekit.CheckRecord(body, userSchema.Rule())
package shapekit
