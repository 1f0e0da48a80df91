package utils

/*
ConvertToFloat32 narrows an embedding returned as float64 by a vendor SDK to
the float32 vectors the schema index stores.
*/
func ConvertToFloat32(values []float64) []float32 {
	out := make([]float32, len(values))

	for i, v := range values {
		out[i] = float32(v)
	}

	return out
}
