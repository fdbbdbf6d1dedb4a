package cpu

// computeFlatIndex maps a flat output index to the flat input index.
// outStrides are the row-major strides of the output shape; inStrides the
// broadcast-adjusted strides of the input.
func computeFlatIndex(outIdx int, outStrides, inStrides []int) int {
	flatIdx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		flatIdx += coord * inStrides[i]
	}
	return flatIdx
}
