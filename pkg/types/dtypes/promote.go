package dtypes

// promotionRank orders the types that take part in implicit promotion. A larger rank wins.
var promotionRank = map[DType]int{
	Bool:    0,
	Uint8:   1,
	Int8:    1,
	Int16:   2,
	Int32:   3,
	Int64:   4,
	Float16: 5,
	Float32: 6,
	Float64: 7,
}

// Promote returns the type both a and b are implicitly converted to when combined in an
// arithmetic operation, following the framework's promotion table:
// bool < (uint8, int8) < int16 < int32 < int64 < float16 < float32 < float64,
// with uint8 combined with int8 promoting to int16.
//
// It returns InvalidDType if either type does not take part in promotion.
func Promote(a, b DType) DType {
	if a == b {
		return a
	}
	ra, okA := promotionRank[a]
	rb, okB := promotionRank[b]
	if !okA || !okB {
		return InvalidDType
	}
	if ra == rb {
		// Only uint8 and int8 share a rank.
		return Int16
	}
	if ra > rb {
		return a
	}
	return b
}

// PromoteAll folds Promote over all the given types. It returns InvalidDType for an empty list.
func PromoteAll(types ...DType) DType {
	if len(types) == 0 {
		return InvalidDType
	}
	result := types[0]
	for _, dtype := range types[1:] {
		result = Promote(result, dtype)
	}
	return result
}
