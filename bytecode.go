package relisp

// BytecodeVector is an opaque, heap-allocated sequence of bytecode
// ops. The core does not interpret the contents; it only materializes
// an argv and hands the cell to a BytecodeDispatcher (spec §4.3/§6 —
// the bytecode engine proper is an external collaborator).
type BytecodeVector struct {
	cellHeader
	Code []byte
	Name string
}

// NewBytecodeVector allocates a bytecode cell through h.
func (h *Heap) NewBytecodeVector(name string, code []byte) *BytecodeVector {
	bv := allocCell(h, typeCodeBytecodeVector, func() *BytecodeVector { return &BytecodeVector{} })
	bv.Name, bv.Code = name, code
	return bv
}

func init() {
	registerCoreType(typeCodeBytecodeVector, &TypeDescriptor{
		Name: "bytecode-vector",
		Compare: func(a, b Value) (int, bool) {
			if a.(*BytecodeVector) == b.(*BytecodeVector) {
				return 0, true
			}
			return 1, false
		},
		Print: func(v Value) string {
			bv := v.(*BytecodeVector)
			if bv.Name != "" {
				return "#<bytecode " + bv.Name + ">"
			}
			return "#<bytecode>"
		},
	})
}
