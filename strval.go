package relisp

// StringVal is the heap string cell. Unlike Go's native string it is
// a Cell so it can be a GC root target and flow through Value.
type StringVal struct {
	cellHeader
	Data []byte
}

// NewString allocates a string cell through h with a private copy of
// s, so later mutation of the caller's bytes cannot alias the cell.
func (h *Heap) NewString(s string) *StringVal {
	sv := allocCell(h, typeCodeString, func() *StringVal { return &StringVal{} })
	sv.Data = append([]byte(nil), s...)
	return sv
}

func (s *StringVal) String() string { return string(s.Data) }

func init() {
	registerCoreType(typeCodeString, &TypeDescriptor{
		Name: "string",
		Compare: func(a, b Value) (int, bool) {
			x, y := string(a.(*StringVal).Data), string(b.(*StringVal).Data)
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			default:
				return 0, true
			}
		},
		Print: func(v Value) string { return quoteString(v.(*StringVal).String()) },
		PutC: func(v Value, r rune) (int, *Exception) {
			s := v.(*StringVal)
			s.Data = append(s.Data, string(r)...)
			return 1, nil
		},
		PutS: func(v Value, b []byte, _ bool) (int, *Exception) {
			s := v.(*StringVal)
			s.Data = append(s.Data, b...)
			return len(b), nil
		},
	})
}

func quoteString(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '"')
	return string(out)
}
