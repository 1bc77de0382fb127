package relisp

// Datum is the opaque-value facility from spec §4.5, grounded directly
// on librep's datums.c: an identity value (conventionally a Symbol,
// but any comparable Value works) paired with an arbitrary payload.
// Two datums compare equal only when their identities are identical
// and their payloads compare equal (datum_cmp).
type Datum struct {
	cellHeader
	id      Value
	payload Value
}

func (d *Datum) typeCode() TypeCode  { return typeCodeDatum }
func (d *Datum) header() *cellHeader { return &d.cellHeader }

func init() {
	registerCoreType(typeCodeDatum, &TypeDescriptor{
		Name: "datum",
		Compare: func(a, b Value) (int, bool) {
			da, db := a.(*Datum), b.(*Datum)
			if id, ok := ValueCompare(da.id, db.id); !ok || id != 0 {
				return 1, false
			}
			return ValueCompare(da.payload, db.payload)
		},
		Mark: func(v Value, mark func(Value)) {
			d := v.(*Datum)
			mark(d.id)
			mark(d.payload)
		},
		Print: func(v Value) string { return printDatum(v.(*Datum)) },
	})
}

// datumPrinters maps an identity value (compared with ValueCompare) to
// a user-supplied printer function, the Go equivalent of datums.c's
// (ID . PRINTER) alist.
type datumPrinterEntry struct {
	id      Value
	printer func(d *Datum, s Stream) *Exception
}

var datumPrinters []datumPrinterEntry

// MakeDatum allocates a new datum of identity id wrapping payload.
func (it *Interp) MakeDatum(payload, id Value) *Datum {
	d := allocCell(it.heap, typeCodeDatum, func() *Datum { return &Datum{} })
	d.id, d.payload = id, payload
	return d
}

// DefineDatumPrinter installs (or replaces) the printer registered for
// id, mirroring define-datum-printer's "replace existing cell, else
// prepend" behavior.
func DefineDatumPrinter(id Value, printer func(d *Datum, s Stream) *Exception) {
	for i := range datumPrinters {
		if cmp, ok := ValueCompare(datumPrinters[i].id, id); ok && cmp == 0 {
			datumPrinters[i].printer = printer
			return
		}
	}
	datumPrinters = append(datumPrinters, datumPrinterEntry{id: id, printer: printer})
}

func lookupDatumPrinter(id Value) func(d *Datum, s Stream) *Exception {
	for _, e := range datumPrinters {
		if cmp, ok := ValueCompare(e.id, id); ok && cmp == 0 {
			return e.printer
		}
	}
	return nil
}

// DatumP reports whether v is a datum of identity id.
func DatumP(v Value, id Value) bool {
	d, ok := v.(*Datum)
	if !ok {
		return false
	}
	cmp, ok := ValueCompare(d.id, id)
	return ok && cmp == 0
}

// DatumRef returns d's payload if it has identity id, else an
// Exception (spec §4.5 "datum-ref signals an error on identity
// mismatch").
func (it *Interp) DatumRef(v Value, id Value) (Value, *Exception) {
	if !DatumP(v, id) {
		return nil, it.SignalBadArg(1, v)
	}
	return v.(*Datum).payload, nil
}

// DatumSet replaces d's payload if it has identity id, else signals an
// error.
func (it *Interp) DatumSet(v Value, id Value, payload Value) *Exception {
	if !DatumP(v, id) {
		return it.SignalBadArg(1, v)
	}
	v.(*Datum).payload = payload
	return nil
}

// printDatum implements the datum_print fallback chain: a registered
// printer first, then "#<datum NAME>" when the identity is a Symbol,
// then the bare "#<datum>" default. The transient output stream used
// to capture a registered printer's output is built directly rather
// than through allocCell, since Print must work without access to an
// *Interp/Heap.
func printDatum(d *Datum) string {
	if p := lookupDatumPrinter(d.id); p != nil {
		out := &StringOutputStream{}
		if exc := p(d, out); exc == nil {
			return out.String()
		}
	}
	if sym, ok := d.id.(*Symbol); ok {
		return "#<datum " + sym.Name + ">"
	}
	return "#<datum>"
}

// DefineDatumSubrs registers the spec §4.5 datum primitives as
// Lisp-callable globals. define-datum-printer's PRINTER argument is a
// Lisp function called with (datum stream), adapted into the Go
// printer-table shape by closing over it.Call2.
func (it *Interp) DefineDatumSubrs() {
	DefSubrN("make-datum", Arity2, func(payload, id Value) (Value, *Exception) {
		return it.MakeDatum(payload, id), nil
	})

	DefSubrN("define-datum-printer", Arity2, func(id, fn Value) (Value, *Exception) {
		DefineDatumPrinter(id, func(d *Datum, s Stream) *Exception {
			_, exc := it.Call2(fn, d, s)
			return exc
		})
		return id, nil
	})

	DefSubrN("datum-ref", Arity2, func(v, id Value) (Value, *Exception) {
		return it.DatumRef(v, id)
	})

	DefSubrN("datum-set!", Arity3, func(v, id, payload Value) (Value, *Exception) {
		if exc := it.DatumSet(v, id, payload); exc != nil {
			return nil, exc
		}
		return payload, nil
	})

	DefSubrN("datum?", Arity2, func(v, id Value) (Value, *Exception) {
		return Bool(DatumP(v, id)), nil
	})
}
