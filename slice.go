package urlfile

// Slice returns a view of the bytes [start, end) of f, relative to f's own
// window. Negative offsets count back from the end of f, as with Python
// slices. The optional contentType sets the MIME type of the returned view,
// and defaults to f's type.
//
// Slice never makes a request and never modifies f. It returns f itself when
// f is empty or when the slice covers all of f, and a new File otherwise.
func (f *File) Slice(start, end int64, contentType ...string) *File {
	if f.size == 0 {
		return f
	}

	typ := f.typ
	if len(contentType) > 0 {
		typ = contentType[0]
	}

	if end < 0 {
		end = max(f.size+end, 0)
	}

	if start < 0 {
		start = max(f.size+start, 0)
	}

	if end == 0 {
		return f.empty(typ)
	}

	safeEnd := min(end, f.size)
	safeStart := min(start, safeEnd)

	n := safeEnd - safeStart
	if n == 0 {
		return f.empty(typ)
	}

	if n == f.size {
		return f
	}

	return f.derive(typ, f.start+safeStart, f.start+safeEnd)
}

// SliceFrom returns the view of f from start to its end. It is shorthand for
// f.Slice(start, f.Size()).
func (f *File) SliceFrom(start int64) *File {
	return f.Slice(start, f.size)
}

func (f *File) empty(typ string) *File {
	return f.derive(typ, 0, 0)
}

// derive returns a new view of the same remote resource with the given type
// and window.
func (f *File) derive(typ string, start, end int64) *File {
	return &File{
		u:         f.u,
		transport: f.transport,
		header:    f.header,
		modTime:   f.modTime,
		name:      f.name,
		typ:       typ,
		relPath:   f.relPath,
		size:      end - start,
		trueSize:  f.trueSize,
		start:     start,
		end:       end,
		rangeChk:  f.rangeChk,
	}
}
