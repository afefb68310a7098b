package fix

import "bytes"

// ApplyEdits splices prepared edits into a copy of content.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - (e.EndOffset - e.StartOffset)
	}

	out := bytes.NewBuffer(make([]byte, 0, size))
	last := 0
	for _, e := range edits {
		out.Write(content[last:e.StartOffset])
		out.WriteString(e.NewText)
		last = e.EndOffset
	}
	out.Write(content[last:])
	return out.Bytes()
}

// Apply is all or nothing: on any error content comes back untouched.
func Apply(content []byte, edits []TextEdit) ([]byte, error) {
	prepared, err := PrepareEdits(edits, len(content))
	if err == nil {
		err = VerifyGuards(prepared, content)
	}
	if err != nil {
		return content, err
	}
	return ApplyEdits(content, prepared), nil
}
