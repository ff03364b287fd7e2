package scaffold

import (
	"bytes"
	"encoding/json"
	"io"
)

// PatchConfig sets each key of values to a JSON string in the object stored
// at path and rewrites it with sorted keys and two-space indentation. Every
// other value is carried over as raw JSON, byte for byte apart from
// re-indentation. Only top-level keys are sorted; nested objects keep their
// source key order. The write goes through the same temp file + rename path
// as RewriteFile.
func PatchConfig(path string, values map[string]string) error {
	return replaceFile("patch", path, func(src io.Reader, dst io.Writer) error {
		data, err := io.ReadAll(src)
		if err != nil {
			return err
		}

		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return opError("patch", path, ErrConfig, err)
		}
		if doc == nil {
			doc = make(map[string]json.RawMessage, len(values))
		}

		for key, value := range values {
			raw, err := json.Marshal(value)
			if err != nil {
				return err
			}
			doc[key] = raw
		}

		// encoding/json writes map keys in sorted order.
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return err
		}
		_, err = dst.Write(buf.Bytes())
		return err
	})
}
