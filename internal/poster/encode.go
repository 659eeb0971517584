package poster

import (
	"bytes"
	"encoding/json"
)

// ContentType of encoded payloads.
const ContentType = "application/json"

// EncodeBody serializes the mapped fields as a flat JSON object of string
// values, preserving the field order as supplied. encoding/json is used per
// element for escaping only; marshalling a map would sort the keys.
func EncodeBody(fields []Field) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(f.Key)
		v, _ := json.Marshal(f.Value)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}
