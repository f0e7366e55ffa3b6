package row

import (
	jsonpool "github.com/datamesa/mesa/pkg/json"
)

// MarshalJSON renders the record as a JSON object preserving pair order.
// Later duplicate headers are emitted as-is; JSON consumers that reject
// duplicate keys see the first occurrence win.
func (r *Record) MarshalJSON() ([]byte, error) {
	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	buf.WriteByte('{')
	for i, p := range r.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := jsonpool.Marshal(p.Header)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := jsonpool.Marshal(p.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}
