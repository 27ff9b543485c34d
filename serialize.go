package pathfind

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"io"
)

// The helpers below turn fixed-size values and slices of fixed-size values
// into bytes and back, always little-endian. They exist so that recording
// and replaying sessions produces the exact same bytes on every platform;
// any error means the data or the code is wrong, so everything goes through
// Check.

func Serialize(w io.Writer, data any) {
	err := binary.Write(w, binary.LittleEndian, data)
	Check(err)
}

func Deserialize(r io.Reader, data any) {
	err := binary.Read(r, binary.LittleEndian, data)
	Check(err)
}

func SerializeSlice[T any](w io.Writer, s []T) {
	Serialize(w, int64(len(s)))
	if len(s) > 0 {
		Serialize(w, s)
	}
}

func DeserializeSlice[T any](r io.Reader, s *[]T) {
	var n int64
	Deserialize(r, &n)
	*s = make([]T, n)
	if n > 0 {
		Deserialize(r, *s)
	}
}

func Zip(data []byte) []byte {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	_, err := writer.Write(data)
	Check(err)
	Check(writer.Close())
	return buf.Bytes()
}

func Unzip(data []byte) []byte {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	Check(err)
	out, err := io.ReadAll(reader)
	Check(err)
	Check(reader.Close())
	return out
}
