package packet

import (
	"encoding/binary"
	"math"
)

// Reader decodes packet payloads field by field. All fields are
// little-endian. Reads past the end return zero values and set the
// truncated flag; typed decoders check OK() once at the end instead of
// error-checking every field.
type Reader struct {
	data      []byte
	pos       int
	truncated bool
}

// NewReader wraps a packet body (the bytes after the type byte).
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// OK reports whether every read so far was in bounds.
func (r *Reader) OK() bool { return !r.truncated }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) take(n int) []byte {
	if r.pos+n > len(r.data) {
		r.truncated = true
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

// ReadC reads one byte.
func (r *Reader) ReadC() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// ReadH reads a uint16.
func (r *Reader) ReadH() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// ReadD reads a uint32.
func (r *Reader) ReadD() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// ReadF reads a float32.
func (r *Reader) ReadF() float32 {
	return math.Float32frombits(r.ReadD())
}

// ReadS reads a uint16-length-prefixed UTF-8 string.
func (r *Reader) ReadS() string {
	n := int(r.ReadH())
	b := r.take(n)
	if b == nil {
		return ""
	}
	return string(b)
}

// ReadBytes reads n raw bytes.
func (r *Reader) ReadBytes(n int) []byte {
	b := r.take(n)
	if b == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// Writer builds an outgoing packet: type byte followed by fields.
type Writer struct {
	buf []byte
}

// NewWriter starts a packet of the given type.
func NewWriter(t MsgType) *Writer {
	return &Writer{buf: []byte{byte(t)}}
}

func (w *Writer) WriteC(v uint8) { w.buf = append(w.buf, v) }

func (w *Writer) WriteH(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteD(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) WriteF(v float32) {
	w.WriteD(math.Float32bits(v))
}

func (w *Writer) WriteS(s string) {
	w.WriteH(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) WriteBytes(b []byte) { w.buf = append(w.buf, b...) }

// Bytes returns the finished packet.
func (w *Writer) Bytes() []byte { return w.buf }

// PeekType returns the packet type, or false if the packet is shorter
// than the header.
func PeekType(data []byte) (MsgType, bool) {
	if len(data) < HeaderLen {
		return 0, false
	}
	return MsgType(data[0]), true
}

func readTransform(r *Reader) Transform {
	return Transform{
		X: r.ReadF(), Y: r.ReadF(), Z: r.ReadF(),
		QX: r.ReadF(), QY: r.ReadF(), QZ: r.ReadF(), QW: r.ReadF(),
	}
}

func writeTransform(w *Writer, t Transform) {
	w.WriteF(t.X)
	w.WriteF(t.Y)
	w.WriteF(t.Z)
	w.WriteF(t.QX)
	w.WriteF(t.QY)
	w.WriteF(t.QZ)
	w.WriteF(t.QW)
}
