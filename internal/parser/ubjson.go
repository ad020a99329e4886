package parser

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ubjson is a reader for the subset of Universal Binary JSON used by .slp
// files: objects, arrays (including the typed/counted optimized form),
// strings, integers, floats, booleans and null.
type ubjson struct {
	buf []byte
	pos int
}

func (u *ubjson) next() (byte, error) {
	if u.pos >= len(u.buf) {
		return 0, fmt.Errorf("ubjson: unexpected end of data at %d", u.pos)
	}
	b := u.buf[u.pos]
	u.pos++
	return b, nil
}

func (u *ubjson) peek() (byte, error) {
	if u.pos >= len(u.buf) {
		return 0, fmt.Errorf("ubjson: unexpected end of data at %d", u.pos)
	}
	return u.buf[u.pos], nil
}

func (u *ubjson) take(n int) ([]byte, error) {
	if n < 0 || u.pos+n > len(u.buf) {
		return nil, fmt.Errorf("ubjson: need %d bytes at %d, have %d", n, u.pos, len(u.buf)-u.pos)
	}
	b := u.buf[u.pos : u.pos+n]
	u.pos += n
	return b, nil
}

// marker returns the next type marker, skipping no-ops.
func (u *ubjson) marker() (byte, error) {
	for {
		m, err := u.next()
		if err != nil || m != 'N' {
			return m, err
		}
	}
}

func (u *ubjson) integer(m byte) (int64, error) {
	switch m {
	case 'i':
		b, err := u.take(1)
		if err != nil {
			return 0, err
		}
		return int64(int8(b[0])), nil
	case 'U':
		b, err := u.take(1)
		if err != nil {
			return 0, err
		}
		return int64(b[0]), nil
	case 'I':
		b, err := u.take(2)
		if err != nil {
			return 0, err
		}
		return int64(int16(binary.BigEndian.Uint16(b))), nil
	case 'l':
		b, err := u.take(4)
		if err != nil {
			return 0, err
		}
		return int64(int32(binary.BigEndian.Uint32(b))), nil
	case 'L':
		b, err := u.take(8)
		if err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("ubjson: marker %q is not an integer", m)
	}
}

func (u *ubjson) length() (int, error) {
	m, err := u.marker()
	if err != nil {
		return 0, err
	}
	n, err := u.integer(m)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > int64(len(u.buf)) {
		return 0, fmt.Errorf("ubjson: bad length %d", n)
	}
	return int(n), nil
}

// str reads a length-prefixed string; object keys use this form without
// a leading 'S'.
func (u *ubjson) str() (string, error) {
	n, err := u.length()
	if err != nil {
		return "", err
	}
	b, err := u.take(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// value decodes the value introduced by marker m. Objects become
// map[string]any, byte arrays []byte, other arrays []any.
func (u *ubjson) value(m byte) (any, error) {
	switch m {
	case 'Z':
		return nil, nil
	case 'T':
		return true, nil
	case 'F':
		return false, nil
	case 'i', 'U', 'I', 'l', 'L':
		return u.integer(m)
	case 'd':
		b, err := u.take(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case 'D':
		b, err := u.take(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case 'C':
		b, err := u.take(1)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case 'S', 'H':
		return u.str()
	case '[':
		return u.array()
	case '{':
		return u.object()
	default:
		return nil, fmt.Errorf("ubjson: unknown marker %q at %d", m, u.pos-1)
	}
}

// header reads the optional $type and #count of a container.
func (u *ubjson) header() (typ byte, count int, err error) {
	count = -1
	p, err := u.peek()
	if err != nil {
		return 0, 0, err
	}
	if p == '$' {
		u.pos++
		if typ, err = u.next(); err != nil {
			return 0, 0, err
		}
		if p, err = u.peek(); err != nil {
			return 0, 0, err
		}
		if p != '#' {
			return 0, 0, fmt.Errorf("ubjson: typed container without count at %d", u.pos)
		}
	}
	if p == '#' {
		u.pos++
		if count, err = u.length(); err != nil {
			return 0, 0, err
		}
	}
	return typ, count, nil
}

func (u *ubjson) array() (any, error) {
	typ, count, err := u.header()
	if err != nil {
		return nil, err
	}
	if count >= 0 && (typ == 'U' || typ == 'i') {
		return u.take(count)
	}

	var out []any
	for i := 0; count < 0 || i < count; i++ {
		m := typ
		if m == 0 {
			if m, err = u.marker(); err != nil {
				return nil, err
			}
			if count < 0 && m == ']' {
				break
			}
		}
		v, err := u.value(m)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (u *ubjson) object() (map[string]any, error) {
	typ, count, err := u.header()
	if err != nil {
		return nil, err
	}

	out := make(map[string]any)
	for i := 0; count < 0 || i < count; i++ {
		if count < 0 {
			p, err := u.peek()
			if err != nil {
				return nil, err
			}
			if p == '}' {
				u.pos++
				break
			}
		}
		key, err := u.str()
		if err != nil {
			return nil, err
		}
		m := typ
		if m == 0 {
			if m, err = u.marker(); err != nil {
				return nil, err
			}
		}
		v, err := u.value(m)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = v
	}
	return out, nil
}
