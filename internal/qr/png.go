package qr

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/klauspost/compress/zlib"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const (
	bitDepth       = 8
	colorTypeRGB   = 2
	filterNone     = 0
	bytesPerPixel  = 3
	ihdrPayloadLen = 13
)

// Encode renders m as a truecolour PNG, painting dark pixels fg and light pixels bg.
// On error no partial image is returned.
func Encode(m *Matrix, fg, bg RGB) ([]byte, error) {
	if m == nil || m.Side <= 0 {
		return nil, fmt.Errorf("encode png: empty matrix")
	}

	idat, err := compressScanlines(m, fg, bg)
	if err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	var buf bytes.Buffer
	buf.Grow(len(pngSignature) + 3*12 + ihdrPayloadLen + len(idat))
	buf.Write(pngSignature)
	writeChunk(&buf, "IHDR", ihdr(m.Side, m.Side))
	writeChunk(&buf, "IDAT", idat)
	writeChunk(&buf, "IEND", nil)
	return buf.Bytes(), nil
}

func ihdr(width, height int) []byte {
	p := make([]byte, ihdrPayloadLen)
	binary.BigEndian.PutUint32(p[0:4], uint32(width))
	binary.BigEndian.PutUint32(p[4:8], uint32(height))
	p[8] = bitDepth
	p[9] = colorTypeRGB
	// compression, filter and interlace methods stay 0
	return p
}

// compressScanlines builds the filter-0 RGB scanlines and zlib-compresses them.
func compressScanlines(m *Matrix, fg, bg RGB) ([]byte, error) {
	stride := 1 + m.Side*bytesPerPixel
	raw := make([]byte, stride*m.Side)
	for y := 0; y < m.Side; y++ {
		line := raw[y*stride:]
		line[0] = filterNone
		for x := 0; x < m.Side; x++ {
			c := bg
			if m.At(x, y) {
				c = fg
			}
			o := 1 + x*bytesPerPixel
			line[o], line[o+1], line[o+2] = c.R, c.G, c.B
		}
	}

	var out bytes.Buffer
	zw, err := zlib.NewWriterLevel(&out, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// writeChunk appends length, type, payload and the CRC-32 of type+payload.
func writeChunk(buf *bytes.Buffer, typ string, payload []byte) {
	var word [4]byte
	binary.BigEndian.PutUint32(word[:], uint32(len(payload)))
	buf.Write(word[:])

	crc := crc32.NewIEEE()
	_, _ = crc.Write([]byte(typ))
	_, _ = crc.Write(payload)

	buf.WriteString(typ)
	buf.Write(payload)
	binary.BigEndian.PutUint32(word[:], crc.Sum32())
	buf.Write(word[:])
}
