// Package tzif reads and writes compiled time zone files in the Time Zone
// Information Format described by RFC 8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// A file holds a version 1 header and data block with 32-bit times. Version 2
// and later files follow it with a second header, a data block with 64-bit
// times and a footer carrying a POSIX TZ string for instants after the last
// transition.
package tzif

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// All multi-octet integers are big-endian two's complement.
var order = binary.BigEndian

// Version identifies the format version of a TZif file.
type Version byte

const (
	V1 Version = 0x00
	V2 Version = '2'
	V3 Version = '3'
	V4 Version = '4'
)

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

// Width in octets of transition and leap times. The first data block of
// every file uses v1TimeSize, the second block of a version 2+ file uses
// v2TimeSize.
const (
	v1TimeSize = 4
	v2TimeSize = 8
)

// Magic is the four-octet sequence "TZif" that starts every header.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Header precedes each data block.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte

	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// Write writes the magic and the header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader reads a header including its magic.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic[:], Magic[:]) {
		return h, fmt.Errorf("invalid magic: %v", magic)
	}
	err := binary.Read(r, order, &h)
	return h, err
}

// LocalTimeType is a six-octet local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeType struct {
	// Utoff is the number of seconds added to UT to get local time.
	Utoff int32
	Dst   bool
	// Idx indexes the NUL-terminated designation in the data block.
	Idx uint8
}

// LeapSecond is a leap-second record. Occur is stored with the block's time
// size on the wire.
type LeapSecond struct {
	Occur int64
	Corr  int32
}

// DataBlock is the data block following a header. Times are widened to
// int64 regardless of the block's on-wire time size.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	|  transition types          (timecnt)                    |
//	|  local time type records   (typecnt x 6)                |
//	|  time zone designations    (charcnt)                    |
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	|  standard/wall indicators  (isstdcnt)                   |
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type DataBlock struct {
	TransitionTimes        []int64
	TransitionTypes        []uint8
	LocalTimeTypes         []LocalTimeType
	Designations           []byte
	LeapSeconds            []LeapSecond
	StandardWallIndicators []bool
	UTLocalIndicators      []bool
}

// Header returns a header of version v describing b.
func (b DataBlock) Header(v Version) Header {
	return Header{
		Version:  v,
		Isutcnt:  uint32(len(b.UTLocalIndicators)),
		Isstdcnt: uint32(len(b.StandardWallIndicators)),
		Leapcnt:  uint32(len(b.LeapSeconds)),
		Timecnt:  uint32(len(b.TransitionTimes)),
		Typecnt:  uint32(len(b.LocalTimeTypes)),
		Charcnt:  uint32(len(b.Designations)),
	}
}

// Designation returns the abbreviation starting at idx, e.g. "EST".
func (b DataBlock) Designation(idx uint8) string {
	if int(idx) >= len(b.Designations) {
		return ""
	}
	s := b.Designations[idx:]
	if n := bytes.IndexByte(s, 0); n >= 0 {
		s = s[:n]
	}
	return string(s)
}

// WriteV1 writes b with 32-bit times.
func (b DataBlock) WriteV1(w io.Writer) error {
	return b.write(w, v1TimeSize)
}

// WriteV2 writes b with 64-bit times.
func (b DataBlock) WriteV2(w io.Writer) error {
	return b.write(w, v2TimeSize)
}

func (b DataBlock) write(w io.Writer, size int) error {
	if err := writeTimes(w, size, b.TransitionTimes); err != nil {
		return err
	}
	if _, err := w.Write(b.TransitionTypes); err != nil {
		return err
	}
	for _, t := range b.LocalTimeTypes {
		if err := binary.Write(w, order, t); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.Designations); err != nil {
		return err
	}
	for _, l := range b.LeapSeconds {
		if err := writeTimes(w, size, []int64{l.Occur}); err != nil {
			return err
		}
		if err := binary.Write(w, order, l.Corr); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.StandardWallIndicators); err != nil {
		return err
	}
	return binary.Write(w, order, b.UTLocalIndicators)
}

func writeTimes(w io.Writer, size int, times []int64) error {
	if size == v2TimeSize {
		return binary.Write(w, order, times)
	}
	narrow := make([]int32, len(times))
	for i, t := range times {
		narrow[i] = int32(t)
	}
	return binary.Write(w, order, narrow)
}

func readTimes(r io.Reader, size int, n uint32) ([]int64, error) {
	times := make([]int64, n)
	if size == v2TimeSize {
		return times, binary.Read(r, order, times)
	}
	narrow := make([]int32, n)
	if err := binary.Read(r, order, narrow); err != nil {
		return nil, err
	}
	for i, t := range narrow {
		times[i] = int64(t)
	}
	return times, nil
}

// ReadV1DataBlock reads the 32-bit data block described by h.
func ReadV1DataBlock(r io.Reader, h Header) (DataBlock, error) {
	return readDataBlock(r, h, v1TimeSize)
}

// ReadV2DataBlock reads the 64-bit data block described by h.
func ReadV2DataBlock(r io.Reader, h Header) (DataBlock, error) {
	if h.Version < V2 {
		return DataBlock{}, fmt.Errorf("invalid header version: %v", h.Version)
	}
	return readDataBlock(r, h, v2TimeSize)
}

// blockSize returns the on-wire length of the data block h describes.
func (h Header) blockSize(size int) int64 {
	return int64(h.Timecnt)*int64(size+1) +
		int64(h.Typecnt)*6 +
		int64(h.Charcnt) +
		int64(h.Leapcnt)*int64(size+4) +
		int64(h.Isstdcnt) +
		int64(h.Isutcnt)
}

func readDataBlock(r io.Reader, h Header, size int) (DataBlock, error) {
	// Counts come from untrusted input. Buffer the block before sizing any
	// slice from them, so a short file fails on the read.
	n := h.blockSize(size)
	var block bytes.Buffer
	if _, err := io.CopyN(&block, r, n); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return DataBlock{}, fmt.Errorf("reading data block of %d bytes: %w", n, err)
	}
	r = &block

	var (
		b   DataBlock
		err error
	)
	if h.Timecnt > 0 {
		if b.TransitionTimes, err = readTimes(r, size, h.Timecnt); err != nil {
			return b, fmt.Errorf("reading transition times: %w", err)
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, b.TransitionTypes); err != nil {
			return b, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypes = make([]LocalTimeType, h.Typecnt)
		if err := binary.Read(r, order, b.LocalTimeTypes); err != nil {
			return b, fmt.Errorf("reading local time type records: %w", err)
		}
	}
	if h.Charcnt > 0 {
		b.Designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.Designations); err != nil {
			return b, fmt.Errorf("reading time zone designations: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSeconds = make([]LeapSecond, h.Leapcnt)
		for i := range b.LeapSeconds {
			occur, err := readTimes(r, size, 1)
			if err != nil {
				return b, fmt.Errorf("reading leap second record: %w", err)
			}
			b.LeapSeconds[i].Occur = occur[0]
			if err := binary.Read(r, order, &b.LeapSeconds[i].Corr); err != nil {
				return b, fmt.Errorf("reading leap second record: %w", err)
			}
		}
	}
	if h.Isstdcnt > 0 {
		b.StandardWallIndicators = make([]bool, h.Isstdcnt)
		if err := binary.Read(r, order, b.StandardWallIndicators); err != nil {
			return b, fmt.Errorf("reading standard/wall indicators: %w", err)
		}
	}
	if h.Isutcnt > 0 {
		b.UTLocalIndicators = make([]bool, h.Isutcnt)
		if err := binary.Read(r, order, b.UTLocalIndicators); err != nil {
			return b, fmt.Errorf("reading UT/local indicators: %w", err)
		}
	}
	return b, nil
}

// Footer is the newline-enclosed POSIX TZ string of a version 2+ file.
// An empty TZString means no rule is available past the last transition.
type Footer struct {
	TZString string
}

const newline = '\n'

func (f Footer) Write(w io.Writer) error {
	_, err := io.WriteString(w, string(newline)+f.TZString+string(newline))
	return err
}

// ReadFooter reads a footer. It reads byte by byte so r is never consumed
// past the closing newline.
func ReadFooter(r io.Reader) (Footer, error) {
	var f Footer
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return f, fmt.Errorf("reading newline: %w", err)
	}
	if buf[0] != newline {
		return f, fmt.Errorf("expected newline: %v", buf[0])
	}
	var s []byte
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return f, fmt.Errorf("reading TZ string: %w", err)
		}
		if buf[0] == newline {
			break
		}
		s = append(s, buf[0])
	}
	f.TZString = string(s)
	return f, nil
}
