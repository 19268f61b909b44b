package tzif

import (
	"bytes"
	"fmt"
	"io"
)

// File is a decoded TZif file.
// For V1 files only V1Header and V1Data are set.
type File struct {
	Version Version

	V1Header Header
	V1Data   DataBlock

	V2Header Header
	V2Data   DataBlock
	Footer   Footer
}

// Block returns the authoritative data block: the 64-bit block of a version
// 2+ file, the 32-bit block otherwise.
func (f File) Block() DataBlock {
	if f.Version > V1 {
		return f.V2Data
	}
	return f.V1Data
}

// Encode writes f to w. Headers are written as stored, so callers building a
// file by hand should derive them with DataBlock.Header.
func (f File) Encode(w io.Writer) error {
	if err := f.V1Header.Write(w); err != nil {
		return fmt.Errorf("write v1 header: %w", err)
	}
	if err := f.V1Data.WriteV1(w); err != nil {
		return fmt.Errorf("write v1 data: %w", err)
	}
	if f.Version > V1 {
		if err := f.V2Header.Write(w); err != nil {
			return fmt.Errorf("write v2 header: %w", err)
		}
		if err := f.V2Data.WriteV2(w); err != nil {
			return fmt.Errorf("write v2 data: %w", err)
		}
		if err := f.Footer.Write(w); err != nil {
			return fmt.Errorf("write v2 footer: %w", err)
		}
	}
	return nil
}

// Decode reads a TZif file from r.
func Decode(r io.Reader) (File, error) {
	var (
		f   File
		err error
	)
	f.V1Header, err = ReadHeader(r)
	if err != nil {
		return f, fmt.Errorf("read v1 header: %w", err)
	}
	f.Version = f.V1Header.Version

	f.V1Data, err = ReadV1DataBlock(r, f.V1Header)
	if err != nil {
		return f, fmt.Errorf("read v1 data block: %w", err)
	}

	if f.Version > V1 {
		f.V2Header, err = ReadHeader(r)
		if err != nil {
			return f, fmt.Errorf("read v2 header: %w", err)
		}
		f.V2Data, err = ReadV2DataBlock(r, f.V2Header)
		if err != nil {
			return f, fmt.Errorf("read v2 data block: %w", err)
		}
		f.Footer, err = ReadFooter(r)
		if err != nil {
			return f, fmt.Errorf("read footer: %w", err)
		}
	}

	return f, nil
}

// DecodeBytes decodes and validates a complete TZif file held in memory.
func DecodeBytes(b []byte) (File, error) {
	f, err := Decode(bytes.NewReader(b))
	if err != nil {
		return f, err
	}
	if err := Validate(f); err != nil {
		return f, fmt.Errorf("validate: %w", err)
	}
	return f, nil
}
