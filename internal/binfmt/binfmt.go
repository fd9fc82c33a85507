// Package binfmt opens x86 object files and extracts their executable
// sections for the native decoder.
package binfmt

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrUnknownFormat is returned for files that are not ELF, Mach-O or PE.
	ErrUnknownFormat = errors.New("unknown object file format")
	// ErrUnsupportedArch is returned for object files that are not x86.
	ErrUnsupportedArch = errors.New("unsupported architecture")
)

// Format identifies the container of an Image.
type Format string

const (
	ELF   Format = "elf"
	MachO Format = "mach-o"
	PE    Format = "pe"
)

// Image is the decodable part of an object file.
type Image struct {
	Path   string
	Format Format
	// Mode is the x86 decoding width: 32 or 64.
	Mode     int
	Sections []Section
	// Symbols maps function start addresses to names, when the file has them.
	Symbols map[uint64]string
}

// Section is one executable section.
type Section struct {
	Name string
	Addr uint64
	Data []byte
}

// FormatName is the objdump-style file format, such as "elf64-x86-64".
func (im *Image) FormatName() string {
	arch := "x86-64"
	if im.Mode == 32 {
		arch = "i386"
	}
	switch im.Format {
	case ELF:
		return fmt.Sprintf("elf%d-%s", im.Mode, arch)
	case MachO:
		return "mach-o-" + arch
	case PE:
		return "pei-" + arch
	}
	return string(im.Format)
}

// Size is the total number of executable bytes.
func (im *Image) Size() int {
	n := 0
	for _, s := range im.Sections {
		n += len(s.Data)
	}
	return n
}

var (
	elfMagic = []byte("\x7fELF")
	peMagic  = []byte("MZ")
)

// Open reads path and detects its format from the leading magic bytes.
func Open(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open binary: %w", err)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var im *Image
	switch {
	case bytes.Equal(magic[:], elfMagic):
		im, err = openELF(f)
	case bytes.HasPrefix(magic[:], peMagic):
		im, err = openPE(f)
	case isMachO(magic):
		im, err = openMachO(f)
	case isFat(magic):
		im, err = openFat(f)
	default:
		err = ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	im.Path = path
	return im, nil
}

func isMachO(m [4]byte) bool {
	switch {
	case bytes.Equal(m[:], []byte{0xfe, 0xed, 0xfa, 0xce}),
		bytes.Equal(m[:], []byte{0xfe, 0xed, 0xfa, 0xcf}),
		bytes.Equal(m[:], []byte{0xce, 0xfa, 0xed, 0xfe}),
		bytes.Equal(m[:], []byte{0xcf, 0xfa, 0xed, 0xfe}):
		return true
	}
	return false
}

func isFat(m [4]byte) bool {
	return bytes.Equal(m[:], []byte{0xca, 0xfe, 0xba, 0xbe})
}

func openELF(r io.ReaderAt) (*Image, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("parse elf: %w", err)
	}
	defer f.Close()

	im := &Image{Format: ELF}
	switch f.Machine {
	case elf.EM_X86_64:
		im.Mode = 64
	case elf.EM_386:
		im.Mode = 32
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArch, f.Machine)
	}

	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_EXECINSTR == 0 || s.Size == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", s.Name, err)
		}
		im.Sections = append(im.Sections, Section{Name: s.Name, Addr: s.Addr, Data: data})
	}

	// Stripped section headers: fall back to executable PT_LOAD segments.
	if len(im.Sections) == 0 {
		for _, p := range f.Progs {
			if p.Type != elf.PT_LOAD || p.Flags&elf.PF_X == 0 || p.Filesz == 0 {
				continue
			}
			data := make([]byte, p.Filesz)
			if _, err := p.ReadAt(data, 0); err != nil {
				return nil, fmt.Errorf("read segment at %#x: %w", p.Vaddr, err)
			}
			im.Sections = append(im.Sections, Section{Name: "LOAD", Addr: p.Vaddr, Data: data})
		}
	}

	// Static symbols first, dynamic symbols fill gaps.
	im.Symbols = make(map[uint64]string)
	syms, _ := f.Symbols()
	dynsyms, _ := f.DynamicSymbols()
	for _, sym := range append(syms, dynsyms...) {
		if elf.ST_TYPE(sym.Info) != elf.STT_FUNC || sym.Value == 0 || sym.Name == "" {
			continue
		}
		if _, ok := im.Symbols[sym.Value]; !ok {
			im.Symbols[sym.Value] = sym.Name
		}
	}
	return im, nil
}

func openMachO(r io.ReaderAt) (*Image, error) {
	f, err := macho.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("parse mach-o: %w", err)
	}
	defer f.Close()
	return machoImage(f)
}

func openFat(r io.ReaderAt) (*Image, error) {
	ff, err := macho.NewFatFile(r)
	if err != nil {
		if errors.Is(err, macho.ErrNotFat) {
			return nil, ErrUnknownFormat
		}
		return nil, fmt.Errorf("parse universal mach-o: %w", err)
	}
	defer ff.Close()

	// Prefer the 64-bit slice.
	for _, cpu := range []macho.Cpu{macho.CpuAmd64, macho.Cpu386} {
		for _, arch := range ff.Arches {
			if arch.Cpu == cpu {
				return machoImage(arch.File)
			}
		}
	}
	return nil, fmt.Errorf("%w: no x86 slice in universal binary", ErrUnsupportedArch)
}

const (
	machoPureInstructions = 0x80000000
	machoSomeInstructions = 0x400
)

func machoImage(f *macho.File) (*Image, error) {
	im := &Image{Format: MachO}
	switch f.Cpu {
	case macho.CpuAmd64:
		im.Mode = 64
	case macho.Cpu386:
		im.Mode = 32
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedArch, f.Cpu)
	}

	for _, s := range f.Sections {
		if s.Seg != "__TEXT" || s.Flags&(machoPureInstructions|machoSomeInstructions) == 0 || s.Size == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", s.Name, err)
		}
		im.Sections = append(im.Sections, Section{Name: s.Seg + "," + s.Name, Addr: s.Addr, Data: data})
	}

	im.Symbols = make(map[uint64]string)
	if f.Symtab != nil {
		for _, sym := range f.Symtab.Syms {
			if sym.Sect == 0 || sym.Value == 0 || sym.Name == "" {
				continue
			}
			if _, ok := im.Symbols[sym.Value]; !ok {
				im.Symbols[sym.Value] = sym.Name
			}
		}
	}
	return im, nil
}

func openPE(r io.ReaderAt) (*Image, error) {
	f, err := pe.NewFile(r)
	if err != nil {
		return nil, fmt.Errorf("parse pe: %w", err)
	}
	defer f.Close()

	im := &Image{Format: PE}
	var base uint64
	switch f.Machine {
	case pe.IMAGE_FILE_MACHINE_AMD64:
		im.Mode = 64
	case pe.IMAGE_FILE_MACHINE_I386:
		im.Mode = 32
	default:
		return nil, fmt.Errorf("%w: machine %#x", ErrUnsupportedArch, f.Machine)
	}
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader64:
		base = oh.ImageBase
	case *pe.OptionalHeader32:
		base = uint64(oh.ImageBase)
	}

	for _, s := range f.Sections {
		if s.Characteristics&(pe.IMAGE_SCN_CNT_CODE|pe.IMAGE_SCN_MEM_EXECUTE) == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, fmt.Errorf("read section %s: %w", s.Name, err)
		}
		// Raw data is padded to the file alignment.
		if s.VirtualSize != 0 && int(s.VirtualSize) < len(data) {
			data = data[:s.VirtualSize]
		}
		if len(data) == 0 {
			continue
		}
		im.Sections = append(im.Sections, Section{Name: s.Name, Addr: base + uint64(s.VirtualAddress), Data: data})
	}
	return im, nil
}
