package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"memlayout/memory"
	"memlayout/process"
)

// Address returns where the accessor's storage unit lives for an object at base
func (a Accessor) Address(base memory.Address) memory.Address {
	return base + memory.Address(a.Offset.Byte)
}

// ReadValue reads the field of the object at base without generated code.
// Bit fields come back as bool, multi-bit fields as the raw storage unit,
// pointers as memory.Address and strings decoded.
func (a Accessor) ReadValue(m *memory.Memory, base memory.Address) (any, error) {
	addr := a.Address(base)

	switch a.Kind {
	case Bit:
		raw, err := readUnsigned(m, addr, a.Load)
		if err != nil {
			return nil, err
		}
		return raw&a.Offset.Mask() != 0, nil
	case Bits:
		return readUnsigned(m, addr, a.Load)
	}

	switch {
	case a.Type == "bool":
		v, err := memory.Read[uint8](m, addr)
		return v != 0, err
	case a.GoType == goString:
		s, err := memory.Read[memory.FString](m, addr)
		if err != nil {
			return nil, err
		}
		return s.String(m)
	case strings.HasPrefix(a.GoType, "memory.TArray["):
		return memory.Read[memory.TArray[byte]](m, addr)
	case a.GoType == goAddress, strings.HasPrefix(a.GoType, "memory.Ptr["), strings.HasSuffix(a.GoType, ptrSuffix):
		return memory.Read[memory.Address](m, addr)
	}

	switch a.Type {
	case "int8":
		return memory.Read[int8](m, addr)
	case "uint8":
		return memory.Read[uint8](m, addr)
	case "int16":
		return memory.Read[int16](m, addr)
	case "uint16":
		return memory.Read[uint16](m, addr)
	case "int32":
		return memory.Read[int32](m, addr)
	case "uint32":
		return memory.Read[uint32](m, addr)
	case "int64":
		return memory.Read[int64](m, addr)
	case "uint64":
		return memory.Read[uint64](m, addr)
	case "float32":
		return memory.Read[float32](m, addr)
	case "float64":
		return memory.Read[float64](m, addr)
	}

	return nil, fmt.Errorf("no dynamic reader for %s %s: %w", a.Type, a.Name, process.InvalidArgument)
}

// WriteValue parses text according to the field type and writes it to the
// object at base. Bit fields keep their neighbouring bits.
func (a Accessor) WriteValue(m *memory.Memory, base memory.Address, text string) error {
	addr := a.Address(base)

	switch a.Kind {
	case Bit:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		raw, err := readUnsigned(m, addr, a.Load)
		if err != nil {
			return err
		}
		if v {
			raw |= a.Offset.Mask()
		} else {
			raw &^= a.Offset.Mask()
		}
		return writeUnsigned(m, addr, a.Load, raw)

	case Bits:
		v, err := strconv.ParseUint(text, 0, 8)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		raw, err := readUnsigned(m, addr, a.Load)
		if err != nil {
			return err
		}
		raw = raw&^a.Offset.Mask() | v<<a.Offset.Shift&a.Offset.Mask()
		return writeUnsigned(m, addr, a.Load, raw)
	}

	if a.Type == "bool" {
		v, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		var raw uint8
		if v {
			raw = 1
		}
		return memory.Write(m, addr, raw)
	}

	if a.GoType == goAddress || strings.HasPrefix(a.GoType, "memory.Ptr[") || strings.HasSuffix(a.GoType, ptrSuffix) {
		v, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		return memory.Write(m, addr, memory.Address(v))
	}

	switch a.Type {
	case "float32":
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		return memory.Write(m, addr, float32(v))
	case "float64":
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		return memory.Write(m, addr, v)
	case "int8", "int16", "int32", "int64":
		v, err := strconv.ParseInt(text, 0, int(primitives[a.Type])*8)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		return writeUnsigned(m, addr, unsignedOf[a.Type], uint64(v))
	case "uint8", "uint16", "uint32", "uint64":
		v, err := strconv.ParseUint(text, 0, int(primitives[a.Type])*8)
		if err != nil {
			return fmt.Errorf("parse %q: %v: %w", text, err, process.InvalidArgument)
		}
		return writeUnsigned(m, addr, a.Type, v)
	}

	return fmt.Errorf("no dynamic writer for %s %s: %w", a.Type, a.Name, process.InvalidArgument)
}

func readUnsigned(m *memory.Memory, addr memory.Address, load string) (uint64, error) {
	switch load {
	case "uint8":
		v, err := memory.Read[uint8](m, addr)
		return uint64(v), err
	case "uint16":
		v, err := memory.Read[uint16](m, addr)
		return uint64(v), err
	case "uint32":
		v, err := memory.Read[uint32](m, addr)
		return uint64(v), err
	case "uint64":
		return memory.Read[uint64](m, addr)
	}
	return 0, fmt.Errorf("storage type %q: %w", load, process.InvalidArgument)
}

func writeUnsigned(m *memory.Memory, addr memory.Address, load string, v uint64) error {
	switch load {
	case "uint8":
		return memory.Write(m, addr, uint8(v))
	case "uint16":
		return memory.Write(m, addr, uint16(v))
	case "uint32":
		return memory.Write(m, addr, uint32(v))
	case "uint64":
		return memory.Write(m, addr, v)
	}
	return fmt.Errorf("storage type %q: %w", load, process.InvalidArgument)
}
