// Package classfile extracts class references from compiled JVM class
// files. Only the constant pool is decoded; bodies, attributes, and
// verification are out of scope.
package classfile

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strings"
)

const magic = 0xCAFEBABE

// Constant pool tags, JVMS table 4.4-B.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

// ClassFile is the decoded slice of a class file the analyzer needs:
// the class's own name and the classes its constant pool references.
type ClassFile struct {
	ThisClass  string
	Referenced []string
}

type reader struct {
	data []byte
	pos  int
}

func (r *reader) u1() (byte, error) {
	if r.pos+1 > len(r.data) {
		return 0, fmt.Errorf("truncated class file at offset %d", r.pos)
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) u2() (uint16, error) {
	if r.pos+2 > len(r.data) {
		return 0, fmt.Errorf("truncated class file at offset %d", r.pos)
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *reader) skip(n int) error {
	if r.pos+n > len(r.data) {
		return fmt.Errorf("truncated class file at offset %d", r.pos)
	}
	r.pos += n
	return nil
}

// Parse decodes the constant pool of a class file and returns the
// class's name plus the sorted, deduplicated set of other classes it
// references.
func Parse(data []byte) (*ClassFile, error) {
	r := &reader{data: data}
	if len(data) < 10 || binary.BigEndian.Uint32(data) != magic {
		return nil, fmt.Errorf("not a class file")
	}
	r.pos = 8 // magic + minor + major

	count, err := r.u2()
	if err != nil {
		return nil, err
	}

	utf8 := make(map[uint16]string)
	classRefs := make(map[uint16]uint16) // pool index -> utf8 index

	for i := uint16(1); i < count; i++ {
		tag, err := r.u1()
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagUtf8:
			n, err := r.u2()
			if err != nil {
				return nil, err
			}
			if r.pos+int(n) > len(data) {
				return nil, fmt.Errorf("truncated class file at offset %d", r.pos)
			}
			utf8[i] = string(data[r.pos : r.pos+int(n)])
			r.pos += int(n)
		case tagClass:
			idx, err := r.u2()
			if err != nil {
				return nil, err
			}
			classRefs[i] = idx
		case tagString, tagMethodType, tagModule, tagPackage:
			err = r.skip(2)
		case tagMethodHandle:
			err = r.skip(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref,
			tagInterfaceMethodref, tagNameAndType, tagDynamic, tagInvokeDynamic:
			err = r.skip(4)
		case tagLong, tagDouble:
			// 8-byte constants take two pool slots.
			err = r.skip(8)
			i++
		default:
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
		if err != nil {
			return nil, err
		}
	}

	if err := r.skip(2); err != nil { // access_flags
		return nil, err
	}
	thisIdx, err := r.u2()
	if err != nil {
		return nil, err
	}
	thisName, ok := className(utf8[classRefs[thisIdx]])
	if !ok {
		return nil, fmt.Errorf("unresolvable this_class index %d", thisIdx)
	}

	seen := make(map[string]bool)
	for idx, nameIdx := range classRefs {
		if idx == thisIdx {
			continue
		}
		cn, ok := className(utf8[nameIdx])
		if !ok || cn == thisName {
			continue
		}
		seen[cn] = true
	}

	refs := make([]string, 0, len(seen))
	for cn := range seen {
		refs = append(refs, cn)
	}
	sort.Strings(refs)

	return &ClassFile{ThisClass: thisName, Referenced: refs}, nil
}

// className converts a constant-pool class entry to a dotted class
// name. Array entries are unwrapped to their element class; primitive
// arrays yield no class and report false.
func className(internal string) (string, bool) {
	if internal == "" {
		return "", false
	}
	name := internal
	for strings.HasPrefix(name, "[") {
		name = name[1:]
	}
	if strings.HasPrefix(name, "L") && strings.HasSuffix(name, ";") {
		name = name[1 : len(name)-1]
	} else if name != internal {
		// primitive array, e.g. [[I
		return "", false
	}
	if name == "" {
		return "", false
	}
	return strings.ReplaceAll(name, "/", "."), true
}
