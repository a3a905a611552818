package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

type poolBuilder struct {
	buf   bytes.Buffer
	count uint16
}

func (p *poolBuilder) utf8(s string) uint16 {
	p.buf.WriteByte(tagUtf8)
	binary.Write(&p.buf, binary.BigEndian, uint16(len(s)))
	p.buf.WriteString(s)
	p.count++
	return p.count
}

func (p *poolBuilder) class(utf8Index uint16) uint16 {
	p.buf.WriteByte(tagClass)
	binary.Write(&p.buf, binary.BigEndian, utf8Index)
	p.count++
	return p.count
}

func (p *poolBuilder) long(v uint64) uint16 {
	p.buf.WriteByte(tagLong)
	binary.Write(&p.buf, binary.BigEndian, v)
	idx := p.count + 1
	p.count += 2
	return idx
}

func (p *poolBuilder) classFile(thisClass, superClass uint16) []byte {
	var out bytes.Buffer
	binary.Write(&out, binary.BigEndian, uint32(magic))
	binary.Write(&out, binary.BigEndian, uint16(0))  // minor
	binary.Write(&out, binary.BigEndian, uint16(52)) // major
	binary.Write(&out, binary.BigEndian, p.count+1)
	out.Write(p.buf.Bytes())
	binary.Write(&out, binary.BigEndian, uint16(0x21)) // access_flags
	binary.Write(&out, binary.BigEndian, thisClass)
	binary.Write(&out, binary.BigEndian, superClass)
	return out.Bytes()
}

func TestParse_ExtractsReferencedClasses(t *testing.T) {
	var p poolBuilder
	thisUtf := p.utf8("com/example/Foo")
	thisClass := p.class(thisUtf)
	superUtf := p.utf8("java/lang/Object")
	superClass := p.class(superUtf)
	arrUtf := p.utf8("[Ljava/util/List;")
	p.class(arrUtf)
	primUtf := p.utf8("[[I")
	p.class(primUtf)
	p.long(42) // 8-byte constant occupies two pool slots
	strUtf := p.utf8("java/lang/String")
	p.class(strUtf)

	cf, err := Parse(p.classFile(thisClass, superClass))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cf.ThisClass != "com.example.Foo" {
		t.Fatalf("ThisClass = %q", cf.ThisClass)
	}
	want := []string{"java.lang.Object", "java.lang.String", "java.util.List"}
	if len(cf.Referenced) != len(want) {
		t.Fatalf("Referenced = %v, want %v", cf.Referenced, want)
	}
	for i, w := range want {
		if cf.Referenced[i] != w {
			t.Fatalf("Referenced = %v, want %v", cf.Referenced, want)
		}
	}
}

func TestParse_RejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not a class file at all")); err == nil {
		t.Fatal("expected error for non-class data")
	}
	if _, err := Parse(nil); err == nil {
		t.Fatal("expected error for empty data")
	}

	var p poolBuilder
	thisUtf := p.utf8("Foo")
	thisClass := p.class(thisUtf)
	data := p.classFile(thisClass, 0)
	if _, err := Parse(data[:len(data)-3]); err == nil {
		t.Fatal("expected error for truncated data")
	}
}

func TestClassName(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"java/util/List", "java.util.List", true},
		{"[Ljava/util/List;", "java.util.List", true},
		{"[[Ljava/lang/String;", "java.lang.String", true},
		{"[[I", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := className(c.in)
		if got != c.want || ok != c.ok {
			t.Fatalf("className(%q) = %q, %v; want %q, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}
