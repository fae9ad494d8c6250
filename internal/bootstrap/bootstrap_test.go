package bootstrap

import (
	"testing"

	"github.com/cwbudde/esrt/internal/object"
	"github.com/cwbudde/esrt/internal/propkey"
)

func TestNewWiresPrototypeChain(t *testing.T) {
	e := New()

	arrayProto := e.Protos[object.ClassArray]
	if !arrayProto.IsObject() {
		t.Fatalf("Array.prototype is not an object")
	}
	arrayProtoObj := e.Heap.Resolve(arrayProto)
	if arrayProtoObj.Class != object.ClassArray {
		t.Fatalf("Array.prototype should itself be an Array exotic object, got class %v", arrayProtoObj.Class)
	}
	if !arrayProtoObj.Proto.RawEquals(e.Protos[object.ClassObject]) {
		t.Fatalf("Array.prototype.[[Prototype]] should be Object.prototype")
	}

	objectProtoObj := e.Heap.Resolve(e.Protos[object.ClassObject])
	if !objectProtoObj.Proto.IsNull() {
		t.Fatalf("Object.prototype.[[Prototype]] should be null")
	}
}

func TestNewRegistersErrorTaxonomy(t *testing.T) {
	e := New()

	if e.Heap.ErrorProtos == nil {
		t.Fatalf("error taxonomy was not registered")
	}
	for _, kind := range []string{"Error", "TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"} {
		proto, ok := e.Heap.ErrorProtos[kind]
		if !ok {
			t.Fatalf("missing error prototype for %s", kind)
		}
		if kind != "Error" {
			protoObj := e.Heap.Resolve(proto)
			if !protoObj.Proto.RawEquals(e.Heap.ErrorProtos["Error"]) {
				t.Fatalf("%s.prototype should chain to Error.prototype", kind)
			}
		}
	}
}

func TestNewDefinesGlobalBindings(t *testing.T) {
	e := New()

	nanKey := propkey.FromStringID(e.Heap.Pool().Intern("NaN"))
	prop, ok := e.Heap.Resolve(e.GlobalObject).GetOwnProperty(nanKey)
	if !ok {
		t.Fatalf("NaN global binding missing")
	}
	if !prop.Data.V.IsNumber() {
		t.Fatalf("NaN should be a number value")
	}
	if prop.Data.Writable {
		t.Fatalf("NaN should not be writable")
	}
}
